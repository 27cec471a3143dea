package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/paiml/bashrs-sub005/colors"
	"github.com/paiml/bashrs-sub005/internal/frontend/bashparse"
	"github.com/paiml/bashrs-sub005/internal/pipeline"
)

const (
	historyFile = ".shpure_history"
	promptMain  = "shpure> "
	promptCont  = "....... "
	replName    = "<repl>"
)

const replHelp = `Type bash; the purified POSIX sh is printed back.
Unfinished constructs continue on the next line; an empty line submits.

  :check    only type check input
  :purify   type check and purify input (default)
  :help     show this help
  :quit     leave`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively purify shell snippets",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

// lineReader is the part of liner.State the session needs
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type replSession struct {
	pipeline  *pipeline.Pipeline
	parser    *bashparse.Parser
	out       io.Writer
	errOut    io.Writer
	checkOnly bool
}

func runRepl(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := &replSession{
		pipeline: newPipeline(),
		parser:   bashparse.New(),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}
	colors.CYAN.Fprintf(s.out, "shpure %s, :help for commands\n", version)
	s.loop(ctx, ln)
	return nil
}

func (s *replSession) loop(ctx context.Context, r lineReader) {
	for ctx.Err() == nil {
		code, ok := s.read(ctx, r)
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		if s.eval(ctx, code) {
			return
		}
	}
}

// read collects lines until they form a complete script. The second result
// is false at end of input.
func (s *replSession) read(ctx context.Context, r lineReader) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := r.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if strings.TrimSpace(line) != "" {
			r.AppendHistory(line)
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if !s.incomplete(ctx, src) {
			return src, true
		}
	}
}

func (s *replSession) incomplete(ctx context.Context, src string) bool {
	if strings.HasSuffix(src, "\\") {
		return true
	}
	_, err := s.parser.Parse(ctx, replName, []byte(src+"\n"))
	var syntaxErr *bashparse.SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.Incomplete
}

// eval runs one snippet or command and reports whether the session should end
func (s *replSession) eval(ctx context.Context, code string) bool {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, ":") {
		switch strings.ToLower(trimmed) {
		case ":quit", ":q", ":exit":
			return true
		case ":check":
			s.checkOnly = true
			colors.GREY.Fprintln(s.out, "mode: check")
		case ":purify":
			s.checkOnly = false
			colors.GREY.Fprintln(s.out, "mode: purify")
		case ":help":
			fmt.Fprintln(s.out, replHelp)
		default:
			colors.YELLOW.Fprintln(s.out, "unknown command, type :help")
		}
		return false
	}

	src := []byte(code + "\n")
	if s.checkOnly {
		res, err := s.pipeline.Check(ctx, replName, src)
		emit(s.errOut, res)
		if err == nil && len(res.Diagnostics.Diagnostics()) == 0 {
			colors.GREEN.Fprintln(s.out, "ok")
		}
		return false
	}

	res, err := s.pipeline.Run(ctx, replName, src)
	emit(s.errOut, res)
	if err == nil {
		fmt.Fprint(s.out, strings.TrimPrefix(res.Output, "#!/bin/sh\n"))
	}
	return false
}
