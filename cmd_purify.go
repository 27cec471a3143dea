package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/paiml/bashrs-sub005/colors"
	"github.com/paiml/bashrs-sub005/internal/pipeline"
	"github.com/paiml/bashrs-sub005/internal/watch"
)

var (
	outPath   string
	watchMode bool
)

var purifyCmd = &cobra.Command{
	Use:   "purify [file...]",
	Short: "Purify scripts into POSIX sh",
	Long: `Reads each script, checks it and writes the purified POSIX sh.

With no files the script is read from standard input. With one file the
result goes to standard output or to --output. With several files --output
names a directory that receives one purified script per input.

Example:
  shpure purify deploy.sh -o deploy.purified.sh
  shpure purify --watch -o out/ scripts/*.sh`,
	RunE: runPurify,
}

func init() {
	purifyCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file, or directory for several inputs")
	purifyCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Purify again whenever an input changes")
}

func runPurify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p := newPipeline()

	if len(args) == 0 {
		if watchMode {
			return errors.New("--watch needs at least one file")
		}
		return purifyStdin(ctx, cmd, p)
	}

	targets, err := outputTargets(args)
	if err != nil {
		return err
	}

	err = purifyFiles(ctx, cmd, p, args, targets)
	if !watchMode {
		return err
	}
	return watchFiles(ctx, cmd, p, args, targets)
}

func purifyStdin(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	res, err := p.Run(ctx, "<stdin>", src)
	emit(cmd.ErrOrStderr(), res)
	if err != nil {
		logger.Debug("purify failed", zap.Error(err))
		return errFailed
	}
	return writeOutput(cmd, outPath, res.Output)
}

// outputTargets maps each input to where its result is written; "" is stdout.
func outputTargets(paths []string) ([]string, error) {
	targets := make([]string, len(paths))
	if len(paths) == 1 {
		targets[0] = outPath
	} else {
		if outPath == "" {
			return nil, errors.New("several inputs need --output DIR")
		}
		if err := os.MkdirAll(outPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		for i, path := range paths {
			targets[i] = filepath.Join(outPath, filepath.Base(path))
		}
	}

	for i, target := range targets {
		if target != "" && samePath(target, paths[i]) {
			return nil, fmt.Errorf("output for %s would overwrite the input", paths[i])
		}
	}
	return targets, nil
}

func purifyFiles(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline, paths, targets []string) error {
	results, batchErr := p.RunBatch(ctx, paths)
	emit(cmd.ErrOrStderr(), results...)

	var writeErr error
	for i, res := range results {
		if res == nil || !res.Success() {
			continue
		}
		writeErr = multierr.Append(writeErr, writeOutput(cmd, targets[i], res.Output))
	}
	if writeErr != nil {
		return writeErr
	}
	if batchErr != nil {
		logger.Debug("purify failed", zap.Error(batchErr))
		return errFailed
	}
	return nil
}

func watchFiles(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline, paths, targets []string) error {
	w, err := watch.New(logger)
	if err != nil {
		return err
	}
	if err := w.Add(paths...); err != nil {
		return err
	}

	byFile := make(map[string]int, len(paths))
	for i, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		byFile[abs] = i
	}

	colors.GREY.Fprintf(cmd.ErrOrStderr(), "watching %d script(s), press Ctrl+C to stop\n", len(paths))
	err = w.Run(ctx, func(ctx context.Context, path string) {
		i, ok := byFile[path]
		if !ok {
			return
		}
		if err := purifyFiles(ctx, cmd, p, paths[i:i+1], targets[i:i+1]); err != nil && !errors.Is(err, errFailed) {
			colors.RED.Fprintln(cmd.ErrOrStderr(), "error:", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Debug("wrote output", zap.String("file", path))
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
