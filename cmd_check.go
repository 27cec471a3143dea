package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paiml/bashrs-sub005/colors"
	"github.com/paiml/bashrs-sub005/internal/pipeline"
)

var warningsAsErrors bool

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Type check scripts without purifying them",
	Long: `Parses each script and runs the gradual type checker over its
annotations. Nothing is written; diagnostics go to standard error.

Example:
  shpure check --strict deploy.sh
  shpure check --werror scripts/*.sh`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&warningsAsErrors, "werror", false, "Treat warnings as errors")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if warningsAsErrors {
		cfg.TypeCheck.WarningsAsErrors = true
	}
	p := newPipeline()

	if len(args) == 0 {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		return checkOne(ctx, cmd, p, "<stdin>", src)
	}

	failed := 0
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			colors.RED.Fprintf(cmd.ErrOrStderr(), "error: failed to read %s: %v\n", path, err)
			failed++
			continue
		}
		if err := checkOne(ctx, cmd, p, path, src); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return errFailed
	}
	return nil
}

func checkOne(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline, name string, src []byte) error {
	res, err := p.Check(ctx, name, src)
	emit(cmd.ErrOrStderr(), res)
	if err != nil {
		logger.Debug("check failed", zap.String("script", name), zap.Error(err))
		return errFailed
	}
	if len(res.Diagnostics.Diagnostics()) == 0 {
		colors.GREEN.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
	}
	return nil
}
