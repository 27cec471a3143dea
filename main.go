package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paiml/bashrs-sub005/colors"
	"github.com/paiml/bashrs-sub005/internal/config"
	"github.com/paiml/bashrs-sub005/internal/frontend/bashparse"
	"github.com/paiml/bashrs-sub005/internal/logging"
	"github.com/paiml/bashrs-sub005/internal/pipeline"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	strict  bool
	noColor bool

	cfg    *config.Config
	logger *zap.Logger
)

// errFailed is returned after diagnostics have already been printed
var errFailed = errors.New("one or more scripts failed")

var rootCmd = &cobra.Command{
	Use:   "shpure",
	Short: "Purify bash scripts into deterministic, idempotent POSIX sh",
	Long: `shpure parses bash scripts, checks optional type annotations and
emits POSIX sh that is safe to re-run.

  mkdir dir     becomes  mkdir -p dir
  rm file       becomes  rm -f file
  echo $x       becomes  echo "$x"

Type annotations are comments such as "# @type port: int".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if strict {
			loaded.TypeCheck.Strict = true
		}
		cfg = loaded

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if noColor {
			colors.Enabled = false
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.FileName, "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Enable strict type checking")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured diagnostics")

	rootCmd.AddCommand(purifyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			colors.RED.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(bashparse.New(), pipeline.OptionsFrom(cfg), logger)
}

// emit prints the diagnostics of every result that has any
func emit(w io.Writer, results ...*pipeline.Result) {
	for _, res := range results {
		if res == nil || len(res.Diagnostics.Diagnostics()) == 0 {
			continue
		}
		res.Diagnostics.EmitAll(w)
	}
}
