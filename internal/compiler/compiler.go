package compiler

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/paiml/bashrs-sub005/colors"
	"github.com/paiml/bashrs-sub005/internal/config"
	"github.com/paiml/bashrs-sub005/internal/frontend/bashparse"
	"github.com/paiml/bashrs-sub005/internal/pipeline"
)

// Options for one purification
type Options struct {
	// For file-based purification
	EntryFile string
	// For in-memory purification; Name labels diagnostics
	Code string
	Name string
	// Nil means DefaultConfig
	Config *config.Config
	Logger *zap.Logger
	// Strip colour codes from rendered diagnostics
	Plain bool
}

// Result of purification
type Result struct {
	Success     bool
	Output      string // the POSIX script
	Diagnostics string // rendered diagnostics, empty when there are none
}

// Purify reads, checks and purifies one script
func Purify(opts *Options) Result {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	name, src := opts.Name, []byte(opts.Code)
	if name == "" {
		name = "<input>"
	}
	if opts.Code == "" && opts.EntryFile != "" {
		data, err := os.ReadFile(opts.EntryFile)
		if err != nil {
			return Result{Success: false, Diagnostics: fmt.Sprintf("File not found: %s", opts.EntryFile)}
		}
		name, src = opts.EntryFile, data
	}

	p := pipeline.New(bashparse.New(), pipeline.OptionsFrom(cfg), opts.Logger)
	res, _ := p.Run(context.Background(), name, src)

	out := Result{Success: res.Success(), Output: res.Output}
	if len(res.Diagnostics.Diagnostics()) > 0 {
		out.Diagnostics = res.Diagnostics.EmitAllToString()
		if opts.Plain {
			out.Diagnostics = colors.StripANSI(out.Diagnostics)
		}
	}
	return out
}
