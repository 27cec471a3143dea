package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/paiml/bashrs-sub005/internal/codegen/purify"
	"github.com/paiml/bashrs-sub005/internal/config"
	"github.com/paiml/bashrs-sub005/internal/diagnostics"
	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/phase"
	"github.com/paiml/bashrs-sub005/internal/semantics/typechecker"
)

// ErrCheckFailed is returned when type checking produced error diagnostics.
var ErrCheckFailed = errors.New("type check failed")

// Parser reads shell source into a syntax tree.
type Parser interface {
	Parse(ctx context.Context, name string, src []byte) (*ast.Script, error)
}

// Options configure every phase of a run.
type Options struct {
	Purify    purify.Options
	TypeCheck typechecker.Options
	Workers   int // batch parallelism
}

// OptionsFrom builds pipeline options from loaded configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Purify: purify.Options{
			Indent:             cfg.Purify.Indent,
			IdempotentCommands: cfg.Purify.IdempotentCommands,
		},
		TypeCheck: typechecker.Options{
			Strict:           cfg.TypeCheck.Strict,
			WarningsAsErrors: cfg.TypeCheck.WarningsAsErrors,
		},
		Workers: cfg.Batch.Workers,
	}
}

// Result is what one script produced.
type Result struct {
	Name        string
	Phase       phase.ScriptPhase
	Script      *ast.Script
	Output      string
	Diagnostics *diagnostics.DiagnosticBag
	Report      *purify.Report
}

// Success reports whether the script was purified without errors.
func (r *Result) Success() bool {
	return r.Phase == phase.PhasePurified && !r.Diagnostics.HasErrors()
}

// Pipeline coordinates parse -> check -> purify for independent scripts.
// It holds no per-script state and may be used concurrently.
type Pipeline struct {
	parser Parser
	opts   Options
	logger *zap.Logger
}

// New creates a new pipeline. A nil logger discards logs.
func New(parser Parser, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{parser: parser, opts: opts, logger: logger}
}

// diagnosable errors carry their own rendering
type diagnosable interface {
	ToDiagnostic() *diagnostics.Diagnostic
}

// Run executes the full pipeline on one script. The returned Result is never
// nil; its Phase tells how far the script got.
func (p *Pipeline) Run(ctx context.Context, name string, src []byte) (*Result, error) {
	start := time.Now()
	res, err := p.Check(ctx, name, src)
	if err != nil {
		return res, err
	}

	// Phase 3: purification
	gen := purify.New(p.opts.Purify)
	res.Output = gen.Generate(res.Script)
	res.Report = gen.Report()
	for _, d := range res.Report.Diagnostics(name) {
		res.Diagnostics.Add(d)
	}
	p.advance(res, phase.PhasePurified)

	p.logger.Debug("purified",
		zap.String("script", name),
		zap.Int("idempotency_fixes", res.Report.Count(purify.IdempotencyFix)),
		zap.Int("nondeterministic", res.Report.Count(purify.NonDeterministic)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// Check parses and type checks one script without purifying it.
func (p *Pipeline) Check(ctx context.Context, name string, src []byte) (*Result, error) {
	res := &Result{Name: name, Diagnostics: diagnostics.NewDiagnosticBag()}
	res.Diagnostics.AddSourceContent(name, string(src))
	log := p.logger.With(zap.String("script", name))

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}

	// Phase 1: parse
	script, err := p.parser.Parse(ctx, name, src)
	if err != nil {
		var d diagnosable
		if errors.As(err, &d) {
			res.Diagnostics.Add(d.ToDiagnostic())
		} else {
			res.Diagnostics.Add(diagnostics.ParseFailed(name, err))
		}
		log.Debug("parse failed", zap.Error(err))
		return res, fmt.Errorf("%s: %w", name, err)
	}
	res.Script = script
	p.advance(res, phase.PhaseParsed)
	log.Debug("parsed", zap.Int("statements", len(script.Statements)))

	// Phase 2: gradual type checking
	checker := typechecker.New(p.opts.TypeCheck)
	for _, td := range checker.CheckAST(script) {
		res.Diagnostics.Add(td.ToDiagnostic(name))
	}
	p.advance(res, phase.PhaseChecked)
	log.Debug("checked",
		zap.Int("errors", res.Diagnostics.ErrorCount()),
		zap.Int("warnings", res.Diagnostics.WarningCount()))
	if res.Diagnostics.HasErrors() {
		return res, fmt.Errorf("%s: %w", name, ErrCheckFailed)
	}
	return res, nil
}

func (p *Pipeline) advance(res *Result, to phase.ScriptPhase) {
	if !phase.CanAdvance(res.Phase, to) {
		p.logger.DPanic("invalid phase transition",
			zap.String("script", res.Name),
			zap.Stringer("from", res.Phase),
			zap.Stringer("to", to))
	}
	res.Phase = to
}
