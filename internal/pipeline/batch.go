package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/paiml/bashrs-sub005/internal/diagnostics"
)

// RunBatch purifies every file in paths, at most Workers at a time. Scripts
// are independent, so one failure does not stop the others. Results are in
// input order; failures are combined into the returned error.
func (p *Pipeline) RunBatch(ctx context.Context, paths []string) ([]*Result, error) {
	runID := uuid.NewString()
	log := p.logger.With(zap.String("run", runID))
	log.Info("batch started", zap.Int("scripts", len(paths)), zap.Int("workers", p.opts.Workers))
	start := time.Now()

	results := make([]*Result, len(paths))
	var (
		mu   sync.Mutex
		errs error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := p.runFile(gctx, path)
			results[i] = res
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := len(multierr.Errors(errs))
	log.Info("batch finished",
		zap.Int("succeeded", len(paths)-failed),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
	return results, errs
}

func (p *Pipeline) runFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		res := &Result{Name: path, Diagnostics: diagnostics.NewDiagnosticBag()}
		res.Diagnostics.Add(diagnostics.NewError(fmt.Sprintf("cannot read file %s", path)).
			WithFile(path).
			WithNote(err.Error()))
		return res, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Run(ctx, path, src)
}
