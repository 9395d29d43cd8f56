package export

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// maxParallelRenders caps concurrent renders; each PNG holds a full canvas.
const maxParallelRenders = 4

// Target is one output of a batch export.
type Target struct {
	Path   string
	Format string
}

// SaveResult reports one target of SaveAll.
type SaveResult struct {
	Path  string // final path, with any extension added
	Error error
}

// SaveAll renders t to every target concurrently, sharing the rest of base.
// Per-target failures land in the results; the returned error is the first
// one, or the context error when ctx ends first.
func SaveAll(ctx context.Context, t model.Tree, base Options, targets []Target) ([]SaveResult, error) {
	results := make([]SaveResult, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRenders)

	for i, tg := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = SaveResult{Path: tg.Path, Error: err}
				return err
			}
			opts := base
			opts.Path, opts.Format = tg.Path, tg.Format
			path, err := SaveSnapshot(t, opts)
			if err != nil {
				results[i] = SaveResult{Path: tg.Path, Error: err}
				return fmt.Errorf("%s: %w", tg.Path, err)
			}
			results[i] = SaveResult{Path: path}
			return nil
		})
	}

	return results, g.Wait()
}
