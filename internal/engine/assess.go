package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/leapstack-labs/emlquality/pkg/eml"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of assessing one document.
type Result struct {
	Source       string       `json:"source"`
	Snapshot     eml.Snapshot `json:"report"`
	AssessmentID string       `json:"assessment_id,omitempty"`
}

// HasQualityError reports whether any check on the document failed.
func (r *Result) HasQualityError() bool {
	return r.Snapshot.HasQualityError
}

// Assess parses an EML document from r and runs every applicable check.
// When save is set the result is recorded in the store.
func (e *Engine) Assess(ctx context.Context, source string, r io.Reader, save bool) (*Result, error) {
	if save && e.store == nil {
		return nil, ErrNoStore
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	doc, err := eml.ParseDocument(r)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidDocument, source, err)
	}

	pkg, err := eml.Assemble(ctx, e.registry, doc, e.packageOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to assess %s: %w", source, err)
	}

	res := &Result{Source: source, Snapshot: pkg.Snapshot()}
	if save {
		a, err := e.store.SaveAssessment(ctx, res.Snapshot, source)
		if err != nil {
			return nil, fmt.Errorf("failed to save assessment for %s: %w", source, err)
		}
		res.AssessmentID = a.ID
	}

	e.logger.Info("assessed package",
		"source", source,
		"package_id", pkg.PackageID().OrElse(""),
		"quality_error", res.Snapshot.HasQualityError,
		"failed", res.Snapshot.Counts.Failed,
		"duration", time.Since(start))
	return res, nil
}

// AssessFile assesses the document at path.
func (e *Engine) AssessFile(ctx context.Context, path string, save bool) (*Result, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is a user-supplied document
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return e.Assess(ctx, path, f, save)
}

// AssessFiles assesses documents concurrently, bounded by the configured
// worker count. Results are returned in input order. The first error
// cancels the remaining work.
func (e *Engine) AssessFiles(ctx context.Context, paths []string, save bool) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, path := range paths {
		g.Go(func() error {
			res, err := e.AssessFile(gctx, path, save)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
