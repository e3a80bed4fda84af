package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/logger"
)

// Resolver maps chart candidates to catalog feature vectors.
type Resolver struct {
	catalog driven.Catalog
	workers int
	timeout time.Duration
}

// NewResolver creates a resolver that runs at most workers resolutions at
// once, each bounded by timeout. A non-positive timeout disables the bound.
func NewResolver(catalog driven.Catalog, workers int, timeout time.Duration) *Resolver {
	if workers < 1 {
		workers = 1
	}
	return &Resolver{
		catalog: catalog,
		workers: workers,
		timeout: timeout,
	}
}

// Resolve searches the catalog for a candidate and fetches the features of
// the top match. A search with no items returns domain.ErrResolutionMiss;
// transport and payload failures return domain.ErrResolution.
func (r *Resolver) Resolve(ctx context.Context, c domain.Candidate) (*domain.FeatureResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	query := c.Title + " " + c.Artist

	track, err := r.catalog.SearchTrack(ctx, query)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s by %s", domain.ErrResolutionMiss, c.Title, c.Artist)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %w", domain.ErrResolution, query, err)
	}

	features, err := r.catalog.AudioFeatures(ctx, track.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: features for track %s: %w", domain.ErrResolution, track.ID, err)
	}
	if err := features.Validate(); err != nil {
		return nil, fmt.Errorf("%w: features for track %s: %w", domain.ErrResolution, track.ID, err)
	}

	return &domain.FeatureResult{
		Title:    c.Title,
		Artist:   c.Artist,
		TrackID:  track.ID,
		Features: *features,
	}, nil
}

// ResolveAll resolves every candidate through a bounded worker pool.
// A failed candidate never stops the others. Results keep candidate order
// regardless of completion order.
func (r *Resolver) ResolveAll(
	ctx context.Context,
	candidates []domain.Candidate,
) ([]domain.FeatureResult, domain.ResolveSummary) {
	found := make([]*domain.FeatureResult, len(candidates))
	errs := make([]error, len(candidates))

	var g errgroup.Group
	g.SetLimit(r.workers)

	for i, c := range candidates {
		g.Go(func() error {
			found[i], errs[i] = r.Resolve(ctx, c)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	var summary domain.ResolveSummary
	results := make([]domain.FeatureResult, 0, len(candidates))
	for i, c := range candidates {
		switch {
		case errors.Is(errs[i], domain.ErrResolutionMiss):
			summary.Missed++
			logger.Info("No catalog match for %q by %q", c.Title, c.Artist)
		case errs[i] != nil:
			summary.Failed++
			logger.Warn("Dropping %q by %q: %v", c.Title, c.Artist, errs[i])
		default:
			summary.Resolved++
			logger.Debug("Resolved %q by %q to track %s", c.Title, c.Artist, found[i].TrackID)
			results = append(results, *found[i])
		}
	}

	return results, summary
}
