package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService computes summary statistics over the chart store.
type StatsService struct {
	store driven.ChartStore
}

// NewStatsService creates a new stats service.
func NewStatsService(store driven.ChartStore) *StatsService {
	return &StatsService{store: store}
}

// AverageFeatures returns mean tempo and danceability over all stored
// feature vectors, or domain.ErrNoData on an empty store.
func (s *StatsService) AverageFeatures(ctx context.Context) (domain.Averages, error) {
	avg, err := s.store.AverageFeatures(ctx)
	if err != nil {
		return domain.Averages{}, fmt.Errorf("average features: %w", err)
	}
	if !avg.HasData() {
		return domain.Averages{}, domain.ErrNoData
	}
	return avg, nil
}

// TopArtists returns the n artists with the most chart entries across
// every run, ties broken by artist name ascending.
func (s *StatsService) TopArtists(ctx context.Context, n int) ([]domain.ArtistCount, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive", domain.ErrInvalidInput)
	}
	artists, err := s.store.TopArtists(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("top artists: %w", err)
	}
	return artists, nil
}

// FeaturePoints returns every stored (tempo, danceability) pair.
func (s *StatsService) FeaturePoints(ctx context.Context) ([]domain.FeaturePoint, error) {
	points, err := s.store.FeaturePoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("feature points: %w", err)
	}
	return points, nil
}
