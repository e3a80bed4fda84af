package driving

import (
	"context"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

// StatsService exposes aggregates over the stored chart data.
type StatsService interface {
	// AverageFeatures returns mean tempo and danceability.
	// Returns domain.ErrNoData when no feature vectors are stored.
	AverageFeatures(ctx context.Context) (domain.Averages, error)

	// TopArtists returns the n artists with the most entries.
	TopArtists(ctx context.Context, n int) ([]domain.ArtistCount, error)

	// FeaturePoints returns every (tempo, danceability) pair.
	FeaturePoints(ctx context.Context) ([]domain.FeaturePoint, error)
}

// EntryService administers stored chart entries.
type EntryService interface {
	// List returns every stored chart entry.
	List(ctx context.Context) ([]domain.ChartEntry, error)

	// Delete removes an entry and its feature vectors.
	Delete(ctx context.Context, id int64) error
}
