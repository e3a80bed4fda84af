package driven

import (
	"context"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

// Catalog searches a music catalog and fetches audio features.
type Catalog interface {
	// SearchTrack returns the top match for query.
	// Returns domain.ErrNotFound when the search has no items.
	SearchTrack(ctx context.Context, query string) (*domain.Track, error)

	// AudioFeatures fetches the feature vector of a track.
	// Missing required fields are reported as *domain.FieldError.
	AudioFeatures(ctx context.Context, trackID string) (*domain.AudioFeatures, error)
}
