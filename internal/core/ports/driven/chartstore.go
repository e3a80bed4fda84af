package driven

import (
	"context"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

// ChartStore persists chart entries and their feature vectors.
//
// Natural keys are matched case-insensitively and whitespace-trimmed on
// both sides. Each batch method commits as one unit; individual rows
// that fail are skipped and counted, and the rest of the batch commits.
type ChartStore interface {
	// EnsureSchema creates both tables and their constraints if absent.
	EnsureSchema(ctx context.Context) error

	// UpsertChartEntries inserts each candidate unless its natural key
	// already exists. Duplicates are counted, not returned as errors.
	UpsertChartEntries(ctx context.Context, candidates []domain.Candidate) (domain.UpsertResult, error)

	// AttachFeatures links each result to the chart entry with the same
	// natural key, replacing any feature vector already attached.
	// Results without a matching entry are counted as misses.
	AttachFeatures(ctx context.Context, results []domain.FeatureResult) (domain.AttachResult, error)

	// ListChartEntries returns all entries ordered by ID.
	ListChartEntries(ctx context.Context) ([]domain.ChartEntry, error)

	// FeatureVectors returns the feature vectors attached to an entry.
	FeatureVectors(ctx context.Context, entryID int64) ([]domain.FeatureVector, error)

	// DeleteChartEntry removes an entry and, by cascade, its feature vectors.
	// Returns domain.ErrNotFound if no such entry exists.
	DeleteChartEntry(ctx context.Context, entryID int64) error

	// AverageFeatures returns mean tempo and danceability over all
	// feature vectors. Samples is zero on an empty store.
	AverageFeatures(ctx context.Context) (domain.Averages, error)

	// TopArtists returns up to n artists by entry count, ties broken by
	// artist name ascending.
	TopArtists(ctx context.Context, n int) ([]domain.ArtistCount, error)

	// FeaturePoints returns every stored (tempo, danceability) pair.
	FeaturePoints(ctx context.Context) ([]domain.FeaturePoint, error)
}
