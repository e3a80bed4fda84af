package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

func features(tempo, dance float64) domain.AudioFeatures {
	return domain.AudioFeatures{Tempo: tempo, Danceability: dance, Energy: 0.5}
}

func TestChartStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewChartStore()
	candidates := []domain.Candidate{{Title: "Hello", Artist: "World"}, {Title: "Other", Artist: "Band"}}

	first, err := store.UpsertChartEntries(ctx, candidates)
	require.NoError(t, err)
	second, err := store.UpsertChartEntries(ctx, candidates)
	require.NoError(t, err)

	assert.Equal(t, 2, first.Inserted)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 2, second.Duplicates)

	entries, err := store.ListChartEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestChartStore_CaseAndWhitespaceInvariance(t *testing.T) {
	ctx := context.Background()
	store := NewChartStore()

	res, err := store.UpsertChartEntries(ctx, []domain.Candidate{
		{Title: "Hello", Artist: "World"},
		{Title: " hello ", Artist: "WORLD"},
		{Title: "HELLO", Artist: "world"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.Duplicates)
}

func TestChartStore_AttachReplacesAndMisses(t *testing.T) {
	ctx := context.Background()
	store := NewChartStore()
	_, err := store.UpsertChartEntries(ctx, []domain.Candidate{{Title: "Song", Artist: "Artist"}})
	require.NoError(t, err)

	res, err := store.AttachFeatures(ctx, []domain.FeatureResult{
		{Title: "SONG ", Artist: "artist", Features: features(100, 0.5)},
		{Title: "Unknown", Artist: "Nobody", Features: features(90, 0.4)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttachResult{Attached: 1, Missed: 1}, res)

	res, err = store.AttachFeatures(ctx, []domain.FeatureResult{
		{Title: "Song", Artist: "Artist", Features: features(120, 0.7)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Replaced)

	vectors, err := store.FeatureVectors(ctx, 1)
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, 120.0, vectors[0].Features.Tempo)
}

func TestChartStore_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewChartStore()
	_, err := store.UpsertChartEntries(ctx, []domain.Candidate{{Title: "Song", Artist: "Artist"}})
	require.NoError(t, err)
	_, err = store.AttachFeatures(ctx, []domain.FeatureResult{{Title: "Song", Artist: "Artist", Features: features(100, 0.5)}})
	require.NoError(t, err)

	require.NoError(t, store.DeleteChartEntry(ctx, 1))

	vectors, err := store.FeatureVectors(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.ErrorIs(t, store.DeleteChartEntry(ctx, 1), domain.ErrNotFound)
}

func TestChartStore_Aggregates(t *testing.T) {
	ctx := context.Background()
	store := NewChartStore()

	avg, err := store.AverageFeatures(ctx)
	require.NoError(t, err)
	assert.False(t, avg.HasData())

	_, err = store.UpsertChartEntries(ctx, []domain.Candidate{
		{Title: "A", Artist: "beta"},
		{Title: "B", Artist: "beta"},
		{Title: "C", Artist: "alpha"},
		{Title: "D", Artist: "gamma"},
	})
	require.NoError(t, err)
	_, err = store.AttachFeatures(ctx, []domain.FeatureResult{
		{Title: "A", Artist: "beta", Features: features(100, 0.5)},
		{Title: "B", Artist: "beta", Features: features(120, 0.7)},
	})
	require.NoError(t, err)

	avg, err = store.AverageFeatures(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, avg.Tempo, 1e-9)
	assert.InDelta(t, 0.6, avg.Danceability, 1e-9)
	assert.Equal(t, 2, avg.Samples)

	top, err := store.TopArtists(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.ArtistCount{{Artist: "beta", Count: 2}, {Artist: "alpha", Count: 1}}, top)

	points, err := store.FeaturePoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.FeaturePoint{{Tempo: 100, Danceability: 0.5}, {Tempo: 120, Danceability: 0.7}}, points)
}
