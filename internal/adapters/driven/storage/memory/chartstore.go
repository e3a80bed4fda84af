// Package memory provides in-memory implementations of the driven store
// ports. They mirror the SQLite adapter's semantics and back the core
// service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
)

// Ensure ChartStore implements the interface.
var _ driven.ChartStore = (*ChartStore)(nil)

// ChartStore is an in-memory implementation of driven.ChartStore.
type ChartStore struct {
	mu            sync.RWMutex
	entries       map[int64]domain.ChartEntry
	byKey         map[domain.NaturalKey]int64
	features      map[int64][]domain.FeatureVector
	nextEntryID   int64
	nextFeatureID int64
}

// NewChartStore creates a new in-memory chart store.
func NewChartStore() *ChartStore {
	return &ChartStore{
		entries:  make(map[int64]domain.ChartEntry),
		byKey:    make(map[domain.NaturalKey]int64),
		features: make(map[int64][]domain.FeatureVector),
	}
}

// EnsureSchema is a no-op for the in-memory store.
func (s *ChartStore) EnsureSchema(_ context.Context) error {
	return nil
}

// UpsertChartEntries inserts candidates whose natural key is new.
func (s *ChartStore) UpsertChartEntries(_ context.Context, candidates []domain.Candidate) (domain.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res domain.UpsertResult
	for _, c := range candidates {
		key := c.Key()
		if !key.Valid() {
			res.Skipped++
			continue
		}
		if _, ok := s.byKey[key]; ok {
			res.Duplicates++
			continue
		}
		s.nextEntryID++
		s.entries[s.nextEntryID] = domain.ChartEntry{ID: s.nextEntryID, Title: key.Title, Artist: key.Artist}
		s.byKey[key] = s.nextEntryID
		res.Inserted++
	}
	return res, nil
}

// AttachFeatures replaces the feature vector of each matching entry.
func (s *ChartStore) AttachFeatures(_ context.Context, results []domain.FeatureResult) (domain.AttachResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res domain.AttachResult
	for _, r := range results {
		key := r.Key()
		if !key.Valid() || r.Features.Validate() != nil {
			res.Skipped++
			continue
		}
		entryID, ok := s.byKey[key]
		if !ok {
			res.Missed++
			continue
		}
		if len(s.features[entryID]) > 0 {
			res.Replaced++
		}
		s.nextFeatureID++
		s.features[entryID] = []domain.FeatureVector{{
			ID:       s.nextFeatureID,
			EntryID:  entryID,
			Features: r.Features,
		}}
		res.Attached++
	}
	return res, nil
}

// ListChartEntries returns all entries ordered by ID.
func (s *ChartStore) ListChartEntries(_ context.Context) ([]domain.ChartEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.ChartEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// FeatureVectors returns the feature vectors attached to an entry.
func (s *ChartStore) FeatureVectors(_ context.Context, entryID int64) ([]domain.FeatureVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vectors := make([]domain.FeatureVector, len(s.features[entryID]))
	copy(vectors, s.features[entryID])
	return vectors, nil
}

// DeleteChartEntry removes an entry and its feature vectors.
func (s *ChartStore) DeleteChartEntry(_ context.Context, entryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, entryID)
	delete(s.byKey, entry.Key())
	delete(s.features, entryID)
	return nil
}

// AverageFeatures returns mean tempo and danceability.
func (s *ChartStore) AverageFeatures(_ context.Context) (domain.Averages, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var avg domain.Averages
	for _, vectors := range s.features {
		for _, v := range vectors {
			avg.Tempo += v.Features.Tempo
			avg.Danceability += v.Features.Danceability
			avg.Samples++
		}
	}
	if avg.Samples == 0 {
		return domain.Averages{}, nil
	}
	avg.Tempo /= float64(avg.Samples)
	avg.Danceability /= float64(avg.Samples)
	return avg, nil
}

// TopArtists returns up to n artists by entry count.
func (s *ChartStore) TopArtists(_ context.Context, n int) ([]domain.ArtistCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range s.entries {
		counts[e.Artist]++
	}
	artists := make([]domain.ArtistCount, 0, len(counts))
	for artist, count := range counts {
		artists = append(artists, domain.ArtistCount{Artist: artist, Count: count})
	}
	sort.Slice(artists, func(i, j int) bool {
		if artists[i].Count != artists[j].Count {
			return artists[i].Count > artists[j].Count
		}
		return artists[i].Artist < artists[j].Artist
	})
	if len(artists) > n {
		artists = artists[:n]
	}
	return artists, nil
}

// FeaturePoints returns every (tempo, danceability) pair ordered by
// feature ID.
func (s *ChartStore) FeaturePoints(_ context.Context) ([]domain.FeaturePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var vectors []domain.FeatureVector
	for _, vs := range s.features {
		vectors = append(vectors, vs...)
	}
	sort.Slice(vectors, func(i, j int) bool { return vectors[i].ID < vectors[j].ID })

	points := make([]domain.FeaturePoint, 0, len(vectors))
	for _, v := range vectors {
		points = append(points, domain.FeaturePoint{Tempo: v.Features.Tempo, Danceability: v.Features.Danceability})
	}
	return points, nil
}
