package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

// MockCatalog is a mock implementation of driven.Catalog.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) SearchTrack(ctx context.Context, query string) (*domain.Track, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Track), args.Error(1)
}

func (m *MockCatalog) AudioFeatures(ctx context.Context, trackID string) (*domain.AudioFeatures, error) {
	args := m.Called(ctx, trackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioFeatures), args.Error(1)
}

// expectTrack wires a successful search and feature lookup for one query.
func (m *MockCatalog) expectTrack(query, trackID string, f domain.AudioFeatures) {
	m.On("SearchTrack", mock.Anything, query).Return(&domain.Track{ID: trackID}, nil)
	m.On("AudioFeatures", mock.Anything, trackID).Return(&f, nil)
}

type fakeTokens struct {
	err   error
	calls int
}

func (f *fakeTokens) GetToken(_ context.Context) (string, error) {
	f.calls++
	return "tok", f.err
}

func (f *fakeTokens) Invalidate(string) {}

type fakeSource struct {
	candidates []domain.Candidate
	err        error
}

func (f *fakeSource) Scrape(_ context.Context) ([]domain.Candidate, error) {
	return f.candidates, f.err
}

type recordingReporter struct {
	mu       sync.Mutex
	averages []domain.Averages
	points   [][]domain.FeaturePoint
	artists  [][]domain.ArtistCount
}

func (r *recordingReporter) WriteAverages(avg domain.Averages) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.averages = append(r.averages, avg)
	return nil
}

func (r *recordingReporter) RenderFeaturePoints(points []domain.FeaturePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, points)
	return nil
}

func (r *recordingReporter) RenderTopArtists(artists []domain.ArtistCount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artists = append(r.artists, artists)
	return nil
}

func features(tempo, dance float64) domain.AudioFeatures {
	return domain.AudioFeatures{Tempo: tempo, Danceability: dance, Energy: 0.5}
}
