package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driving"
)

type mockPipeline struct {
	report *domain.RunReport
	err    error
}

func (m *mockPipeline) Run(_ context.Context) (*domain.RunReport, error) {
	return m.report, m.err
}

type mockStatsService struct {
	avg     domain.Averages
	avgErr  error
	top     []domain.ArtistCount
	points  []domain.FeaturePoint
	lastTop int
}

func (m *mockStatsService) AverageFeatures(_ context.Context) (domain.Averages, error) {
	return m.avg, m.avgErr
}

func (m *mockStatsService) TopArtists(_ context.Context, n int) ([]domain.ArtistCount, error) {
	m.lastTop = n
	return m.top, nil
}

func (m *mockStatsService) FeaturePoints(_ context.Context) ([]domain.FeaturePoint, error) {
	return m.points, nil
}

type mockEntryService struct {
	entries []domain.ChartEntry
	deleted []int64
}

func (m *mockEntryService) List(_ context.Context) ([]domain.ChartEntry, error) {
	return m.entries, nil
}

func (m *mockEntryService) Delete(_ context.Context, id int64) error {
	for _, e := range m.entries {
		if e.ID == id {
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

type mockSettingsService struct {
	settings domain.AppSettings
	set      map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, raw string) error {
	if key == "bogus" {
		return domain.ErrInvalidInput
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = raw
	return nil
}

func (m *mockSettingsService) Path() string { return "/tmp/chartmix/config.toml" }

// setupServices installs s for the duration of a test and restores the
// previous wiring afterwards.
func setupServices(t *testing.T, s Services) {
	t.Helper()
	oldPipeline, oldStats, oldEntries, oldSettings := newPipeline, statsService, entryService, settingsService
	SetServices(s)
	t.Cleanup(func() {
		newPipeline, statsService, entryService, settingsService = oldPipeline, oldStats, oldEntries, oldSettings
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		runLimit = 0
		statsTop = domain.DefaultTopArtists
		statsPoints = false
		entriesJSON = false
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func pipelineReturning(p driving.Pipeline, captured *RunOptions) PipelineFactory {
	return func(opts RunOptions) (driving.Pipeline, error) {
		if captured != nil {
			*captured = opts
		}
		return p, nil
	}
}
