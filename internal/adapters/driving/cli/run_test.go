package cli

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driving"
)

func sampleReport() *domain.RunReport {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.RunReport{
		RunID:       "run-1",
		StartedAt:   start,
		FinishedAt:  start.Add(2 * time.Second),
		Scraped:     100,
		Processed:   50,
		Upsert:      domain.UpsertResult{Inserted: 48, Duplicates: 2},
		Resolve:     domain.ResolveSummary{Resolved: 45, Missed: 3, Failed: 2},
		Attach:      domain.AttachResult{Attached: 45, Replaced: 1},
		Averages:    domain.Averages{Tempo: 110, Danceability: 0.6, Samples: 45},
		TotalPoints: 45,
	}
}

func TestRunCmd_Use(t *testing.T) {
	assert.Equal(t, "run", runCmd.Use)
	assert.Contains(t, runCmd.Long, "CLIENT_ID")
}

func TestRunCmd_PrintsReport(t *testing.T) {
	var opts RunOptions
	setupServices(t, Services{NewPipeline: pipelineReturning(&mockPipeline{report: sampleReport()}, &opts)})

	out, err := execute(t, "run", "--limit", "20")
	require.NoError(t, err)

	assert.Equal(t, 20, opts.Limit)
	assert.NotNil(t, opts.Out)
	assert.Contains(t, out, "Run run-1 finished in 2s")
	assert.Contains(t, out, "Candidates scraped")
	assert.Contains(t, out, "110.00")
	assert.Contains(t, out, "0.60")
}

func TestRunCmd_NoDataAverages(t *testing.T) {
	report := sampleReport()
	report.Averages = domain.Averages{}
	report.FetchErr = fmt.Errorf("%w: status 503", domain.ErrFetch)
	setupServices(t, Services{NewPipeline: pipelineReturning(&mockPipeline{report: report}, nil)})

	out, err := execute(t, "run")
	require.NoError(t, err)

	assert.Contains(t, out, "Chart fetch failed")
	assert.Contains(t, out, "no data")
}

func TestRunCmd_EmptyScrapeWarns(t *testing.T) {
	report := &domain.RunReport{RunID: "run-2"}
	setupServices(t, Services{NewPipeline: pipelineReturning(&mockPipeline{report: report}, nil)})

	out, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "page structure may have changed")
}

func TestRunCmd_PipelineError(t *testing.T) {
	setupServices(t, Services{NewPipeline: pipelineReturning(&mockPipeline{err: domain.ErrToken}, nil)})

	_, err := execute(t, "run")
	assert.ErrorIs(t, err, domain.ErrToken)
}

func TestRunCmd_FactoryError(t *testing.T) {
	setupServices(t, Services{NewPipeline: func(RunOptions) (driving.Pipeline, error) {
		return nil, domain.ErrConfiguration
	}})

	_, err := execute(t, "run")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRunCmd_NotConfigured(t *testing.T) {
	setupServices(t, Services{})

	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRunCmd_NegativeLimit(t *testing.T) {
	setupServices(t, Services{NewPipeline: pipelineReturning(&mockPipeline{report: sampleReport()}, nil)})

	_, err := execute(t, "run", "--limit", "-1")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
