package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/core/ports/driving"
	"github.com/custodia-labs/chartmix/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// PipelineOptions tunes a pipeline run.
type PipelineOptions struct {
	// Limit caps the candidates processed per run. Zero means no cap.
	Limit int

	// TopArtists is the ranking size handed to the renderer.
	TopArtists int
}

// Pipeline coordinates scrape, resolve and reconcile for one run.
type Pipeline struct {
	source   driven.ChartSource
	tokens   driven.TokenProvider
	resolver *Resolver
	store    driven.ChartStore
	stats    *StatsService
	opts     PipelineOptions

	// Optional reporting collaborators.
	statsWriter driven.StatsWriter
	renderer    driven.ChartRenderer
}

// NewPipeline creates a new pipeline.
// statsWriter and renderer are optional; if nil, the matching report is skipped.
func NewPipeline(
	source driven.ChartSource,
	tokens driven.TokenProvider,
	resolver *Resolver,
	store driven.ChartStore,
	statsWriter driven.StatsWriter,
	renderer driven.ChartRenderer,
	opts PipelineOptions,
) *Pipeline {
	if opts.TopArtists <= 0 {
		opts.TopArtists = domain.DefaultTopArtists
	}
	return &Pipeline{
		source:      source,
		tokens:      tokens,
		resolver:    resolver,
		store:       store,
		stats:       NewStatsService(store),
		opts:        opts,
		statsWriter: statsWriter,
		renderer:    renderer,
	}
}

// Run executes one pipeline pass.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (p *Pipeline) Run(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}

	// 1. Schema
	if err := p.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	// 2. Token, once per run. Fatal before anything is stored.
	logger.Section("Token")
	if _, err := p.tokens.GetToken(ctx); err != nil {
		if !errors.Is(err, domain.ErrToken) {
			err = fmt.Errorf("%w: %w", domain.ErrToken, err)
		}
		return nil, err
	}

	// 3. Scrape
	logger.Section("Scrape")
	candidates, err := p.source.Scrape(ctx)
	if err != nil {
		logger.Warn("Chart fetch failed, continuing with zero candidates: %v", err)
		report.FetchErr = err
		candidates = nil
	} else if len(candidates) == 0 {
		logger.Warn("Chart yielded no candidates; the page structure may have changed")
	}
	report.Scraped = len(candidates)
	if p.opts.Limit > 0 && len(candidates) > p.opts.Limit {
		candidates = candidates[:p.opts.Limit]
	}
	report.Processed = len(candidates)
	logger.Info("Scraped %d candidates, processing %d", report.Scraped, report.Processed)

	// 4. Store chart entries
	logger.Section("Store")
	upsert, err := p.store.UpsertChartEntries(ctx, candidates)
	if err != nil {
		logger.Error("Storing chart entries: %v", err)
	}
	report.Upsert = upsert

	// 5. Resolve features concurrently
	logger.Section("Resolve")
	results, summary := p.resolver.ResolveAll(ctx, uniqueCandidates(candidates))
	report.Resolve = summary

	// 6. Attach, single writer
	logger.Section("Attach")
	attach, err := p.store.AttachFeatures(ctx, results)
	if err != nil {
		logger.Error("Attaching features: %v", err)
	}
	report.Attach = attach

	// 7. Aggregate and report
	logger.Section("Aggregate")
	p.aggregate(ctx, report)

	report.FinishedAt = time.Now()
	logger.Info("Run %s complete in %s", report.RunID, report.Duration())
	return report, nil
}

// aggregate fills the report's aggregates and feeds the collaborators.
// Failures are logged; the run still completes.
func (p *Pipeline) aggregate(ctx context.Context, report *domain.RunReport) {
	avg, err := p.stats.AverageFeatures(ctx)
	switch {
	case errors.Is(err, domain.ErrNoData):
		logger.Warn("No feature vectors stored; averages unavailable")
	case err != nil:
		logger.Error("Computing averages: %v", err)
	}
	report.Averages = avg

	if p.statsWriter != nil && (err == nil || errors.Is(err, domain.ErrNoData)) {
		if err := p.statsWriter.WriteAverages(avg); err != nil {
			logger.Error("Writing averages: %v", err)
		}
	}

	top, err := p.stats.TopArtists(ctx, p.opts.TopArtists)
	if err != nil {
		logger.Error("Ranking artists: %v", err)
	}
	report.TopArtists = top

	points, err := p.stats.FeaturePoints(ctx)
	if err != nil {
		logger.Error("Loading feature points: %v", err)
	}
	report.TotalPoints = len(points)

	if p.renderer == nil {
		return
	}
	if err := p.renderer.RenderFeaturePoints(points); err != nil {
		logger.Error("Rendering feature points: %v", err)
	}
	if err := p.renderer.RenderTopArtists(top); err != nil {
		logger.Error("Rendering top artists: %v", err)
	}
}

// uniqueCandidates drops candidates with an empty key and repeats of a key
// already seen, keeping the first occurrence.
func uniqueCandidates(candidates []domain.Candidate) []domain.Candidate {
	seen := make(map[domain.NaturalKey]struct{}, len(candidates))
	unique := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := c.Key()
		if !key.Valid() {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
