package driving

import (
	"context"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

// Pipeline runs one ingestion-and-reconciliation pass.
type Pipeline interface {
	// Run scrapes the chart, stores new entries, resolves and attaches
	// audio features, and aggregates the store. Only configuration and
	// token failures return an error; every other failure is counted in
	// the report.
	Run(ctx context.Context) (*domain.RunReport, error)
}
