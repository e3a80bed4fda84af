package driven

import (
	"context"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

// ChartSource extracts ordered candidates from a chart page.
type ChartSource interface {
	// Scrape fetches the chart and returns its candidates in chart order.
	// Items missing a title or artist are skipped. An empty slice with a
	// nil error means the markup matched nothing. Transport failures
	// wrap domain.ErrFetch.
	Scrape(ctx context.Context) ([]domain.Candidate, error)
}
