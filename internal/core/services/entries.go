package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/core/ports/driving"
)

// Ensure EntryService implements the interface.
var _ driving.EntryService = (*EntryService)(nil)

// EntryService administers stored chart entries.
type EntryService struct {
	store driven.ChartStore
}

// NewEntryService creates a new entry service.
func NewEntryService(store driven.ChartStore) *EntryService {
	return &EntryService{store: store}
}

// List returns every stored chart entry.
func (s *EntryService) List(ctx context.Context) ([]domain.ChartEntry, error) {
	return s.store.ListChartEntries(ctx)
}

// Delete removes an entry and its feature vectors.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: entry id must be positive", domain.ErrInvalidInput)
	}
	return s.store.DeleteChartEntry(ctx, id)
}
