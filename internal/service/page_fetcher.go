package service

import (
	"context"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/prohmpiriya/concert-events-dashboard/internal/normalizer"
)

// PageFetcher loads normalized pages through the list proxy path
type PageFetcher struct {
	events EventService
}

// NewPageFetcher creates a PageFetcher over an EventService
func NewPageFetcher(events EventService) *PageFetcher {
	return &PageFetcher{events: events}
}

// FetchPage returns the normalized records of one page
func (f *PageFetcher) FetchPage(ctx context.Context, offset, limit int) ([]*domain.Event, error) {
	page, err := f.events.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return normalizer.NormalizeList(page.Events), nil
}
