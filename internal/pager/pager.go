// Package pager tracks an offset cursor over the upstream list and infers
// whether a next page exists from page fullness, since upstream reports no
// total count.
package pager

import (
	"context"
	"errors"
	"sync"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// DefaultPageSize matches the list proxy default limit
const DefaultPageSize = 6

var (
	ErrNavigationDisabled = errors.New("navigation disabled")
	ErrFetchInProgress    = errors.New("page fetch already in progress")
)

// PageFetcher loads one page of records
type PageFetcher interface {
	FetchPage(ctx context.Context, offset, limit int) ([]*domain.Event, error)
}

// State is a snapshot of the controller
type State struct {
	Offset      int
	Page        int
	PageSize    int
	HasNextPage bool
	Loading     bool
	Events      []*domain.Event
	CanPrevious bool
	CanNext     bool
	Err         error
}

// Controller owns the pagination state of one list view
type Controller struct {
	fetcher  PageFetcher
	pageSize int
	log      *logger.Logger

	mu          sync.Mutex
	offset      int
	hasNextPage bool
	loading     bool
	events      []*domain.Event
	lastErr     error
}

// New creates a controller at offset 0
func New(fetcher PageFetcher, pageSize int, log *logger.Logger) *Controller {
	return NewAt(fetcher, pageSize, 0, log)
}

// NewAt creates a controller whose committed offset is start, before any fetch.
// Stateless handlers use it to resume from the page the user navigated away from.
func NewAt(fetcher PageFetcher, pageSize, start int, log *logger.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.Nop()
	}
	if start < 0 {
		start = 0
	}
	return &Controller{
		fetcher:     fetcher,
		pageSize:    pageSize,
		log:         log,
		offset:      start - start%pageSize,
		hasNextPage: true,
		events:      []*domain.Event{},
	}
}

// Load fetches the page at the current offset
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	offset := c.offset
	c.mu.Unlock()
	return c.fetch(ctx, offset)
}

// GoTo fetches the page starting at offset, rounded down to a page boundary
func (c *Controller) GoTo(ctx context.Context, offset int) error {
	if offset < 0 {
		offset = 0
	}
	return c.fetch(ctx, offset-offset%c.pageSize)
}

// Next fetches the following page
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	if !c.hasNextPage || c.loading {
		c.mu.Unlock()
		return ErrNavigationDisabled
	}
	offset := c.offset + c.pageSize
	c.mu.Unlock()
	return c.fetch(ctx, offset)
}

// Previous fetches the preceding page
func (c *Controller) Previous(ctx context.Context) error {
	c.mu.Lock()
	if c.offset == 0 || c.loading {
		c.mu.Unlock()
		return ErrNavigationDisabled
	}
	offset := max(0, c.offset-c.pageSize)
	c.mu.Unlock()
	return c.fetch(ctx, offset)
}

// fetch commits the page and the new offset only on success.
// On failure the page is emptied and the offset is left alone.
func (c *Controller) fetch(ctx context.Context, offset int) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrFetchInProgress
	}
	c.loading = true
	c.mu.Unlock()

	events, err := c.fetcher.FetchPage(ctx, offset, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		c.log.WithContext(ctx).Error("Error fetching events",
			zap.Int("offset", offset),
			zap.Error(err),
		)
		c.events = []*domain.Event{}
		c.hasNextPage = false
		c.lastErr = err
		return err
	}

	if events == nil {
		events = []*domain.Event{}
	}
	c.offset = offset
	c.events = events
	c.hasNextPage = len(events) == c.pageSize
	c.lastErr = nil
	return nil
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Offset:      c.offset,
		Page:        c.offset/c.pageSize + 1,
		PageSize:    c.pageSize,
		HasNextPage: c.hasNextPage,
		Loading:     c.loading,
		Events:      append([]*domain.Event{}, c.events...),
		CanPrevious: c.offset > 0 && !c.loading,
		CanNext:     c.hasNextPage && !c.loading,
		Err:         c.lastErr,
	}
}

