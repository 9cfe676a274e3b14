package service

import (
	"context"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/prohmpiriya/concert-events-dashboard/internal/dto"
)

// EventService defines the interface for reading events from upstream
type EventService interface {
	// ListPage forwards one offset/limit page request. Failures are *ProxyError.
	ListPage(ctx context.Context, offset, limit int) (*dto.EventPage, error)
	// GetEvent fetches and normalizes one event. Every failure is ErrEventNotFound.
	GetEvent(ctx context.Context, key string) (*domain.Event, error)
}
