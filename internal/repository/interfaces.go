package repository

import (
	"context"
	"errors"
	"time"

	"github.com/prohmpiriya/concert-events-dashboard/internal/editor"
)

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("editing session not found")

// Session is one editing session over a working copy
type Session struct {
	ID        string         `json:"id"`
	EventKey  string         `json:"event_key"`
	Editor    *editor.Editor `json:"editor"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SessionRepository stores editing sessions for a limited time
type SessionRepository interface {
	// Save creates or replaces a session and refreshes its TTL
	Save(ctx context.Context, s *Session) error
	// Get returns a session or ErrSessionNotFound
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes a session
	Delete(ctx context.Context, id string) error
	// Ping checks the backing store
	Ping(ctx context.Context) error
	// Name identifies the backend
	Name() string
}
