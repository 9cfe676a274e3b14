package selection

import (
	"sync"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/samber/lo"
)

// Context holds the loaded list and the selected record id for a modal view.
// It is created empty, populated when a page loads and cleared when the modal closes.
type Context struct {
	mu         sync.RWMutex
	events     []*domain.Event
	selectedID string
}

// New returns an empty selection context
func New() *Context {
	return &Context{events: []*domain.Event{}}
}

// SetEvents replaces the list wholesale
func (c *Context) SetEvents(events []*domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append([]*domain.Event{}, events...)
}

// Events returns the current list
func (c *Context) Events() []*domain.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.Event{}, c.events...)
}

// Select sets the selected id; an empty id clears the selection
func (c *Context) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedID = id
}

// Clear removes the selection
func (c *Context) Clear() {
	c.Select("")
}

// SelectedID returns the selected id, empty when nothing is selected
func (c *Context) SelectedID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedID
}

// HasSelection reports whether an id is selected
func (c *Context) HasSelection() bool {
	return c.SelectedID() != ""
}

// Selected looks the selected id up in the current list
func (c *Context) Selected() (*domain.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.selectedID == "" {
		return nil, false
	}
	return lo.Find(c.events, func(ev *domain.Event) bool {
		return ev.ID == c.selectedID
	})
}
