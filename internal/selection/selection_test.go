package selection

import (
	"testing"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Lifecycle(t *testing.T) {
	c := New()
	assert.Empty(t, c.Events())
	assert.False(t, c.HasSelection())
	_, ok := c.Selected()
	assert.False(t, ok)

	c.SetEvents([]*domain.Event{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})
	c.Select("b")

	ev, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "B", ev.Name)

	c.Clear()
	assert.False(t, c.HasSelection())
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestContext_SelectionFollowsList(t *testing.T) {
	c := New()
	c.SetEvents([]*domain.Event{{ID: "a"}})
	c.Select("a")

	c.SetEvents([]*domain.Event{{ID: "z"}})
	assert.Equal(t, "a", c.SelectedID())
	_, ok := c.Selected()
	assert.False(t, ok, "selected record must come from the current list")
}

func TestContext_SetEventsCopies(t *testing.T) {
	list := []*domain.Event{{ID: "a"}}
	c := New()
	c.SetEvents(list)
	list[0] = &domain.Event{ID: "changed"}

	assert.Equal(t, "a", c.Events()[0].ID)
}
