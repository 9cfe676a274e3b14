package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	total int
	fail  map[int]error
	calls []string

	block   chan struct{}
	started chan struct{}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, offset, limit int) ([]*domain.Event, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%d/%d", offset, limit))
	err := f.fail[offset]
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if err != nil {
		return nil, err
	}

	events := []*domain.Event{}
	for i := offset; i < offset+limit && i < f.total; i++ {
		events = append(events, &domain.Event{ID: fmt.Sprintf("e%d", i+1)})
	}
	return events, nil
}

func TestController_InitialState(t *testing.T) {
	c := New(&fakeFetcher{}, 6, nil)
	s := c.State()

	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, 1, s.Page)
	assert.True(t, s.HasNextPage)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Events)
	assert.False(t, s.CanPrevious)
	assert.True(t, s.CanNext)
}

func TestController_ExampleScenario(t *testing.T) {
	f := &fakeFetcher{total: 9}
	c := New(f, 6, nil)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	s := c.State()
	assert.Equal(t, 1, s.Page)
	assert.Len(t, s.Events, 6)
	assert.True(t, s.HasNextPage)
	assert.False(t, s.CanPrevious)

	require.NoError(t, c.Next(ctx))
	s = c.State()
	assert.Equal(t, 6, s.Offset)
	assert.Equal(t, 2, s.Page)
	assert.Len(t, s.Events, 3)
	assert.False(t, s.HasNextPage)
	assert.True(t, s.CanPrevious)
	assert.False(t, s.CanNext)
	assert.Equal(t, "e7", s.Events[0].ID)

	assert.Equal(t, []string{"0/6", "6/6"}, f.calls)
}

func TestController_NextDisabled(t *testing.T) {
	c := New(&fakeFetcher{total: 2}, 6, nil)
	require.NoError(t, c.Load(context.Background()))

	assert.ErrorIs(t, c.Next(context.Background()), ErrNavigationDisabled)
}

func TestController_PreviousDisabledAtZero(t *testing.T) {
	c := New(&fakeFetcher{total: 20}, 6, nil)
	assert.ErrorIs(t, c.Previous(context.Background()), ErrNavigationDisabled)
}

func TestController_Previous(t *testing.T) {
	f := &fakeFetcher{total: 20}
	c := New(f, 6, nil)
	ctx := context.Background()

	require.NoError(t, c.GoTo(ctx, 12))
	require.NoError(t, c.Previous(ctx))
	s := c.State()
	assert.Equal(t, 6, s.Offset)
	assert.Equal(t, 2, s.Page)
}

func TestController_ExactlyFullLastPage(t *testing.T) {
	f := &fakeFetcher{total: 12}
	c := New(f, 6, nil)
	ctx := context.Background()

	require.NoError(t, c.GoTo(ctx, 6))
	assert.True(t, c.State().HasNextPage)

	require.NoError(t, c.Next(ctx))
	s := c.State()
	assert.Empty(t, s.Events)
	assert.False(t, s.HasNextPage)
	assert.Equal(t, 12, s.Offset)
}

func TestController_FailureKeepsOffset(t *testing.T) {
	boom := errors.New("upstream down")
	f := &fakeFetcher{total: 20, fail: map[int]error{6: boom}}
	c := New(f, 6, nil)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	err := c.Next(ctx)
	assert.ErrorIs(t, err, boom)

	s := c.State()
	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, 1, s.Page)
	assert.Empty(t, s.Events)
	assert.False(t, s.HasNextPage)
	assert.False(t, s.CanNext)
	assert.ErrorIs(t, s.Err, boom)
}

func TestController_GoToRoundsDown(t *testing.T) {
	f := &fakeFetcher{total: 20}
	c := New(f, 6, nil)

	require.NoError(t, c.GoTo(context.Background(), 8))
	assert.Equal(t, 6, c.State().Offset)

	require.NoError(t, c.GoTo(context.Background(), -3))
	assert.Equal(t, 0, c.State().Offset)
}

func TestController_NewAt(t *testing.T) {
	boom := errors.New("fail")
	f := &fakeFetcher{total: 30, fail: map[int]error{18: boom}}
	c := NewAt(f, 6, 13, nil)
	assert.Equal(t, 12, c.State().Offset)

	assert.Error(t, c.GoTo(context.Background(), 18))
	assert.Equal(t, 12, c.State().Offset)
	assert.Equal(t, 3, c.State().Page)
}

func TestController_RejectsOverlappingFetch(t *testing.T) {
	f := &fakeFetcher{total: 20, block: make(chan struct{}), started: make(chan struct{}, 1)}
	c := New(f, 6, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Load(ctx) }()
	<-f.started

	s := c.State()
	assert.True(t, s.Loading)
	assert.False(t, s.CanNext)
	assert.ErrorIs(t, c.GoTo(ctx, 6), ErrFetchInProgress)
	assert.ErrorIs(t, c.Next(ctx), ErrNavigationDisabled)

	close(f.block)
	require.NoError(t, <-done)
	assert.False(t, c.State().Loading)
}

