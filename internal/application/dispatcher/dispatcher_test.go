package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/lic-claimdesk/internal/domain/event"
)

type mockLogger struct {
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, _ ...interface{}) { m.infos = append(m.infos, msg) }
func (m *mockLogger) Error(msg string, _ ...interface{}) { m.errors = append(m.errors, msg) }

func TestDispatch_RunsHandlersInOrder(t *testing.T) {
	d := NewDispatcher()
	var order []string

	d.SubscribeNamed(event.TypeStoreSaved, "first", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "first")
		return nil
	})
	d.SubscribeNamed(event.TypeStoreSaved, "second", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), event.NewEvent(event.TypeStoreSaved, "", nil)))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatch_NoHandlers(t *testing.T) {
	d := NewDispatcher()
	assert.NoError(t, d.Dispatch(context.Background(), event.NewEvent(event.TypeClaimSaved, "1", nil)))
}

func TestDispatch_StopsOnError(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(WithLogger(logger))
	boom := errors.New("boom")
	called := false

	d.SubscribeNamed(event.TypeClaimSaved, "failing", func(ctx context.Context, evt *event.Event) error {
		return boom
	})
	d.SubscribeNamed(event.TypeClaimSaved, "after", func(ctx context.Context, evt *event.Event) error {
		called = true
		return nil
	})

	err := d.Dispatch(context.Background(), event.NewEvent(event.TypeClaimSaved, "1", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.False(t, called)
	assert.Len(t, logger.errors, 1)
}

func TestDispatch_RecoversPanic(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(WithLogger(logger))
	d.Subscribe(event.TypeClaimCompleted, func(ctx context.Context, evt *event.Event) error {
		panic("kaboom")
	})

	err := d.Dispatch(context.Background(), event.NewEvent(event.TypeClaimCompleted, "1", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
	assert.Contains(t, logger.errors, "Handler panic recovered")
}

func TestUnsubscribeAndList(t *testing.T) {
	d := NewDispatcher()
	noop := func(ctx context.Context, evt *event.Event) error { return nil }

	d.SubscribeNamed(event.TypeStoreSaved, "counters", noop)
	d.Subscribe(event.TypeStoreSaved, noop)

	handlers := d.ListHandlers(event.TypeStoreSaved)
	require.Len(t, handlers, 2)
	assert.Equal(t, "counters", handlers[0].Name)
	assert.Equal(t, "handler-1", handlers[1].Name)
	assert.Nil(t, handlers[0].Handler)

	d.Unsubscribe(event.TypeStoreSaved, "counters")
	assert.Len(t, d.ListHandlers(event.TypeStoreSaved), 1)
}
