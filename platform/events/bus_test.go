package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishDeliversToSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewInMemoryBus(nil)
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
			calls.Add(1)
			return nil
		}))
	}
	bus.Subscribe("test.other", HandlerFunc(func(ctx context.Context, event Event) error {
		t.Error("unrelated handler invoked")
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestPublishSurvivesCancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewInMemoryBus(nil)
	var sawErr atomic.Bool
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
		sawErr.Store(ctx.Err() != nil)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	assert.False(t, sawErr.Load())
}

func TestPublishSyncJoinsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewInMemoryBus(nil)
	boom := errors.New("boom")
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error { return boom }))
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error { panic("bad handler") }))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "handler panic")
}

func TestNewBaseEventAt(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, at, pingEvent{BaseEvent: NewBaseEventAt(at)}.OccurredAt())
}
