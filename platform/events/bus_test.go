package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct{ BaseEvent }

func (pingEvent) EventName() string { return "ping" }

func TestPublishReachesEverySubscriber(t *testing.T) {
	bus := NewInMemoryBus(nil)
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("ping", HandlerFunc(func(context.Context, Event) error {
			calls.Add(1)
			return nil
		}))
	}

	bus.Publish(context.Background(), pingEvent{NewBaseEvent()})
	bus.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)
	boom := errors.New("boom")
	bus.Subscribe("ping", HandlerFunc(func(context.Context, Event) error { return boom }))
	bus.Subscribe("ping", HandlerFunc(func(context.Context, Event) error { return nil }))

	err := bus.PublishSync(context.Background(), pingEvent{NewBaseEvent()})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestPublishIgnoresOtherEventNames(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Subscribe("pong", HandlerFunc(func(context.Context, Event) error {
		t.Fatalf("pong handler must not run")
		return nil
	}))

	require.NoError(t, bus.PublishSync(context.Background(), pingEvent{NewBaseEvent()}))
}
