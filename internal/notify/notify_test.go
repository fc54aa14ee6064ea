package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishReachesListener(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := bus.NewListener(ctx)

	bus.Warn("Please select a business type")

	msg := listener.Listen()()
	event, ok := msg.(Event)
	require.True(t, ok)
	assert.Equal(t, SeverityWarn, event.Payload.Severity)
	assert.Equal(t, "Please select a business type", event.Payload.Message)
}

func TestBus_SeverityPerMethod(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := bus.NewListener(ctx)

	bus.Info("i")
	bus.Success("s")
	bus.Warn("w")
	bus.Danger("d")

	want := []Severity{SeverityInfo, SeveritySuccess, SeverityWarn, SeverityDanger}
	for _, sev := range want {
		msg := listener.Listen()()
		event, ok := msg.(Event)
		require.True(t, ok)
		assert.Equal(t, sev, event.Payload.Severity)
	}
}

func TestBus_ListenReturnsNilAfterCancel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	listener := bus.NewListener(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return bus.broker.SubscriberCount() == 0
	}, time.Second, 5*time.Millisecond)

	assert.Nil(t, listener.Listen()())
}

func TestDiscard(t *testing.T) {
	Discard.Info("i")
	Discard.Success("s")
	Discard.Warn("w")
	Discard.Danger("d")
}

func TestRecorder(t *testing.T) {
	var rec Recorder

	rec.Warn("w")
	rec.Success("s")

	require.Len(t, rec.Notifications, 2)
	assert.Equal(t, Notification{Severity: SeverityWarn, Message: "w"}, rec.Notifications[0])
	assert.Equal(t, Notification{Severity: SeveritySuccess, Message: "s"}, rec.Notifications[1])
}
