// Package notify carries user-facing notifications from the domain layer to
// whatever renders them. Publishing is fire-and-forget over a pubsub broker;
// the UI subscribes and feeds toasts from the events.
package notify

import (
	"context"

	"pestle/internal/pubsub"
)

// Severity drives toast styling.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarn
	SeverityDanger
)

// Notification is one user-facing message.
type Notification struct {
	Severity Severity
	Message  string
}

// Notifier publishes user-facing notifications.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Danger(msg string)
}

// Event is a pubsub event carrying a notification.
type Event = pubsub.Event[Notification]

// Listener wraps a continuous listener for notification events.
type Listener = pubsub.ContinuousListener[Notification]

// Bus is the broker-backed Notifier.
type Bus struct {
	broker *pubsub.Broker[Notification]
}

// NewBus creates a notification bus.
func NewBus() *Bus {
	return &Bus{broker: pubsub.NewBroker[Notification]()}
}

var _ Notifier = (*Bus)(nil)

func (b *Bus) Info(msg string)    { b.publish(SeverityInfo, msg) }
func (b *Bus) Success(msg string) { b.publish(SeveritySuccess, msg) }
func (b *Bus) Warn(msg string)    { b.publish(SeverityWarn, msg) }
func (b *Bus) Danger(msg string)  { b.publish(SeverityDanger, msg) }

func (b *Bus) publish(sev Severity, msg string) {
	b.broker.Publish(Notification{Severity: sev, Message: msg})
}

// NewListener subscribes to the bus. The subscription is cleaned up when the
// context is cancelled.
func (b *Bus) NewListener(ctx context.Context) *Listener {
	return pubsub.NewContinuousListener(ctx, b.broker)
}

// Close shuts down the broker and all subscriptions.
func (b *Bus) Close() {
	b.broker.Close()
}

// Discard is a Notifier that drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Info(string)    {}
func (discard) Success(string) {}
func (discard) Warn(string)    {}
func (discard) Danger(string)  {}

// Recorder is a Notifier that captures messages for tests.
type Recorder struct {
	Notifications []Notification
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) Info(msg string)    { r.record(SeverityInfo, msg) }
func (r *Recorder) Success(msg string) { r.record(SeveritySuccess, msg) }
func (r *Recorder) Warn(msg string)    { r.record(SeverityWarn, msg) }
func (r *Recorder) Danger(msg string)  { r.record(SeverityDanger, msg) }

func (r *Recorder) record(sev Severity, msg string) {
	r.Notifications = append(r.Notifications, Notification{Severity: sev, Message: msg})
}
