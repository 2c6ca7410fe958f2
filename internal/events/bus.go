package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(VolumeChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event dispatches on the concrete type, so fan out through a
	// type switch rather than the interface.
	switch e := ev.(type) {
	case VolumeChangedEvent:
		event.Publish(b.dispatcher, e)
	case MuteChangedEvent:
		event.Publish(b.dispatcher, e)
	case CardDiscoveryEvent:
		event.Publish(b.dispatcher, e)
	case TonePlayedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function. The handler's
// parameter type determines which events it receives. Returns an
// unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e VolumeChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(VolumeChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(MuteChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CardDiscoveryEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(TonePlayedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
