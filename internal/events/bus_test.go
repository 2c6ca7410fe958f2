package events

import (
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan VolumeChangedEvent, 1)

	unsub := bus.Subscribe(func(e VolumeChangedEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(VolumeChangedEvent{Card: 0, CardName: "PCH", Control: "Master", VolumePercent: 50})

	select {
	case e := <-received:
		if e.VolumePercent != 50 || e.Control != "Master" {
			t.Errorf("got %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBusTypeIsolation(t *testing.T) {
	bus := New()
	muteCh := make(chan MuteChangedEvent, 1)

	unsub := bus.Subscribe(func(e MuteChangedEvent) {
		muteCh <- e
	})
	defer unsub()

	// A volume event must not reach a mute subscriber.
	bus.Publish(VolumeChangedEvent{Card: 0, VolumePercent: 10})
	bus.Publish(MuteChangedEvent{Card: 1, Muted: true, Action: "mute"})

	select {
	case e := <-muteCh:
		if e.Card != 1 || !e.Muted {
			t.Errorf("got %+v, want the mute event", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mute event not delivered")
	}

	select {
	case e := <-muteCh:
		t.Errorf("unexpected second event: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := New()
	received := make(chan CardDiscoveryEvent, 1)

	unsub := bus.Subscribe(func(e CardDiscoveryEvent) {
		received <- e
	})
	unsub()

	bus.Publish(CardDiscoveryEvent{Card: 1, Action: "added"})

	select {
	case e := <-received:
		t.Errorf("received event after unsubscribe: %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 4)

	unsubs := []func(){
		SubscribeToChannel[VolumeChangedEvent](bus, ch),
		SubscribeToChannel[TonePlayedEvent](bus, ch),
	}
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	bus.Publish(TonePlayedEvent{Card: 0, Device: 0, Channels: 2})

	select {
	case e := <-ch:
		if _, ok := e.(TonePlayedEvent); !ok {
			t.Errorf("got %T, want TonePlayedEvent", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not bridged to channel")
	}
}

func TestEventTypesDistinct(t *testing.T) {
	seen := make(map[uint32]string)
	for name, typ := range map[string]uint32{
		"volume": VolumeChangedEvent{}.Type(),
		"mute":   MuteChangedEvent{}.Type(),
		"card":   CardDiscoveryEvent{}.Type(),
		"tone":   TonePlayedEvent{}.Type(),
	} {
		if prev, dup := seen[typ]; dup {
			t.Errorf("%s and %s share event type %d", prev, name, typ)
		}
		seen[typ] = name
	}
}
