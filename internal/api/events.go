package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/audionode/internal/events"
)

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time event stream for volume changes, mute changes, card hotplug, and test tone playback",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"volume-changed": events.VolumeChangedEvent{},
		"mute-changed":   events.MuteChangedEvent{},
		"card-discovery": events.CardDiscoveryEvent{},
		"tone-played":    events.TonePlayedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// Create event channel for this connection
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.VolumeChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.MuteChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.CardDiscoveryEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.TonePlayedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Send initial connection confirmation
		if err := send.Data(events.CardDiscoveryEvent{
			Card:      -1,
			CardName:  "system",
			Action:    "connected",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return
		}

		// Keep connection alive and forward events
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					// Connection failed, clean up and exit
					return
				}
			}
		}
	})
}
