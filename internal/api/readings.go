package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audionode/internal/api/models"
)

// registerReadingsRoutes sets up the volume reading endpoint.
func (s *Server) registerReadingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-readings",
		Method:      http.MethodGet,
		Path:        "/api/readings",
		Summary:     "Volume readings",
		Description: "Current volume and mute state for every playback device, keyed card_N_device_M. Probes hardware on every call.",
		Tags:        []string{"readings"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.ReadingsResponse, error) {
		readings := s.sensor.Readings(ctx)
		return &models.ReadingsResponse{
			Body: models.ReadingsData{
				Readings: readings,
				Count:    len(readings),
			},
		}, nil
	})
}
