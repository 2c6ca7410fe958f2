package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audionode/internal/api/models"
)

// registerCommandRoutes sets up the mutation endpoint. The handler always
// answers 200 with a result map; command failures are reported inside the
// body as an error field, keeping transport faults distinct from command
// faults.
func (s *Server) registerCommandRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "do-command",
		Method:      http.MethodPost,
		Path:        "/api/command",
		Summary:     "Execute command",
		Description: "Run a tagged mixer command: set_volume, mute, unmute, toggle_mute, or play_test",
		Tags:        []string{"commands"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *models.CommandRequest) (*models.CommandResponse, error) {
		result := s.sensor.DoCommand(ctx, input.Body)
		return &models.CommandResponse{Body: result}, nil
	})
}
