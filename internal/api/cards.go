package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audionode/internal/api/models"
)

// registerCardRoutes sets up sound card inventory endpoints.
func (s *Server) registerCardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-cards",
		Method:      http.MethodGet,
		Path:        "/api/cards",
		Summary:     "List sound cards",
		Description: "Enumerate playback-capable sound cards and their devices",
		Tags:        []string{"cards"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, input *struct{}) (*models.CardsResponse, error) {
		cards, err := s.cards.Cards(ctx)
		if err != nil {
			s.logger.Error("Card enumeration failed", "error", err)
			return nil, huma.Error500InternalServerError("Failed to enumerate sound cards", err)
		}

		infos := make([]models.CardInfo, 0, len(cards))
		for _, c := range cards {
			devices := make([]models.DeviceInfo, 0, len(c.Devices))
			for _, d := range c.Devices {
				devices = append(devices, models.DeviceInfo{
					Index: d.Index,
					Name:  d.Name,
					Desc:  d.Desc,
				})
			}
			infos = append(infos, models.CardInfo{
				Index:    c.Index,
				Name:     c.Name,
				LongName: c.LongName,
				Devices:  devices,
			})
		}

		return &models.CardsResponse{
			Body: models.CardsData{
				Cards: infos,
				Count: len(infos),
			},
		}, nil
	})
}
