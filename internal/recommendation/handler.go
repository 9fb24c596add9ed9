package recommendation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/travel-destination-backend/internal/auth"
	"github.com/wichananm65/travel-destination-backend/internal/destination"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
	"github.com/wichananm65/travel-destination-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, protect fiber.Handler) {
	app.Get("/api/recommendations", protect, h.getRecommendations)
}

func (h *Handler) getRecommendations(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	recs, err := h.service.Recommend(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
		}
		logging.Error().Err(err).Int("user_id", userID).Msg("recommendations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error fetching recommendations"})
	}

	items := make([]destination.Destination, len(recs))
	for i, r := range recs {
		items[i] = r.Destination
	}
	return c.JSON(fiber.Map{"success": true, "recommendations": items})
}
