package review

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/travel-destination-backend/internal/auth"
	"github.com/wichananm65/travel-destination-backend/internal/destination"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/destinations/:id/reviews", h.listForDestination)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, protect fiber.Handler) {
	app.Put("/api/destinations/:id/review", protect, h.add)
	app.Get("/api/users/reviews", protect, h.listMine)
}

// Rating decodes as a number so a fractional value gets a field error
// instead of a decoder message. Stored ratings are whole stars.
type reviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

func (h *Handler) add(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	destID, ok := destination.ParseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid destination id"})
	}
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	if payload.Rating != math.Trunc(payload.Rating) || payload.Rating < 1 || payload.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid review",
			"errors":  fiber.Map{"rating": "rating must be a whole number from 1 to 5"},
		})
	}

	rv, ratings, err := h.service.Add(c.UserContext(), userID, destID, int(payload.Rating), payload.Comment)
	if err != nil {
		var invalid *InvalidReviewError
		switch {
		case errors.Is(err, destination.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Destination not found"})
		case errors.Is(err, ErrAlreadyReviewed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "You have already reviewed this destination"})
		case errors.As(err, &invalid):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid review", "errors": invalid.Fields})
		default:
			logging.Error().Err(err).Int("user_id", userID).Int("destination_id", destID).Msg("add review")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error adding review"})
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Review added", "data": rv, "ratings": ratings})
}

func (h *Handler) listForDestination(c *fiber.Ctx) error {
	destID, ok := destination.ParseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid destination id"})
	}
	reviews, err := h.service.ListForDestination(c.UserContext(), destID)
	if err != nil {
		if errors.Is(err, destination.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Destination not found"})
		}
		logging.Error().Err(err).Int("destination_id", destID).Msg("list reviews")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error fetching reviews"})
	}
	return c.JSON(fiber.Map{"success": true, "data": reviews})
}

func (h *Handler) listMine(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	reviews, err := h.service.ListForUser(c.UserContext(), userID)
	if err != nil {
		logging.Error().Err(err).Int("user_id", userID).Msg("list user reviews")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error fetching reviews"})
	}
	return c.JSON(fiber.Map{"success": true, "data": reviews})
}
