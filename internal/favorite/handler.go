package favorite

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/travel-destination-backend/internal/auth"
	"github.com/wichananm65/travel-destination-backend/internal/destination"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
	"github.com/wichananm65/travel-destination-backend/internal/user"
)

// Handler keeps favorite routing out of the user and destination handlers.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, protect fiber.Handler) {
	app.Put("/api/destinations/:id/like", protect, h.like)
	app.Put("/api/destinations/:id/unlike", protect, h.unlike)
	app.Get("/api/users/favorites", protect, h.list)
}

func (h *Handler) like(c *fiber.Ctx) error {
	userID, destID, ok := h.ids(c)
	if !ok {
		return nil
	}
	if _, err := h.service.Add(c.UserContext(), userID, destID); err != nil {
		return h.fail(c, err, "Error adding to favorites")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Added to favorites"})
}

func (h *Handler) unlike(c *fiber.Ctx) error {
	userID, destID, ok := h.ids(c)
	if !ok {
		return nil
	}
	if _, err := h.service.Remove(c.UserContext(), userID, destID); err != nil {
		return h.fail(c, err, "Error removing from favorites")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Removed from favorites"})
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	items, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err, "Error fetching favorites")
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// ids writes the error response itself when it returns false.
func (h *Handler) ids(c *fiber.Ctx) (int, int, bool) {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
		return 0, 0, false
	}
	destID, ok := destination.ParseID(c, "id")
	if !ok {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid destination id"})
		return 0, 0, false
	}
	return userID, destID, true
}

func (h *Handler) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, destination.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Destination not found"})
	case errors.Is(err, user.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}
	logging.Error().Err(err).Str("path", c.Path()).Msg(fallback)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": fallback})
}
