package destination

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
)

type Handler struct {
	service    *Service
	allowReset bool
}

func NewHandler(service *Service, allowReset bool) *Handler {
	return &Handler{service: service, allowReset: allowReset}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/destinations", h.list)
	app.Get("/api/destinations/:id", h.get)

	// dev-only reseed, enabled with ALLOW_RESET_DESTINATIONS=true
	app.Post("/dev/reset-destinations", h.reset)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, protect fiber.Handler) {
	app.Post("/api/destinations", protect, h.create)
	app.Put("/api/destinations/:id", protect, h.update)
	app.Delete("/api/destinations/:id", protect, h.delete)
}

// ParseID reads a positive integer route parameter.
func ParseID(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// filterFromQuery reads listing criteria. Malformed numbers are ignored
// rather than rejected.
func filterFromQuery(c *fiber.Ctx) Filter {
	f := Filter{
		Category: strings.TrimSpace(c.Query("category")),
		Query:    c.Query("q"),
		Tag:      strings.TrimSpace(c.Query("tag")),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", DefaultPageSize),
	}
	f.MinPrice = queryFloat(c, "minPrice")
	f.MaxPrice = queryFloat(c, "maxPrice")
	f.MinRating = queryFloat(c, "minRating")
	if f.MinRating == nil {
		f.MinRating = queryFloat(c, "rating")
	}
	return f
}

func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (h *Handler) list(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), filterFromQuery(c))
	if err != nil {
		logging.Error().Err(err).Msg("list destinations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error fetching destinations"})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       page.Items,
		"total":      page.Total,
		"page":       page.Page,
		"pageSize":   page.PageSize,
		"totalPages": page.TotalPages,
	})
}

func (h *Handler) get(c *fiber.Ctx) error {
	id, ok := ParseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid destination id"})
	}
	d, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Error fetching destination")
	}
	return c.JSON(fiber.Map{"success": true, "data": d})
}

func (h *Handler) create(c *fiber.Ctx) error {
	p := new(Patch)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	d, err := h.service.Create(c.UserContext(), *p)
	if err != nil {
		return h.fail(c, err, "Error creating destination")
	}
	logging.Info().Int("destination_id", d.ID).Str("name", d.Name).Msg("destination created")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": d})
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, ok := ParseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid destination id"})
	}
	p := new(Patch)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	d, err := h.service.Update(c.UserContext(), id, *p)
	if err != nil {
		return h.fail(c, err, "Error updating destination")
	}
	return c.JSON(fiber.Map{"success": true, "data": d})
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, ok := ParseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid destination id"})
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err, "Error deleting destination")
	}
	logging.Info().Int("destination_id", id).Msg("destination deleted")
	return c.JSON(fiber.Map{"success": true, "message": "Destination deleted"})
}

// reset replaces all destinations with the posted list, or the sample set
// when the body is not a list. An explicit empty list clears the table.
func (h *Handler) reset(c *fiber.Ctx) error {
	if !h.allowReset {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "reset not allowed"})
	}

	var ds []Destination
	if err := c.BodyParser(&ds); err != nil {
		ds = SampleDestinations()
	}
	inserted, err := h.service.Reset(c.UserContext(), ds)
	if err != nil {
		logging.Error().Err(err).Msg("reset destinations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "inserted": len(inserted), "data": inserted})
}

func (h *Handler) fail(c *fiber.Ctx, err error, fallback string) error {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Destination not found"})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid destination", "errors": verr.Fields})
	default:
		logging.Error().Err(err).Msg(fallback)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": fallback})
	}
}
