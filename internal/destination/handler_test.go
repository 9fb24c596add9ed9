package destination

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func requireUser(c *fiber.Ctx) error {
	v := c.Get("X-User-ID")
	id, err := strconv.Atoi(v)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No Token Found"})
	}
	c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
	return c.Next()
}

func makeAppWithDestinationHandler(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app, requireUser)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string, auth bool) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("X-User-ID", "1")
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestListAndGet(t *testing.T) {
	app := makeAppWithDestinationHandler(NewHandler(NewService(NewInMemoryRepository(fixtures())), false))

	status, body := send(t, app, "GET", "/api/destinations?category=beach&rating=4", "", false)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, `"total":2`) || !strings.Contains(body, "Maya Bay") || strings.Contains(body, "Bondi") {
		t.Fatalf("unexpected list body: %s", body)
	}

	status, body = send(t, app, "GET", "/api/destinations?minPrice=abc&pageSize=2", "", false)
	if status != fiber.StatusOK || !strings.Contains(body, `"total":5`) || !strings.Contains(body, `"totalPages":3`) {
		t.Fatalf("malformed price should be ignored: %d %s", status, body)
	}

	status, body = send(t, app, "GET", "/api/destinations?page=9223372036854775807", "", false)
	if status != fiber.StatusOK || !strings.Contains(body, `"data":[]`) || !strings.Contains(body, `"total":5`) {
		t.Fatalf("huge page should be an empty page: %d %s", status, body)
	}

	status, body = send(t, app, "GET", "/api/destinations/2", "", false)
	if status != fiber.StatusOK || !strings.Contains(body, "Zermatt") {
		t.Fatalf("unexpected get response %d: %s", status, body)
	}

	if status, _ = send(t, app, "GET", "/api/destinations/77", "", false); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status, _ = send(t, app, "GET", "/api/destinations/abc", "", false); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestWritesRequireAuth(t *testing.T) {
	app := makeAppWithDestinationHandler(NewHandler(NewService(NewInMemoryRepository(nil)), false))

	payload := `{"name":"Kyoto","description":"Temples","location":{"country":"Japan","city":"Kyoto"},"categories":["cultural"]}`
	if status, _ := send(t, app, "POST", "/api/destinations", payload, false); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}

	status, body := send(t, app, "POST", "/api/destinations", payload, true)
	if status != fiber.StatusCreated || !strings.Contains(body, `"id":1`) {
		t.Fatalf("unexpected create response %d: %s", status, body)
	}

	status, body = send(t, app, "POST", "/api/destinations", `{"name":"x","categories":["moon"]}`, true)
	if status != fiber.StatusBadRequest || !strings.Contains(body, `"errors"`) {
		t.Fatalf("expected validation failure, got %d: %s", status, body)
	}

	status, body = send(t, app, "PUT", "/api/destinations/1", `{"trending":true,"ratings":{"average":5,"count":100}}`, true)
	if status != fiber.StatusOK || !strings.Contains(body, `"trending":true`) || !strings.Contains(body, `"count":0`) {
		t.Fatalf("unexpected update response %d: %s", status, body)
	}

	if status, _ = send(t, app, "DELETE", "/api/destinations/1", "", true); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if status, _ = send(t, app, "DELETE", "/api/destinations/1", "", true); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
}

func TestResetDestinations(t *testing.T) {
	app := makeAppWithDestinationHandler(NewHandler(NewService(NewInMemoryRepository(nil)), false))
	if status, _ := send(t, app, "POST", "/dev/reset-destinations", "", false); status != fiber.StatusForbidden {
		t.Fatalf("expected 403 when disabled, got %d", status)
	}

	app = makeAppWithDestinationHandler(NewHandler(NewService(NewInMemoryRepository(nil)), true))
	status, body := send(t, app, "POST", "/dev/reset-destinations", "", false)
	if status != fiber.StatusOK || !strings.Contains(body, `"inserted":4`) {
		t.Fatalf("expected sample seed, got %d: %s", status, body)
	}
	status, body = send(t, app, "POST", "/dev/reset-destinations", `[]`, false)
	if status != fiber.StatusOK || !strings.Contains(body, `"inserted":0`) {
		t.Fatalf("expected empty reset, got %d: %s", status, body)
	}
}
