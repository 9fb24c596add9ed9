package favorite

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeAppWithFavoriteHandler(h *Handler) *fiber.App {
	app := fiber.New()
	inject := func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
			}
		}
		return c.Next()
	}
	h.RegisterProtectedRoutes(app, inject)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, userID string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestFavoriteRoutes(t *testing.T) {
	app := makeAppWithFavoriteHandler(NewHandler(newTestService()))

	if status, _ := call(t, app, "PUT", "/api/destinations/1/like", ""); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if status, _ := call(t, app, "PUT", "/api/destinations/abc/like", "7"); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if status, _ := call(t, app, "PUT", "/api/destinations/99/like", "7"); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}

	for i := 0; i < 2; i++ {
		status, body := call(t, app, "PUT", "/api/destinations/1/like", "7")
		if status != fiber.StatusOK || !strings.Contains(body, "Added to favorites") {
			t.Fatalf("like #%d: %d %s", i+1, status, body)
		}
	}

	status, body := call(t, app, "GET", "/api/users/favorites", "7")
	if status != fiber.StatusOK || strings.Count(body, `"name":"Maya Bay"`) != 1 {
		t.Fatalf("unexpected favorites %d: %s", status, body)
	}

	for i := 0; i < 2; i++ {
		if status, _ := call(t, app, "PUT", "/api/destinations/1/unlike", "7"); status != fiber.StatusOK {
			t.Fatalf("unlike #%d: %d", i+1, status)
		}
	}
	_, body = call(t, app, "GET", "/api/users/favorites", "7")
	if !strings.Contains(body, `"data":[]`) {
		t.Fatalf("expected empty favorites, got %s", body)
	}
}
