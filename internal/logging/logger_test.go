package logging

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestInitLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(Config{Level: "info", Format: "json"})

	Info().Msg("hidden")
	Warn().Str("k", "v").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"k":"v"`) || !strings.Contains(out, "shown") {
		t.Fatalf("expected warn line, got %s", out)
	}
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "loud", Output: &buf})
	defer Init(Config{Level: "info", Format: "json"})

	Debug().Msg("debug")
	Info().Msg("info")
	if strings.Contains(buf.String(), `"message":"debug"`) {
		t.Fatalf("debug should be filtered at info level")
	}
	if !strings.Contains(buf.String(), `"message":"info"`) {
		t.Fatalf("expected info line: %s", buf.String())
	}
}

func TestMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(Config{Level: "info", Format: "json"})

	app := fiber.New()
	app.Use(Middleware(func(c *fiber.Ctx) (int, bool) { return 7, true }))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	res, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusTeapot {
		t.Fatalf("expected 418, got %d", res.StatusCode)
	}

	out := buf.String()
	for _, want := range []string{`"path":"/ping"`, `"status":418`, `"user_id":7`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}
