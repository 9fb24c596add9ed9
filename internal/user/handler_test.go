package user

import (
	"context"
	"io"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/travel-destination-backend/internal/auth"
	"github.com/wichananm65/travel-destination-backend/internal/mail"
	"golang.org/x/crypto/bcrypt"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// injectUser stands in for the JWT middleware: it puts a token carrying
// the X-User-ID header value into Locals("user").
func injectUser(c *fiber.Ctx) error {
	if v := c.Get("X-User-ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err == nil {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
		}
	}
	return c.Next()
}

func makeApp(t *testing.T, seed []User) (*fiber.App, *recordingMailer, *auth.TokenIssuer) {
	t.Helper()
	svc := NewService(NewInMemoryRepository(seed), bcrypt.MinCost)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour, 15*time.Minute)
	mailer := &recordingMailer{}
	h := NewHandler(svc, tokens, mailer, HandlerOptions{ResetURLBase: "http://localhost:8000/api/auth/reset-password/", ResetRatePerMinute: 2})

	app := fiber.New()
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app, injectUser)
	return app, mailer, tokens
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, userID int) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(userID))
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestRoutesRegistered(t *testing.T) {
	app, _, _ := makeApp(t, nil)
	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{
		"POST /api/auth/signup",
		"POST /api/auth/login",
		"POST /api/auth/forgot-password",
		"PUT /api/auth/reset-password/:token",
		"GET /api/users/profile",
		"PUT /api/users/profile",
	} {
		if !routes[want] {
			t.Fatalf("expected route %q registered", want)
		}
	}
}

func TestSignupAndLogin(t *testing.T) {
	app, _, _ := makeApp(t, nil)

	status, body := doJSON(t, app, "POST", "/api/auth/signup", `{"firstName":"Ann","lastName":"Lee","email":"Ann@Example.com","password":"pw"}`, 0)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	if !strings.Contains(body, `"token":"`) || strings.Contains(body, `"password"`) {
		t.Fatalf("unexpected signup body: %s", body)
	}

	status, _ = doJSON(t, app, "POST", "/api/auth/signup", `{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","password":"pw"}`, 0)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", status)
	}

	status, body = doJSON(t, app, "POST", "/api/auth/signup", `{"firstName":" ","lastName":"Lee","email":"bad","password":"pw"}`, 0)
	if status != fiber.StatusBadRequest || !strings.Contains(body, `"errors"`) {
		t.Fatalf("expected 400 with errors, got %d: %s", status, body)
	}

	status, _ = doJSON(t, app, "POST", "/api/auth/login", `{"email":"ann@example.com","password":"pw"}`, 0)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	status, _ = doJSON(t, app, "POST", "/api/auth/login", `{"email":"ann@example.com","password":"nope"}`, 0)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	status, _ = doJSON(t, app, "POST", "/api/auth/login", `{"email":"ghost@example.com","password":"pw"}`, 0)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	app, mailer, tokens := makeApp(t, nil)
	doJSON(t, app, "POST", "/api/auth/signup", `{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","password":"old"}`, 0)

	status, body := doJSON(t, app, "POST", "/api/auth/forgot-password", `{"email":"ann@example.com"}`, 0)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if strings.Contains(body, "Token") || strings.Contains(body, "token") {
		t.Fatalf("reset token must only travel by mail: %s", body)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "ann@example.com" {
		t.Fatalf("expected one mail, got %+v", mailer.sent)
	}
	m := regexp.MustCompile(`reset-password/([^"]+)"`).FindStringSubmatch(mailer.sent[0].HTML)
	if m == nil {
		t.Fatalf("no reset link in %q", mailer.sent[0].HTML)
	}
	token := m[1]

	status, _ = doJSON(t, app, "PUT", "/api/auth/reset-password/"+token, `{"newPassword":"new"}`, 0)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	status, _ = doJSON(t, app, "POST", "/api/auth/login", `{"email":"ann@example.com","password":"new"}`, 0)
	if status != fiber.StatusOK {
		t.Fatalf("new password should work, got %d", status)
	}

	status, _ = doJSON(t, app, "PUT", "/api/auth/reset-password/"+token, `{"newPassword":"again"}`, 0)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("replayed reset token should be rejected, got %d", status)
	}
	status, _ = doJSON(t, app, "POST", "/api/auth/login", `{"email":"ann@example.com","password":"new"}`, 0)
	if status != fiber.StatusOK {
		t.Fatalf("replay must not change the password, got %d", status)
	}

	access, _ := tokens.IssueAccess(1, "ann@example.com")
	status, _ = doJSON(t, app, "PUT", "/api/auth/reset-password/"+access, `{"newPassword":"hijack"}`, 0)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("access token must not reset passwords, got %d", status)
	}

	status, _ = doJSON(t, app, "PUT", "/api/auth/reset-password/"+token, `{}`, 0)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without password, got %d", status)
	}

	status, _ = doJSON(t, app, "POST", "/api/auth/forgot-password", `{"email":"ghost@example.com"}`, 0)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown email, got %d", status)
	}
}

func TestForgotPasswordThrottled(t *testing.T) {
	app, _, _ := makeApp(t, nil)
	doJSON(t, app, "POST", "/api/auth/signup", `{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","password":"pw"}`, 0)

	for i := 0; i < 2; i++ {
		if status, _ := doJSON(t, app, "POST", "/api/auth/forgot-password", `{"email":"ann@example.com"}`, 0); status != fiber.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, status)
		}
	}
	if status, _ := doJSON(t, app, "POST", "/api/auth/forgot-password", `{"email":"ann@example.com"}`, 0); status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
}

func TestProfileRoutes(t *testing.T) {
	seed := []User{{ID: 7, Email: "j@example.com", Password: "hash", Profile: Profile{FirstName: "Jenny", LastName: "Test", Preferences: DefaultPreferences()}}}
	app, _, _ := makeApp(t, seed)

	status, _ := doJSON(t, app, "GET", "/api/users/profile", "", 0)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}

	status, body := doJSON(t, app, "GET", "/api/users/profile", "", 7)
	if status != fiber.StatusOK || !strings.Contains(body, `"firstName":"Jenny"`) || strings.Contains(body, "hash") {
		t.Fatalf("unexpected profile response %d: %s", status, body)
	}

	status, body = doJSON(t, app, "PUT", "/api/users/profile", `{"interests":["beach","food"],"budgetRange":{"min":100,"max":500},"travelStyle":"couple"}`, 7)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, `"travelStyle":"couple"`) || !strings.Contains(body, `"firstName":"Jenny"`) {
		t.Fatalf("unexpected update body: %s", body)
	}

	status, _ = doJSON(t, app, "PUT", "/api/users/profile", `{"travelStyle":"backpacker"}`, 7)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown travel style, got %d", status)
	}
	status, _ = doJSON(t, app, "PUT", "/api/users/profile", `{"budgetRange":{"min":500,"max":100}}`, 7)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for inverted budget, got %d", status)
	}

	status, _ = doJSON(t, app, "GET", "/api/users/profile", "", 8)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for missing user, got %d", status)
	}
}
