package user

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/travel-destination-backend/internal/auth"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
	"github.com/wichananm65/travel-destination-backend/internal/mail"
	"github.com/wichananm65/travel-destination-backend/internal/validation"
)

type Handler struct {
	service  *Service
	tokens   *auth.TokenIssuer
	mailer   mail.Mailer
	resetURL string
	limiter  *keyedLimiter
}

type HandlerOptions struct {
	// ResetURLBase is prefixed to the reset token in the emailed link.
	ResetURLBase       string
	ResetRatePerMinute int
}

func NewHandler(service *Service, tokens *auth.TokenIssuer, mailer mail.Mailer, opts HandlerOptions) *Handler {
	return &Handler{
		service:  service,
		tokens:   tokens,
		mailer:   mailer,
		resetURL: strings.TrimRight(opts.ResetURLBase, "/"),
		limiter:  newKeyedLimiter(opts.ResetRatePerMinute),
	}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/auth/signup", h.signup)
	app.Post("/api/auth/login", h.login)
	app.Post("/api/auth/forgot-password", h.forgotPassword)
	app.Put("/api/auth/reset-password/:token", h.resetPassword)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, protect fiber.Handler) {
	app.Get("/api/users/profile", protect, h.getProfile)
	app.Put("/api/users/profile", protect, h.updateProfile)
}

type signupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// profileUpdateRequest mirrors the flat shape clients send for profile and
// preference edits.
type profileUpdateRequest struct {
	FirstName   *string      `json:"firstName,omitempty"`
	LastName    *string      `json:"lastName,omitempty"`
	Avatar      *string      `json:"avatar,omitempty"`
	Interests   []string     `json:"interests,omitempty" validate:"omitempty,dive,interest"`
	Activities  []string     `json:"activities,omitempty"`
	BudgetRange *BudgetRange `json:"budgetRange,omitempty"`
	TravelStyle *string      `json:"travelStyle,omitempty" validate:"omitempty,travelstyle"`
}

func (h *Handler) signup(c *fiber.Ctx) error {
	payload := new(signupRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body."})
	}
	payload.FirstName = strings.TrimSpace(payload.FirstName)
	payload.LastName = strings.TrimSpace(payload.LastName)
	payload.Email = strings.TrimSpace(payload.Email)
	if strings.TrimSpace(payload.Password) == "" {
		payload.Password = ""
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "First name, last name, a valid email, and password are required.", "errors": errs})
	}

	created, err := h.service.Register(c.UserContext(), RegisterInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email is already registered."})
		}
		logging.Error().Err(err).Msg("signup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error."})
	}

	token, err := h.tokens.IssueAccess(created.ID, created.Email)
	if err != nil {
		logging.Error().Err(err).Int("user_id", created.ID).Msg("issue access token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Signup successful.",
		"token":   token,
		"user":    sanitizeUser(created),
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body."})
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "A valid email and password are required.", "errors": errs})
	}

	u, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found."})
		case errors.Is(err, ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Incorrect credentials."})
		default:
			logging.Error().Err(err).Msg("login failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error."})
		}
	}

	token, err := h.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		logging.Error().Err(err).Int("user_id", u.ID).Msg("issue access token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful.",
		"token":   token,
		"user":    sanitizeUser(u),
	})
}

func (h *Handler) forgotPassword(c *fiber.Ctx) error {
	payload := new(forgotPasswordRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body."})
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "A valid email is required.", "errors": errs})
	}

	email := NormalizeEmail(payload.Email)
	if !h.limiter.Allow(email) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many reset requests, try again later."})
	}

	u, err := h.service.GetByEmail(c.UserContext(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found."})
		}
		logging.Error().Err(err).Msg("forgot password lookup")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error."})
	}

	token, err := h.tokens.IssueReset(u.ID, u.Email)
	if err != nil {
		logging.Error().Err(err).Int("user_id", u.ID).Msg("issue reset token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error."})
	}

	link := h.resetURL + "/" + token
	err = h.mailer.Send(c.UserContext(), mail.Message{
		To:      u.Email,
		Subject: "Reset password",
		HTML:    fmt.Sprintf(`<p>Reset Link: <a href="%s">Click here</a></p>`, html.EscapeString(link)),
	})
	if err != nil {
		logging.Warn().Err(err).Int("user_id", u.ID).Msg("reset mail not delivered")
		if errors.Is(err, mail.ErrUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Mail service unavailable, try again later."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error."})
	}

	return c.JSON(fiber.Map{"message": "Reset link sent to email."})
}

func (h *Handler) resetPassword(c *fiber.Ctx) error {
	payload := new(resetPasswordRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body."})
	}
	token := c.Params("token")
	if token == "" || strings.TrimSpace(payload.NewPassword) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Token and new password are required."})
	}

	claims, err := h.tokens.ParseReset(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token."})
	}

	if err := h.service.RedeemReset(c.UserContext(), claims, payload.NewPassword); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTokenUsed) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token."})
		}
		logging.Error().Err(err).Int("user_id", claims.UserID).Msg("reset password")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error."})
	}

	return c.JSON(fiber.Map{"message": "Password reset successful."})
}

// getProfile returns the authenticated user's record without the password hash.
func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	u, err := h.service.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
		}
		logging.Error().Err(err).Int("user_id", userID).Msg("load profile")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}
	return c.JSON(fiber.Map{"success": true, "data": sanitizeUser(u)})
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid profile", "errors": errs})
	}

	updated, err := h.service.UpdateProfile(c.UserContext(), userID, ProfileUpdate{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Avatar:      payload.Avatar,
		Interests:   payload.Interests,
		Activities:  payload.Activities,
		BudgetRange: payload.BudgetRange,
		TravelStyle: payload.TravelStyle,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
		}
		logging.Error().Err(err).Int("user_id", userID).Msg("update profile")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}
	return c.JSON(fiber.Map{"success": true, "data": sanitizeUser(updated)})
}
