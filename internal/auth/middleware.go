package auth

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const contextKey = "user"

// Middleware verifies the bearer token and stores it in Locals("user").
func (i *TokenIssuer) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    i.secret,
		SigningMethod: "HS256",
		ContextKey:    contextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if c.Get(fiber.HeaderAuthorization) == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No Token Found"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid Token"})
		},
	})
}

// UserIDFromCtx extracts the user_id claim from the token placed in
// Locals("user"). Reset tokens are not accepted as sessions.
func UserIDFromCtx(c *fiber.Ctx) (int, error) {
	tok, ok := c.Locals(contextKey).(*jwt.Token)
	if !ok || tok == nil {
		return 0, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	if scope, has := claims["scope"].(string); has && scope != ScopeAccess {
		return 0, fiber.ErrUnauthorized
	}
	id, ok := claimInt(claims["user_id"])
	if !ok || id <= 0 {
		return 0, fiber.ErrUnauthorized
	}
	return id, nil
}

// OptionalUserID is UserIDFromCtx without the error, for logging.
func OptionalUserID(c *fiber.Ctx) (int, bool) {
	id, err := UserIDFromCtx(c)
	return id, err == nil
}
