package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	ScopeAccess        = "access"
	ScopePasswordReset = "password_reset"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer signs and verifies HS256 tokens for sessions and password
// resets. Both kinds share the key and are told apart by the scope claim.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, resetTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		now:       time.Now,
	}
}

func (i *TokenIssuer) Secret() []byte { return i.secret }

func (i *TokenIssuer) IssueAccess(userID int, email string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"scope":   ScopeAccess,
		"iat":     now.Unix(),
		"exp":     now.Add(i.accessTTL).Unix(),
	}
	return i.sign(claims)
}

func (i *TokenIssuer) IssueReset(userID int, email string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"scope":   ScopePasswordReset,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(i.resetTTL).Unix(),
	}
	return i.sign(claims)
}

func (i *TokenIssuer) sign(claims jwt.MapClaims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ResetClaims identifies one password reset token. ID is the jti claim,
// which callers record so a token can be redeemed only once.
type ResetClaims struct {
	UserID    int
	ID        string
	ExpiresAt time.Time
}

// ParseReset validates a password reset token and returns who it was issued
// for along with its unique id.
func (i *TokenIssuer) ParseReset(raw string) (ResetClaims, error) {
	claims, err := i.parse(raw)
	if err != nil {
		return ResetClaims{}, err
	}
	if scope, _ := claims["scope"].(string); scope != ScopePasswordReset {
		return ResetClaims{}, ErrInvalidToken
	}
	id, ok := claimInt(claims["user_id"])
	if !ok {
		return ResetClaims{}, ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	if _, err := uuid.Parse(jti); err != nil {
		return ResetClaims{}, ErrInvalidToken
	}
	exp, ok := claimInt(claims["exp"])
	if !ok {
		return ResetClaims{}, ErrInvalidToken
	}
	return ResetClaims{UserID: id, ID: jti, ExpiresAt: time.Unix(int64(exp), 0).UTC()}, nil
}

func (i *TokenIssuer) parse(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func claimInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
