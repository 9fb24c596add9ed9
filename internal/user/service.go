package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wichananm65/travel-destination-backend/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo        Repository
	resetTokens ResetTokenStore
	cost        int
	now         func() time.Time
}

// NewService keeps redeemed reset tokens in memory until
// UseResetTokenStore swaps in a shared store.
func NewService(repo Repository, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, resetTokens: NewInMemoryResetTokenStore(), cost: bcryptCost, now: time.Now}
}

func (s *Service) UseResetTokenStore(store ResetTokenStore) {
	s.resetTokens = store
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate carries a partial update. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Avatar      *string
	Interests   []string
	Activities  []string
	BudgetRange *BudgetRange
	TravelStyle *string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) GetByID(ctx context.Context, id int) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// Preferences returns the stored preference profile for a user.
func (s *Service) Preferences(ctx context.Context, id int) (Preferences, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Preferences{}, err
	}
	return u.Profile.Preferences, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := NormalizeEmail(in.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, User{
		Email:    email,
		Password: string(hashed),
		Profile: Profile{
			FirstName:   strings.TrimSpace(in.FirstName),
			LastName:    strings.TrimSpace(in.LastName),
			Preferences: DefaultPreferences(),
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Authenticate distinguishes an unknown email (ErrNotFound) from a wrong
// password (ErrInvalidCredentials).
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int, upd ProfileUpdate) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if upd.FirstName != nil {
		u.Profile.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		u.Profile.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Avatar != nil {
		u.Profile.Avatar = *upd.Avatar
	}
	prefs := &u.Profile.Preferences
	if upd.Interests != nil {
		prefs.Interests = upd.Interests
	}
	if upd.Activities != nil {
		prefs.Activities = upd.Activities
	}
	if upd.BudgetRange != nil {
		br := *upd.BudgetRange
		prefs.BudgetRange = &br
	}
	if upd.TravelStyle != nil {
		prefs.TravelStyle = *upd.TravelStyle
	}

	u.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, u)
}

// RedeemReset sets a new password using a parsed reset token. Each token
// works once; replaying it returns ErrTokenUsed.
func (s *Service) RedeemReset(ctx context.Context, claims auth.ResetClaims, newPassword string) error {
	if _, err := s.repo.GetByID(ctx, claims.UserID); err != nil {
		return err
	}
	if err := s.resetTokens.Consume(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return err
	}
	return s.ResetPassword(ctx, claims.UserID, newPassword)
}

func (s *Service) ResetPassword(ctx context.Context, id int, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hashed))
}
