package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrTokenUsed = errors.New("reset token already used")

// ResetTokenStore remembers redeemed password reset tokens until they
// expire. Consume marks id as used and fails with ErrTokenUsed when it
// already was.
type ResetTokenStore interface {
	Consume(ctx context.Context, id string, expiresAt time.Time) error
}

type InMemoryResetTokenStore struct {
	mu   sync.Mutex
	used map[string]time.Time
	now  func() time.Time
}

func NewInMemoryResetTokenStore() *InMemoryResetTokenStore {
	return &InMemoryResetTokenStore{used: make(map[string]time.Time), now: time.Now}
}

func (s *InMemoryResetTokenStore) Consume(_ context.Context, id string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.used {
		if now.After(exp) {
			delete(s.used, k)
		}
	}
	if _, ok := s.used[id]; ok {
		return ErrTokenUsed
	}
	s.used[id] = expiresAt
	return nil
}

type PostgresResetTokenStore struct {
	db  *sql.DB
	now func() time.Time
}

const (
	consumeResetTokenQuery = `
		INSERT INTO used_reset_tokens (id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`
	pruneResetTokensQuery = `DELETE FROM used_reset_tokens WHERE expires_at < $1`
)

func NewPostgresResetTokenStore(db *sql.DB) *PostgresResetTokenStore {
	return &PostgresResetTokenStore{db: db, now: time.Now}
}

func (s *PostgresResetTokenStore) Consume(ctx context.Context, id string, expiresAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, pruneResetTokensQuery, s.now().UTC()); err != nil {
		return fmt.Errorf("prune reset tokens: %w", err)
	}
	res, err := s.db.ExecContext(ctx, consumeResetTokenQuery, id, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenUsed
	}
	return nil
}
