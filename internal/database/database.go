package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
)

const (
	pingAttempts = 5
	pingDelay    = time.Second
)

// Open connects to Postgres through the pgx stdlib driver and waits until the
// server answers a ping.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := waitForDB(ctx, db, pingAttempts, pingDelay); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func waitForDB(ctx context.Context, db *sql.DB, attempts int, delay time.Duration) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		logging.Warn().Err(err).Int("attempt", i).Msg("database not ready")
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("ping database after %d attempts: %w", attempts, err)
}
