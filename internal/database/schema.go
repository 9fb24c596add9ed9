package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied statement by statement; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		avatar TEXT,
		preferences JSONB NOT NULL DEFAULT '{}',
		saved_destinations INTEGER[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS destinations (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		location JSONB NOT NULL DEFAULT '{}',
		images JSONB NOT NULL DEFAULT '[]',
		categories TEXT[] NOT NULL DEFAULT '{}',
		ratings_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		ratings_count INTEGER NOT NULL DEFAULT 0,
		attractions TEXT[] NOT NULL DEFAULT '{}',
		best_time_to_visit JSONB NOT NULL DEFAULT '[]',
		estimated_cost JSONB NOT NULL DEFAULT '{}',
		activities TEXT[] NOT NULL DEFAULT '{}',
		tags TEXT[] NOT NULL DEFAULT '{}',
		weather_info JSONB,
		travel_tips TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		trending BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id SERIAL PRIMARY KEY,
		destination_id INTEGER NOT NULL REFERENCES destinations(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (destination_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS used_reset_tokens (
		id TEXT PRIMARY KEY,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS destinations_categories_idx ON destinations USING GIN (categories)`,
	`CREATE INDEX IF NOT EXISTS destinations_tags_idx ON destinations USING GIN (tags)`,
	`CREATE INDEX IF NOT EXISTS destinations_active_idx ON destinations (is_active)`,
	`CREATE INDEX IF NOT EXISTS reviews_user_idx ON reviews (user_id)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
