package favorite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/wichananm65/travel-destination-backend/internal/user"
)

type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

const (
	// both updates are guarded so a repeated call touches no row
	addFavoriteQuery = `
		UPDATE users
		SET saved_destinations = array_append(coalesce(saved_destinations, ARRAY[]::integer[]), $2),
			updated_at = $3
		WHERE id = $1
			AND NOT ($2 = ANY(coalesce(saved_destinations, ARRAY[]::integer[])))
		RETURNING saved_destinations
	`
	removeFavoriteQuery = `
		UPDATE users
		SET saved_destinations = array_remove(coalesce(saved_destinations, ARRAY[]::integer[]), $2),
			updated_at = $3
		WHERE id = $1
			AND ($2 = ANY(coalesce(saved_destinations, ARRAY[]::integer[])))
		RETURNING saved_destinations
	`
	savedDestinationsQuery = `SELECT coalesce(saved_destinations, ARRAY[]::integer[]) FROM users WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Add(ctx context.Context, userID, destinationID int) ([]int, error) {
	return r.update(ctx, addFavoriteQuery, userID, destinationID)
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, destinationID int) ([]int, error) {
	return r.update(ctx, removeFavoriteQuery, userID, destinationID)
}

func (r *PostgresRepository) IDs(ctx context.Context, userID int) ([]int, error) {
	var arr pq.Int64Array
	if err := r.db.QueryRowContext(ctx, savedDestinationsQuery, userID).Scan(&arr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return toInts(arr), nil
}

func (r *PostgresRepository) update(ctx context.Context, query string, userID, destinationID int) ([]int, error) {
	var arr pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, userID, destinationID, r.now().UTC()).Scan(&arr)
	if errors.Is(err, sql.ErrNoRows) {
		// nothing to change, or no such user
		return r.IDs(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return toInts(arr), nil
}

func toInts(arr pq.Int64Array) []int {
	out := make([]int, len(arr))
	for i, v := range arr {
		out[i] = int(v)
	}
	return out
}
