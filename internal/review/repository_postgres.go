package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	// the unique (destination_id, user_id) constraint turns a second
	// review into a no-op insert that returns no row
	insertReviewQuery = `
		INSERT INTO reviews (destination_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (destination_id, user_id) DO NOTHING
		RETURNING id
	`
	ratingsQuery = `SELECT rating FROM reviews WHERE destination_id = $1`

	listByDestinationQuery = `
		SELECT r.id, r.destination_id, r.user_id, r.rating, r.comment, r.created_at, u.first_name, u.last_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.destination_id = $1
		ORDER BY r.created_at, r.id
	`
	listByUserQuery = `
		SELECT r.id, r.destination_id, r.user_id, r.rating, r.comment, r.created_at, d.name
		FROM reviews r
		JOIN destinations d ON d.id = r.destination_id
		WHERE r.user_id = $1
		ORDER BY r.created_at, r.id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rv Review) (Review, error) {
	err := r.db.QueryRowContext(ctx, insertReviewQuery,
		rv.DestinationID,
		rv.UserID,
		rv.Rating,
		rv.Comment,
		rv.CreatedAt,
	).Scan(&rv.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return Review{}, ErrAlreadyReviewed
	}
	if err != nil {
		return Review{}, fmt.Errorf("insert review: %w", err)
	}
	return rv, nil
}

func (r *PostgresRepository) Ratings(ctx context.Context, destinationID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, ratingsQuery, destinationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByDestination(ctx context.Context, destinationID int) ([]DestinationReview, error) {
	rows, err := r.db.QueryContext(ctx, listByDestinationQuery, destinationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DestinationReview, 0)
	for rows.Next() {
		var item DestinationReview
		if err := scanReview(rows, &item.Review, &item.User.FirstName, &item.User.LastName); err != nil {
			return nil, err
		}
		item.User.ID = item.UserID
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]UserReview, error) {
	rows, err := r.db.QueryContext(ctx, listByUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserReview, 0)
	for rows.Next() {
		var item UserReview
		if err := scanReview(rows, &item.Review, &item.Destination.Name); err != nil {
			return nil, err
		}
		item.Destination.ID = item.DestinationID
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanReview(scanner rowScanner, rv *Review, extra ...any) error {
	var comment sql.NullString
	dest := append([]any{&rv.ID, &rv.DestinationID, &rv.UserID, &rv.Rating, &comment, &rv.CreatedAt}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return err
	}
	rv.Comment = comment.String
	return nil
}
