package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	userColumns = `id, email, password, first_name, last_name, avatar, preferences, is_active, created_at, updated_at`

	getUserByIDQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	getUserByEmailQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO users (email, password, first_name, last_name, avatar, preferences, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	updateUserQuery = `
		UPDATE users
		SET first_name = $2,
			last_name = $3,
			avatar = $4,
			preferences = $5,
			updated_at = $6
		WHERE id = $1
	`
	updatePasswordQuery = `UPDATE users SET password = $2, updated_at = $3 WHERE id = $1`
)

const uniqueViolation = "23505"

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByEmailQuery, email))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	prefs, err := json.Marshal(user.Profile.Preferences)
	if err != nil {
		return User{}, fmt.Errorf("encode preferences: %w", err)
	}

	err = r.db.QueryRowContext(ctx, insertUserQuery,
		user.Email,
		user.Password,
		user.Profile.FirstName,
		user.Profile.LastName,
		user.Profile.Avatar,
		prefs,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user User) (User, error) {
	prefs, err := json.Marshal(user.Profile.Preferences)
	if err != nil {
		return User{}, fmt.Errorf("encode preferences: %w", err)
	}

	result, err := r.db.ExecContext(ctx, updateUserQuery,
		user.ID,
		user.Profile.FirstName,
		user.Profile.LastName,
		user.Profile.Avatar,
		prefs,
		user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}
	return r.GetByID(ctx, user.ID)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	result, err := r.db.ExecContext(ctx, updatePasswordQuery, id, hash, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(scanner rowScanner) (User, error) {
	var (
		u      User
		avatar sql.NullString
		prefs  []byte
	)
	if err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.Profile.FirstName,
		&u.Profile.LastName,
		&avatar,
		&prefs,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return User{}, err
	}

	u.Profile.Avatar = avatar.String
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &u.Profile.Preferences); err != nil {
			return User{}, fmt.Errorf("decode preferences for user %d: %w", u.ID, err)
		}
	}
	return u, nil
}
