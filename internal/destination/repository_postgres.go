package destination

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	destinationColumns = `id, name, description, location, images, categories, ratings_average, ratings_count,
		attractions, best_time_to_visit, estimated_cost, activities, tags, weather_info, travel_tips,
		is_active, trending, created_at, updated_at`

	listActiveQuery = `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE is_active
		ORDER BY id
	`
	listByIDsQuery = `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE id = ANY($1::int[])
		ORDER BY array_position($1::int[], id)
	`
	getDestinationQuery = `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE id = $1
	`
	insertDestinationQuery = `
		INSERT INTO destinations (name, description, location, images, categories, ratings_average, ratings_count,
			attractions, best_time_to_visit, estimated_cost, activities, tags, weather_info, travel_tips,
			is_active, trending, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`
	updateDestinationQuery = `
		UPDATE destinations
		SET name = $2,
			description = $3,
			location = $4,
			images = $5,
			categories = $6,
			attractions = $7,
			best_time_to_visit = $8,
			estimated_cost = $9,
			activities = $10,
			tags = $11,
			weather_info = $12,
			travel_tips = $13,
			is_active = $14,
			trending = $15,
			updated_at = $16
		WHERE id = $1
	`
	deleteDestinationQuery = `DELETE FROM destinations WHERE id = $1`
	setRatingsQuery        = `UPDATE destinations SET ratings_average = $2, ratings_count = $3 WHERE id = $1`
	truncateQuery          = `TRUNCATE destinations RESTART IDENTITY CASCADE`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// whereClause translates f into SQL predicates with positional arguments.
func whereClause(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Category != "" {
		conds = append(conds, next(f.Category)+" = ANY(categories)")
	}
	if f.Query != "" {
		conds = append(conds, `name ILIKE '%' || `+next(escapeLike(f.Query))+` || '%'`)
	}
	if f.MinPrice != nil {
		conds = append(conds, `(estimated_cost->'midRange'->>'min')::double precision >= `+next(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, `(estimated_cost->'midRange'->>'min')::double precision <= `+next(*f.MaxPrice))
	}
	if f.MinRating != nil {
		conds = append(conds, "ratings_average >= "+next(*f.MinRating))
	}
	if f.Tag != "" {
		conds = append(conds, next(f.Tag)+" = ANY(tags)")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike neutralises LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) (Page, error) {
	f = f.Normalize()
	where, args := whereClause(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM destinations"+where, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count destinations: %w", err)
	}

	n := len(args)
	query := "SELECT " + destinationColumns + " FROM destinations" + where +
		fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, f.PageSize, f.Offset())

	items, err := r.query(ctx, query, args...)
	if err != nil {
		return Page{}, err
	}
	return newPage(f, items, total), nil
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]Destination, error) {
	return r.query(ctx, listActiveQuery)
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []int) ([]Destination, error) {
	if len(ids) == 0 {
		return []Destination{}, nil
	}
	return r.query(ctx, listByIDsQuery, pq.Array(ids))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Destination, error) {
	d, err := scanDestination(r.db.QueryRowContext(ctx, getDestinationQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Destination{}, ErrNotFound
	}
	return d, err
}

func (r *PostgresRepository) Create(ctx context.Context, d Destination) (Destination, error) {
	d = withDefaults(d)
	if err := insertDestination(ctx, r.db, &d); err != nil {
		return Destination{}, err
	}
	return d, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertDestination(ctx context.Context, q queryRower, d *Destination) error {
	docs, err := encodeDocuments(*d)
	if err != nil {
		return err
	}
	return q.QueryRowContext(ctx, insertDestinationQuery,
		d.Name,
		d.Description,
		docs.location,
		docs.images,
		pq.Array(d.Categories),
		d.Ratings.Average,
		d.Ratings.Count,
		pq.Array(d.Attractions),
		docs.bestTime,
		docs.cost,
		pq.Array(d.Activities),
		pq.Array(d.Tags),
		docs.weather,
		pq.Array(d.TravelTips),
		d.IsActive,
		d.Trending,
		d.CreatedAt,
		d.UpdatedAt,
	).Scan(&d.ID)
}

func (r *PostgresRepository) Update(ctx context.Context, d Destination) (Destination, error) {
	d = withDefaults(d)
	docs, err := encodeDocuments(d)
	if err != nil {
		return Destination{}, err
	}

	result, err := r.db.ExecContext(ctx, updateDestinationQuery,
		d.ID,
		d.Name,
		d.Description,
		docs.location,
		docs.images,
		pq.Array(d.Categories),
		pq.Array(d.Attractions),
		docs.bestTime,
		docs.cost,
		pq.Array(d.Activities),
		pq.Array(d.Tags),
		docs.weather,
		pq.Array(d.TravelTips),
		d.IsActive,
		d.Trending,
		d.UpdatedAt,
	)
	if err != nil {
		return Destination{}, err
	}
	if err := expectAffected(result); err != nil {
		return Destination{}, err
	}
	return r.GetByID(ctx, d.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, deleteDestinationQuery, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *PostgresRepository) SetRatings(ctx context.Context, id int, ratings Ratings) error {
	result, err := r.db.ExecContext(ctx, setRatingsQuery, id, ratings.Average, ratings.Count)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// Reset empties the table, including dependent reviews, and inserts ds.
func (r *PostgresRepository) Reset(ctx context.Context, ds []Destination) ([]Destination, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, truncateQuery); err != nil {
		return nil, fmt.Errorf("truncate destinations: %w", err)
	}
	out := make([]Destination, 0, len(ds))
	for _, d := range ds {
		d = withDefaults(d)
		if err := insertDestination(ctx, tx, &d); err != nil {
			return nil, fmt.Errorf("insert %q: %w", d.Name, err)
		}
		out = append(out, d)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]Destination, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query destinations: %w", err)
	}
	defer rows.Close()

	out := make([]Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type documents struct {
	location, images, bestTime, cost []byte
	weather                          any
}

func encodeDocuments(d Destination) (documents, error) {
	var (
		docs documents
		err  error
	)
	if docs.location, err = json.Marshal(d.Location); err != nil {
		return docs, fmt.Errorf("encode location: %w", err)
	}
	if docs.images, err = json.Marshal(d.Images); err != nil {
		return docs, fmt.Errorf("encode images: %w", err)
	}
	if docs.bestTime, err = json.Marshal(d.BestTimeToVisit); err != nil {
		return docs, fmt.Errorf("encode bestTimeToVisit: %w", err)
	}
	if docs.cost, err = json.Marshal(d.EstimatedCost); err != nil {
		return docs, fmt.Errorf("encode estimatedCost: %w", err)
	}
	if d.WeatherInfo != nil {
		w, err := json.Marshal(d.WeatherInfo)
		if err != nil {
			return docs, fmt.Errorf("encode weatherInfo: %w", err)
		}
		docs.weather = w
	}
	return docs, nil
}

func scanDestination(scanner rowScanner) (Destination, error) {
	var (
		d                                   Destination
		location, images, bestTime, cost    []byte
		weather                             []byte
		categories, attractions, activities pq.StringArray
		tags, tips                          pq.StringArray
	)
	if err := scanner.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&location,
		&images,
		&categories,
		&d.Ratings.Average,
		&d.Ratings.Count,
		&attractions,
		&bestTime,
		&cost,
		&activities,
		&tags,
		&weather,
		&tips,
		&d.IsActive,
		&d.Trending,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return Destination{}, err
	}

	for _, doc := range []struct {
		name string
		raw  []byte
		into any
	}{
		{"location", location, &d.Location},
		{"images", images, &d.Images},
		{"bestTimeToVisit", bestTime, &d.BestTimeToVisit},
		{"estimatedCost", cost, &d.EstimatedCost},
		{"weatherInfo", weather, &d.WeatherInfo},
	} {
		if len(doc.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(doc.raw, doc.into); err != nil {
			return Destination{}, fmt.Errorf("decode %s for destination %d: %w", doc.name, d.ID, err)
		}
	}

	d.Categories = categories
	d.Attractions = attractions
	d.Activities = activities
	d.Tags = tags
	d.TravelTips = tips
	return withDefaults(d), nil
}
