package destination

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var destinationRowColumns = []string{
	"id", "name", "description", "location", "images", "categories", "ratings_average", "ratings_count",
	"attractions", "best_time_to_visit", "estimated_cost", "activities", "tags", "weather_info", "travel_tips",
	"is_active", "trending", "created_at", "updated_at",
}

func addRow(rows *sqlmock.Rows, id int, name string, now time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, name, "desc",
		[]byte(`{"country":"Thailand","city":"Krabi","coordinates":{"latitude":7.6,"longitude":98.7}}`),
		[]byte(`[]`),
		"{beach,nature}",
		4.5, 2,
		"{}",
		[]byte(`[]`),
		[]byte(`{"midRange":{"min":100,"max":250,"currency":"USD"}}`),
		"{snorkeling}",
		"{island}",
		nil,
		"{}",
		true, false, now, now,
	)
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(Filter{Category: "beach", Query: "50%_off", MinPrice: f64(10), MinRating: f64(4), Tag: "island"})
	for _, want := range []string{
		"$1 = ANY(categories)",
		"name ILIKE '%' || $2 || '%'",
		"(estimated_cost->'midRange'->>'min')::double precision >= $3",
		"ratings_average >= $4",
		"$5 = ANY(tags)",
	} {
		if !strings.Contains(where, want) {
			t.Fatalf("expected %q in %q", want, where)
		}
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(args))
	}
	if args[1] != `50\%\_off` {
		t.Fatalf("expected escaped wildcards, got %v", args[1])
	}

	if where, args := whereClause(Filter{}); where != "" || len(args) != 0 {
		t.Fatalf("expected no clause, got %q %v", where, args)
	}
}

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM destinations WHERE $1 = ANY(categories) AND ratings_average >= $2")).
		WithArgs("beach", 4.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("ORDER BY id LIMIT \\$3 OFFSET \\$4").
		WithArgs("beach", 4.0, 2, 2).
		WillReturnRows(addRow(sqlmock.NewRows(destinationRowColumns), 7, "Maya Bay", time.Now()))

	p, err := repo.List(context.Background(), Filter{Category: "beach", MinRating: f64(4), Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if p.Total != 3 || p.TotalPages != 2 || len(p.Items) != 1 {
		t.Fatalf("unexpected page %+v", p)
	}
	d := p.Items[0]
	if d.Location.City != "Krabi" || d.EstimatedCost.MidRange == nil || d.EstimatedCost.MidRange.Min != 100 {
		t.Fatalf("documents not decoded: %+v", d)
	}
	if len(d.Categories) != 2 || d.Categories[1] != "nature" || d.Tags[0] != "island" {
		t.Fatalf("arrays not decoded: %+v", d)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresListHugePage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	f := Filter{Page: math.MaxInt}.Normalize()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM destinations")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery("ORDER BY id LIMIT \\$1 OFFSET \\$2").
		WithArgs(DefaultPageSize, f.Offset()).
		WillReturnRows(sqlmock.NewRows(destinationRowColumns))

	p, err := repo.List(context.Background(), Filter{Page: math.MaxInt})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if f.Offset() < 0 || p.Total != 4 || len(p.Items) != 0 {
		t.Fatalf("unexpected page %+v (offset %d)", p, f.Offset())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM destinations\\s+WHERE id = \\$1").WithArgs(42).WillReturnRows(sqlmock.NewRows(destinationRowColumns))

	if _, err := repo.GetByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSetRatings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE destinations SET ratings_average").WithArgs(3, 4.33, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE destinations SET ratings_average").WithArgs(4, 5.0, 1).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetRatings(context.Background(), 3, Ratings{Average: 4.33, Count: 3}); err != nil {
		t.Fatalf("set ratings: %v", err)
	}
	if err := repo.SetRatings(context.Background(), 4, Ratings{Average: 5, Count: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresReset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE destinations RESTART IDENTITY CASCADE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO destinations").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO destinations").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	out, err := repo.Reset(context.Background(), SampleDestinations()[:2])
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(out) != 2 || out[1].ID != 2 {
		t.Fatalf("unexpected reset result %+v", ids(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
