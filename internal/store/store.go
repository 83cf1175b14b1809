// Package store persists scraped business records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/law-makers/bizscrape/pkg/models"
)

// ErrNotFound is returned when no record has the requested id or URL
var ErrNotFound = errors.New("record not found")

// Drivers accepted by Open
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Sort keys accepted by Query.SortBy
const (
	SortScrapedAt    = "scraped_at"
	SortCompanyName  = "company_name"
	SortBusinessType = "business_type"
	SortIndustry     = "industry"
	SortFoundedYear  = "founded_year"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Query selects one page of records
type Query struct {
	Search  string
	SortBy  string
	Page    int
	PerPage int
}

// Stats summarises the stored records
type Stats struct {
	Total          int            `json:"total"`
	ByBusinessType map[string]int `json:"by_business_type"`
}

// Store is a record repository
type Store interface {
	Insert(ctx context.Context, r *models.Record) (*models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	FindByURL(ctx context.Context, url string) (*models.Record, error)
	// List returns the requested page and the total number of matches
	List(ctx context.Context, q Query) ([]*models.Record, int, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open creates the store for a driver name
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	case DriverPostgres, "postgresql", "pgx":
		return OpenPostgres(ctx, PostgresConfig{DSN: dsn})
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

// prepare returns a copy of r with an id and timestamp assigned
func prepare(r *models.Record) (*models.Record, error) {
	if r == nil {
		return nil, errors.New("cannot store nil record")
	}
	rec := *r
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ScrapedAt.IsZero() {
		rec.ScrapedAt = time.Now().UTC()
	}
	return &rec, nil
}

// Normalize clamps paging and falls back to the scraped_at sort
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	q.Search = strings.TrimSpace(q.Search)
	switch q.SortBy {
	case SortCompanyName, SortBusinessType, SortIndustry, SortFoundedYear:
	default:
		q.SortBy = SortScrapedAt
	}
	return q
}

func (q Query) offset() int {
	return (q.Page - 1) * q.PerPage
}
