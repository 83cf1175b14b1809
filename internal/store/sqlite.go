package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath is used when no DSN is configured
const DefaultSQLitePath = "bizscrape.db"

// SQLiteStore persists records in an embedded SQLite database
type SQLiteStore struct {
	db *sql.DB
	d  dialect
}

// OpenSQLite opens or creates the database file at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer keeps concurrent batch inserts from hitting SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, d: sqliteDialect}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Msg("SQLite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{"PRAGMA busy_timeout = 5000", s.d.createTable()}
	stmts = append(stmts, s.d.createIndexes()...)
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("prepare schema: %w", err)
		}
	}
	return nil
}

// Insert stores a record
func (s *SQLiteStore) Insert(ctx context.Context, r *models.Record) (*models.Record, error) {
	rec, err := prepare(r)
	if err != nil {
		return nil, err
	}
	args := append([]any{rec.ID}, fieldValues(rec)...)
	args = append(args, rec.ScrapedAt.UnixNano())
	if _, err := s.db.ExecContext(ctx, s.d.insert(), args...); err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

// Get returns the record with the given id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns()+" FROM business_records WHERE id = ?", id)
	return scanSQLite(row)
}

// FindByURL returns the most recent record scraped from url
func (s *SQLiteStore) FindByURL(ctx context.Context, url string) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns()+" FROM business_records WHERE url = ? ORDER BY scraped_at DESC LIMIT 1", url)
	return scanSQLite(row)
}

// List filters, sorts and paginates the stored records
func (s *SQLiteStore) List(ctx context.Context, q Query) ([]*models.Record, int, error) {
	q = q.Normalize()

	countQuery, countArgs := s.d.count(q)
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	query, args := s.d.list(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []*models.Record{}
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	return records, total, nil
}

// Delete removes a record
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM business_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts records per business type
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT business_type, COUNT(*) FROM business_records GROUP BY business_type")
	if err != nil {
		return nil, fmt.Errorf("record stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{ByBusinessType: make(map[string]int)}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("record stats: %w", err)
		}
		stats.ByBusinessType[kind] = n
		stats.Total += n
	}
	return stats, rows.Err()
}

// Ping checks the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (*models.Record, error) {
	rec := &models.Record{}
	var ts int64
	dest := append([]any{&rec.ID}, fieldPointers(rec)...)
	dest = append(dest, &ts)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	rec.ScrapedAt = time.Unix(0, ts).UTC()
	return rec, nil
}
