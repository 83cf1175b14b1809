package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/rs/zerolog/log"
)

// PostgresConfig configures the connection pool
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// PostgresStore persists records in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
	d    dialect
}

// OpenPostgres connects to PostgreSQL and creates the table if missing
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres store requires a DSN")
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "bizscrape"

	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool, d: postgresDialect}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	log.Debug().Str("host", pc.ConnConfig.Host).Msg("Postgres store opened")
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := append([]string{s.d.createTable()}, s.d.createIndexes()...)
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("prepare schema: %w", err)
		}
	}
	return nil
}

// Insert stores a record
func (s *PostgresStore) Insert(ctx context.Context, r *models.Record) (*models.Record, error) {
	rec, err := prepare(r)
	if err != nil {
		return nil, err
	}
	args := append([]any{rec.ID}, fieldValues(rec)...)
	args = append(args, rec.ScrapedAt)
	if _, err := s.pool.Exec(ctx, s.d.insert(), args...); err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

// Get returns the record with the given id
func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Record, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+selectColumns()+" FROM business_records WHERE id = $1", id)
	return scanPostgres(row)
}

// FindByURL returns the most recent record scraped from url
func (s *PostgresStore) FindByURL(ctx context.Context, url string) (*models.Record, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+selectColumns()+" FROM business_records WHERE url = $1 ORDER BY scraped_at DESC LIMIT 1", url)
	return scanPostgres(row)
}

// List filters, sorts and paginates the stored records
func (s *PostgresStore) List(ctx context.Context, q Query) ([]*models.Record, int, error) {
	q = q.Normalize()

	countQuery, countArgs := s.d.count(q)
	var total int
	if err := s.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	query, args := s.d.list(q)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []*models.Record{}
	for rows.Next() {
		rec, err := scanPostgres(rows)
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
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM business_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts records per business type
func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT business_type, COUNT(*) FROM business_records GROUP BY business_type")
	if err != nil {
		return nil, fmt.Errorf("record stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{ByBusinessType: make(map[string]int)}
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("record stats: %w", err)
		}
		stats.ByBusinessType[kind] = int(n)
		stats.Total += int(n)
	}
	return stats, rows.Err()
}

// Ping checks the pool can reach the server
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgres(row rowScanner) (*models.Record, error) {
	rec := &models.Record{}
	dest := append([]any{&rec.ID}, fieldPointers(rec)...)
	dest = append(dest, &rec.ScrapedAt)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	rec.ScrapedAt = rec.ScrapedAt.UTC()
	return rec, nil
}
