package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/bizscrape/pkg/models"
)

func sampleRecord(name, kind, industry string, scraped time.Time) *models.Record {
	return &models.Record{
		URL:          "https://" + strings.ToLower(strings.ReplaceAll(name, " ", "")) + ".example",
		CompanyName:  name,
		BusinessType: kind,
		Industry:     industry,
		Description:  name + " builds things",
		Location:     "Austin, TX",
		FoundedYear:  "Unknown",
		ScrapedAt:    scraped,
	}
}

func runStoreSuite(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	acme := sampleRecord("Acme Corp", "Technology", "Software", base)
	acme.FoundedYear = "2010"
	globex := sampleRecord("Globex", "Retail", "E-commerce", base.Add(time.Hour))
	globex.FoundedYear = "1999"
	initech := sampleRecord("Initech", "Technology", "Software", base.Add(2*time.Hour))
	initech.FoundedYear = "2015"

	var ids []string
	for _, r := range []*models.Record{acme, globex, initech} {
		stored, err := s.Insert(ctx, r)
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if stored.ID == "" {
			t.Fatal("expected an id to be assigned")
		}
		if r.ID != "" {
			t.Error("Insert should not modify its argument")
		}
		ids = append(ids, stored.ID)
	}

	t.Run("get", func(t *testing.T) {
		got, err := s.Get(ctx, ids[0])
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.CompanyName != "Acme Corp" || got.FoundedYear != "2010" || got.Location != "Austin, TX" {
			t.Errorf("unexpected record %+v", got)
		}
		if !got.ScrapedAt.Equal(base) {
			t.Errorf("ScrapedAt = %v, want %v", got.ScrapedAt, base)
		}
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("find by url returns latest", func(t *testing.T) {
		again := sampleRecord("Acme Corp", "Technology", "Software", base.Add(3*time.Hour))
		stored, err := s.Insert(ctx, again)
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		got, err := s.FindByURL(ctx, acme.URL)
		if err != nil {
			t.Fatalf("FindByURL failed: %v", err)
		}
		if got.ID != stored.ID {
			t.Errorf("expected latest record %s, got %s", stored.ID, got.ID)
		}
		if err := s.Delete(ctx, stored.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := s.FindByURL(ctx, "https://nowhere.example"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		tests := []struct {
			name  string
			query Query
			want  []string
			total int
		}{
			{"default newest first", Query{}, []string{"Initech", "Globex", "Acme Corp"}, 3},
			{"by name", Query{SortBy: SortCompanyName}, []string{"Acme Corp", "Globex", "Initech"}, 3},
			{"by founded year", Query{SortBy: SortFoundedYear}, []string{"Initech", "Acme Corp", "Globex"}, 3},
			{"search is case-insensitive", Query{Search: "TECHNOLOGY", SortBy: SortCompanyName}, []string{"Acme Corp", "Initech"}, 2},
			{"search description", Query{Search: "globex builds"}, []string{"Globex"}, 1},
			{"second page", Query{SortBy: SortCompanyName, Page: 2, PerPage: 2}, []string{"Initech"}, 3},
			{"past the end", Query{Page: 5, PerPage: 2}, []string{}, 3},
			{"unknown sort falls back", Query{SortBy: "url; DROP TABLE"}, []string{"Initech", "Globex", "Acme Corp"}, 3},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				records, total, err := s.List(ctx, tt.query)
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if total != tt.total {
					t.Errorf("total = %d, want %d", total, tt.total)
				}
				var names []string
				for _, r := range records {
					names = append(names, r.CompanyName)
				}
				if strings.Join(names, ",") != strings.Join(tt.want, ",") {
					t.Errorf("got %v, want %v", names, tt.want)
				}
			})
		}
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := s.Stats(ctx)
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.Total != 3 || stats.ByBusinessType["Technology"] != 2 || stats.ByBusinessType["Retail"] != 1 {
			t.Errorf("unexpected stats %+v", stats)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, ids[1]); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := s.Delete(ctx, ids[1]); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
		if _, total, _ := s.List(ctx, Query{}); total != 2 {
			t.Errorf("expected 2 records after delete, got %d", total)
		}
	})

	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if _, err := s.Insert(ctx, nil); err == nil {
		t.Error("expected error inserting nil record")
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	s, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer s.Close()
	runStoreSuite(t, s)

	// reopening keeps existing rows
	s.Close()
	reopened, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if _, total, _ := reopened.List(context.Background(), Query{}); total != 2 {
		t.Errorf("expected 2 persisted records, got %d", total)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("BIZSCRAPE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BIZSCRAPE_TEST_POSTGRES_DSN not set")
	}
	s, err := OpenPostgres(context.Background(), PostgresConfig{DSN: dsn})
	if err != nil {
		t.Fatalf("OpenPostgres failed: %v", err)
	}
	defer s.Close()
	if _, err := s.pool.Exec(context.Background(), "TRUNCATE business_records"); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	runStoreSuite(t, s)
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("expected memory store by default, got %T", s)
	}
	if _, err := Open(context.Background(), "mongo", ""); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := Open(context.Background(), DriverPostgres, ""); err == nil {
		t.Error("expected error for postgres without DSN")
	}
}

func TestSchemaMatchesRecord(t *testing.T) {
	rec := &models.Record{}
	if len(fieldPointers(rec)) != len(fieldColumns) {
		t.Fatalf("scan targets (%d) and columns (%d) differ", len(fieldPointers(rec)), len(fieldColumns))
	}
	ddl := sqliteDialect.createTable()
	for _, c := range fieldColumns {
		if !strings.Contains(ddl, c+" TEXT") {
			t.Errorf("column %s missing from schema", c)
		}
	}
	if q := postgresDialect.insert(); !strings.Contains(q, "$30") {
		t.Errorf("expected 30 placeholders in %q", q)
	}
}
