package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/bizscrape/internal/store"
	"github.com/law-makers/bizscrape/pkg/models"
)

const companyPage = `<html><head>
<title>Acme Corp | Cloud Software</title>
<meta name="description" content="Acme Corp builds cloud software and SaaS tools for small businesses across Europe.">
</head><body>
<h1>Acme Corp</h1>
<p>We are a software company founded in 2005 offering a subscription platform to our customers.</p>
<a href="mailto:hello@acme.test">hello@acme.test</a>
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(companyPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the command tree against an isolated SQLite file
func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BIZSCRAPE_AUX_DELAY", "0s")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--store", "sqlite", "--dsn", dsn, "--quiet"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScrapeAndManageRecords(t *testing.T) {
	site := newSite(t)
	dsn := filepath.Join(t.TempDir(), "records.db")

	out, err := run(t, dsn, "scrape", "--json", site.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	var scraped []models.Record
	if err := json.Unmarshal([]byte(out), &scraped); err != nil {
		t.Fatalf("scrape output is not JSON: %v\n%s", err, out)
	}
	if len(scraped) != 1 {
		t.Fatalf("expected 1 record, got %d", len(scraped))
	}
	rec := scraped[0]
	if rec.ID == "" {
		t.Error("expected stored record to have an ID")
	}
	if rec.CompanyName != "Acme" {
		t.Errorf("expected company Acme, got %q", rec.CompanyName)
	}
	if rec.FoundedYear != "2005" {
		t.Errorf("expected founded year 2005, got %q", rec.FoundedYear)
	}

	// a second scrape reuses the stored record
	out, err = run(t, dsn, "scrape", "--json", site.URL)
	if err != nil {
		t.Fatalf("second scrape failed: %v", err)
	}
	var again []models.Record
	if err := json.Unmarshal([]byte(out), &again); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(again) != 1 || again[0].ID != rec.ID {
		t.Errorf("expected stored record %s to be reused, got %+v", rec.ID, again)
	}

	out, err = run(t, dsn, "list", "--json", "--search", "acme")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var page struct {
		Records []models.Record `json:"records"`
		Total   int             `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, out)
	}
	if page.Total != 1 || len(page.Records) != 1 {
		t.Errorf("expected 1 listed record, got total=%d len=%d", page.Total, len(page.Records))
	}

	out, err = run(t, dsn, "show", rec.ID)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "Acme") || !strings.Contains(out, "Founded Year") {
		t.Errorf("show output missing fields:\n%s", out)
	}

	out, err = run(t, dsn, "stats", "--json")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	var stats store.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("stats output is not JSON: %v", err)
	}
	if stats.Total != 1 {
		t.Errorf("expected 1 record in stats, got %d", stats.Total)
	}

	if _, err := run(t, dsn, "delete", rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := run(t, dsn, "show", rec.ID); err == nil {
		t.Error("expected show of deleted record to fail")
	}
	if _, err := run(t, dsn, "delete", rec.ID); err == nil {
		t.Error("expected second delete to fail")
	}
}

func TestScrapeExport(t *testing.T) {
	site := newSite(t)
	dir := t.TempDir()
	export := filepath.Join(dir, "companies.csv")

	if _, err := run(t, filepath.Join(dir, "records.db"), "scrape", "--output", export, site.URL); err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	content, err := os.ReadFile(export)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !strings.HasPrefix(string(content), "id,url,company_name") {
		t.Errorf("unexpected CSV header: %q", strings.SplitN(string(content), "\n", 2)[0])
	}
}

func TestScrapeFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := run(t, filepath.Join(t.TempDir(), "records.db"), "scrape", srv.URL)
	if err == nil {
		t.Fatal("expected error for 404 site")
	}
	if !strings.Contains(err.Error(), "failed to scrape") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestScrapeRequiresURL(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "records.db"), "scrape")
	if err == nil || !strings.Contains(err.Error(), "no URLs given") {
		t.Errorf("expected missing URL error, got %v", err)
	}
}

func TestCollectURLs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sites.txt")
	content := "# companies\nacme.test\n\nhttps://example.com\nacme.test\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	urls, err := collectURLs([]string{"https://example.com", "globex.test"}, file)
	if err != nil {
		t.Fatalf("collectURLs: %v", err)
	}
	want := []string{"https://example.com", "https://globex.test", "https://acme.test"}
	if len(urls) != len(want) {
		t.Fatalf("expected %v, got %v", want, urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("url %d: expected %q, got %q", i, want[i], urls[i])
		}
	}

	if _, err := collectURLs(nil, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders([]string{"Accept-Language: de", "X-Token:abc:def", "broken", ": empty"})
	if len(got) != 2 {
		t.Fatalf("expected 2 headers, got %v", got)
	}
	if got["Accept-Language"] != "de" {
		t.Errorf("unexpected Accept-Language %q", got["Accept-Language"])
	}
	if got["X-Token"] != "abc:def" {
		t.Errorf("unexpected X-Token %q", got["X-Token"])
	}
}

func TestDBDSNCommands(t *testing.T) {
	t.Setenv("CI", "1")
	home := t.TempDir()
	t.Setenv("HOME", home)
	dsn := filepath.Join(t.TempDir(), "records.db")

	if _, err := run(t, dsn, "db", "set-dsn", "postgres://bizscrape@localhost/records"); err != nil {
		t.Fatalf("set-dsn failed: %v", err)
	}
	saved, err := os.ReadFile(filepath.Join(home, ".bizscrape", "secrets", "database-dsn"))
	if err != nil {
		t.Fatalf("DSN not saved: %v", err)
	}
	if string(saved) != "postgres://bizscrape@localhost/records" {
		t.Errorf("unexpected saved DSN %q", saved)
	}
	if _, err := run(t, dsn, "db", "forget"); err != nil {
		t.Fatalf("forget failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".bizscrape", "secrets", "database-dsn")); !os.IsNotExist(err) {
		t.Errorf("expected saved DSN to be removed, stat err=%v", err)
	}

	out, err := run(t, dsn, "db", "ping")
	if err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if !strings.Contains(out, "sqlite store is reachable") {
		t.Errorf("unexpected ping output %q", out)
	}
}
