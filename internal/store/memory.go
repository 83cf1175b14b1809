package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/law-makers/bizscrape/pkg/models"
)

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.Record
}

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.Record)}
}

// Insert stores a copy of the record
func (m *MemoryStore) Insert(ctx context.Context, r *models.Record) (*models.Record, error) {
	rec, err := prepare(r)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *rec
	m.records[rec.ID] = &stored
	return rec, nil
}

// Get returns the record with the given id
func (m *MemoryStore) Get(ctx context.Context, id string) (*models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec := *r
	return &rec, nil
}

// FindByURL returns the most recent record scraped from url
func (m *MemoryStore) FindByURL(ctx context.Context, url string) (*models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *models.Record
	for _, r := range m.records {
		if r.URL == url && (latest == nil || r.ScrapedAt.After(latest.ScrapedAt)) {
			latest = r
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	rec := *latest
	return &rec, nil
}

// List filters, sorts and paginates the stored records
func (m *MemoryStore) List(ctx context.Context, q Query) ([]*models.Record, int, error) {
	q = q.Normalize()
	needle := strings.ToLower(q.Search)

	m.mu.RLock()
	matches := make([]*models.Record, 0, len(m.records))
	for _, r := range m.records {
		if needle == "" || strings.Contains(searchText(r), needle) {
			rec := *r
			matches = append(matches, &rec)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return less(matches[i], matches[j], q.SortBy)
	})

	total := len(matches)
	start := q.offset()
	if start >= total {
		return []*models.Record{}, total, nil
	}
	end := start + q.PerPage
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

// Delete removes a record
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Stats counts records per business type
func (m *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &Stats{Total: len(m.records), ByBusinessType: make(map[string]int)}
	for _, r := range m.records {
		stats.ByBusinessType[r.BusinessType]++
	}
	return stats, nil
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

func searchText(r *models.Record) string {
	return strings.ToLower(strings.Join([]string{
		r.CompanyName, r.BusinessType, r.Industry, r.Location, r.Description,
	}, " "))
}

func less(a, b *models.Record, key string) bool {
	var x, y string
	switch key {
	case SortCompanyName:
		x, y = a.CompanyName, b.CompanyName
	case SortBusinessType:
		x, y = a.BusinessType, b.BusinessType
	case SortIndustry:
		x, y = a.Industry, b.Industry
	case SortFoundedYear:
		if a.FoundedYear != b.FoundedYear {
			return a.FoundedYear > b.FoundedYear
		}
		return a.ID < b.ID
	default:
		if !a.ScrapedAt.Equal(b.ScrapedAt) {
			return a.ScrapedAt.After(b.ScrapedAt)
		}
		return a.ID < b.ID
	}
	if x != y {
		return x < y
	}
	return a.ID < b.ID
}
