// Package cache keeps fetched pages for the life of one command, so a site
// scraped twice in a batch, or an auxiliary page shared by several URLs,
// is downloaded once.
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/rs/zerolog/log"
)

const (
	defaultMaxBytes = 100 * 1024 * 1024
	defaultTTL      = 5 * time.Minute
	// pageOverhead approximates the struct and map cost of one entry
	pageOverhead = 512
)

// Cache is what the fetchers need from a page cache
type Cache interface {
	Get(key string) (*models.Page, bool)
	Set(key string, page *models.Page, ttl time.Duration) error
}

// Stats describes cache usage for the shutdown log
type Stats struct {
	Pages  int
	Bytes  int64
	Hits   uint64
	Misses uint64
}

type entry struct {
	key     string
	page    *models.Page
	size    int64
	expires time.Time
}

// PageCache bounds the total size of cached pages and drops the least
// recently used page first. Expired pages are removed when next touched.
type PageCache struct {
	mu       sync.Mutex
	pages    map[string]*list.Element
	order    *list.List // front is most recently used
	maxBytes int64
	bytes    int64
	hits     uint64
	misses   uint64
	now      func() time.Time
}

// NewPageCache creates a cache holding at most maxBytes of pages
func NewPageCache(maxBytes int64) *PageCache {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &PageCache{
		pages:    make(map[string]*list.Element),
		order:    list.New(),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Get returns a live page and marks it most recently used
func (c *PageCache) Get(key string) (*models.Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.pages[key]
	if !ok {
		c.misses++
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().After(e.expires) {
		c.remove(el)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(el)
	c.hits++
	log.Debug().Str("key", key).Msg("Page cache hit")
	return e.page, true
}

// Set stores page under key, replacing any earlier page. A page larger than
// the whole cache is not stored.
func (c *PageCache) Set(key string, page *models.Page, ttl time.Duration) error {
	if page == nil {
		return fmt.Errorf("cache: nil page for key %s", key)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	size := pageSize(page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.pages[key]; ok {
		c.remove(el)
	}
	if size > c.maxBytes {
		log.Debug().Str("key", key).Int64("size_bytes", size).Msg("Page too large to cache")
		return nil
	}

	c.dropExpired()
	for c.bytes+size > c.maxBytes {
		oldest := c.order.Back()
		log.Debug().Str("key", oldest.Value.(*entry).key).Msg("Evicted page from cache")
		c.remove(oldest)
	}

	c.pages[key] = c.order.PushFront(&entry{
		key:     key,
		page:    page,
		size:    size,
		expires: c.now().Add(ttl),
	})
	c.bytes += size
	return nil
}

// Stats reports the current usage
func (c *PageCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Pages: c.order.Len(), Bytes: c.bytes, Hits: c.hits, Misses: c.misses}
}

// dropExpired removes every expired page; c.mu must be held
func (c *PageCache) dropExpired() {
	now := c.now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry).expires) {
			c.remove(el)
		}
		el = prev
	}
}

// remove unlinks one entry; c.mu must be held
func (c *PageCache) remove(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.pages, e.key)
	c.bytes -= e.size
}

// Key builds a cache key from a URL and the fetch mode that produced it
func Key(url string, mode models.FetchMode) string {
	if mode == "" || mode == models.ModeStatic {
		return url
	}
	return fmt.Sprintf("%s::%s", url, mode)
}

func pageSize(p *models.Page) int64 {
	size := int64(len(p.HTML) + len(p.URL) + len(p.FinalURL))
	for k, v := range p.Headers {
		size += int64(len(k) + len(v))
	}
	return size + pageOverhead
}
