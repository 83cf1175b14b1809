package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// failureCooldown is how long a failed proxy is skipped
const failureCooldown = 5 * time.Minute

// Pool rotates outbound proxies round-robin, skipping ones that failed
// recently
type Pool struct {
	proxies []string
	index   int
	mu      sync.Mutex
	failed  map[string]time.Time
}

// NewPool validates the proxy URLs and creates a pool
func NewPool(proxies []string) (*Pool, error) {
	for _, p := range proxies {
		u, err := url.Parse(p)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", p)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("invalid proxy %q: unsupported scheme %q", p, u.Scheme)
		}
	}
	return &Pool{
		proxies: proxies,
		failed:  make(map[string]time.Time),
	}, nil
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Next returns the next healthy proxy. When every proxy is cooling down
// the next one in rotation is returned anyway.
func (p *Pool) Next() string {
	if p == nil {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	for range p.proxies {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		if failedAt, ok := p.failed[proxy]; ok {
			if time.Since(failedAt) < failureCooldown {
				continue
			}
			delete(p.failed, proxy)
		}
		return proxy
	}

	proxy := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return proxy
}

// MarkFailed skips a proxy for the cooldown period
func (p *Pool) MarkFailed(proxy string) {
	if p == nil || proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = time.Now()
}

// MarkHealthy clears a proxy's failure
func (p *Pool) MarkHealthy(proxy string) {
	if p == nil || proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

type ctxKey struct{}

// WithProxy records the proxy chosen for one request
func WithProxy(ctx context.Context, proxy string) context.Context {
	if proxy == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, proxy)
}

// FromContext returns the proxy recorded by WithProxy
func FromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(ctxKey{}).(string)
	return p, ok && p != ""
}

// TransportProxy is an http.Transport Proxy func that routes each request
// through the proxy recorded in its context, falling back to fallback
func TransportProxy(fallback func(*http.Request) (*url.URL, error)) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		if p, ok := FromContext(req.Context()); ok {
			return url.Parse(p)
		}
		if fallback != nil {
			return fallback(req)
		}
		return nil, nil
	}
}
