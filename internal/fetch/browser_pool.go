package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ErrPoolClosed is returned by Acquire after Close
var ErrPoolClosed = errors.New("browser pool is closed")

// BrowserPool keeps warm Chrome tabs so rendered fetches skip browser startup
type BrowserPool struct {
	size        int
	tabs        chan *BrowserTab
	allocCancel context.CancelFunc
	mu          sync.Mutex
	closed      bool
}

// BrowserTab is one reusable chromedp context
type BrowserTab struct {
	Ctx    context.Context
	Cancel context.CancelFunc
}

// BrowserPoolOptions configures the browser pool
type BrowserPoolOptions struct {
	Size       int
	Headless   bool
	UserAgent  string
	ChromePath string
	Proxy      string
}

// NewBrowserPool starts one browser and opens Size warm tabs
func NewBrowserPool(opts BrowserPoolOptions) (*BrowserPool, error) {
	if opts.Size <= 0 {
		opts.Size = 2
	}
	if opts.Size > 10 {
		opts.Size = 10
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	log.Debug().Int("size", opts.Size).Msg("Creating browser pool")

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(opts.UserAgent),
	}
	if path := FindChrome(opts.ChromePath); path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	pool := &BrowserPool{
		size:        opts.Size,
		tabs:        make(chan *BrowserTab, opts.Size),
		allocCancel: allocCancel,
	}

	for i := 0; i < opts.Size; i++ {
		tabCtx, tabCancel := chromedp.NewContext(allocCtx)
		if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
			tabCancel()
			pool.Close()
			return nil, fmt.Errorf("failed to start browser tab %d: %w", i, err)
		}
		pool.tabs <- &BrowserTab{Ctx: tabCtx, Cancel: tabCancel}
	}

	log.Debug().Int("pool_size", opts.Size).Msg("Browser pool ready")
	return pool, nil
}

// Acquire takes a tab from the pool, blocking until one is free or ctx ends
func (bp *BrowserPool) Acquire(ctx context.Context) (*BrowserTab, error) {
	select {
	case tab, ok := <-bp.tabs:
		if !ok {
			return nil, ErrPoolClosed
		}
		bp.mu.Lock()
		defer bp.mu.Unlock()
		if bp.closed {
			tab.Cancel()
			return nil, ErrPoolClosed
		}
		return tab, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for a browser tab: %w", ctx.Err())
	}
}

// Release resets a tab to about:blank and returns it to the pool
func (bp *BrowserPool) Release(tab *BrowserTab) {
	// best effort; a broken tab fails its next use
	_ = chromedp.Run(tab.Ctx, chromedp.Navigate("about:blank"))

	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		tab.Cancel()
		return
	}

	select {
	case bp.tabs <- tab:
	default:
		tab.Cancel()
		log.Warn().Msg("Browser pool full, discarding tab")
	}
}

// Close shuts down every tab and the browser
func (bp *BrowserPool) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.closed = true

	close(bp.tabs)
	for tab := range bp.tabs {
		tab.Cancel()
	}
	bp.allocCancel()

	log.Debug().Msg("Browser pool closed")
	return nil
}

// Size returns the pool size
func (bp *BrowserPool) Size() int {
	return bp.size
}

// Available returns the number of idle tabs
func (bp *BrowserPool) Available() int {
	return len(bp.tabs)
}
