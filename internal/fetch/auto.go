package fetch

import (
	"context"

	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/rs/zerolog/log"
)

// AutoFetcher fetches statically and re-fetches through the browser only
// when the page looks script-rendered
type AutoFetcher struct {
	static   Fetcher
	rendered Fetcher
}

// NewAuto combines a static and an optional rendered fetcher
func NewAuto(static, rendered Fetcher) *AutoFetcher {
	return &AutoFetcher{static: static, rendered: rendered}
}

// Name returns the name of this fetcher
func (a *AutoFetcher) Name() string {
	return "auto"
}

// Fetch returns the static page unless it needs rendering. A rendering
// failure falls back to the static page.
func (a *AutoFetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	page, err := a.static.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	if a.rendered == nil || !NeedsRendering(page.HTML) {
		return page, nil
	}

	log.Debug().
		Str("url", opts.URL).
		Str("framework", DetectFramework(page.HTML)).
		Msg("Page looks script-rendered, switching to browser")

	renderedPage, err := a.rendered.Fetch(ctx, opts)
	if err != nil {
		log.Warn().Err(err).Str("url", opts.URL).Msg("Rendering failed, using static HTML")
		return page, nil
	}
	return renderedPage, nil
}
