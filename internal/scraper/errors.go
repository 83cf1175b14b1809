package scraper

import (
	"errors"
	"fmt"

	"github.com/law-makers/bizscrape/internal/fetch"
)

// ScrapeError is the single error a failed scrape reports
type ScrapeError struct {
	URL      string
	ScrapeID string
	Err      error
}

// Error describes the cause in plain words
func (e *ScrapeError) Error() string {
	return fmt.Sprintf("failed to scrape %s: %s", e.URL, e.Cause())
}

// Unwrap returns the fetch error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Cause is a human-readable description of what went wrong
func (e *ScrapeError) Cause() string {
	var fe *fetch.Error
	if !errors.As(e.Err, &fe) {
		if e.Err == nil {
			return "unknown error"
		}
		return e.Err.Error()
	}
	switch fe.Code {
	case fetch.CodeTimeout:
		return "website took too long to respond"
	case fetch.CodeConnection:
		return "could not connect to website"
	case fetch.CodeHTTPStatus:
		if fe.Status > 0 {
			return fmt.Sprintf("website returned HTTP status %d", fe.Status)
		}
		return "website returned an error status"
	case fetch.CodeEmptyBody:
		return "website returned an empty page"
	case fetch.CodeParse:
		return "could not parse website content"
	case fetch.CodeInvalidURL:
		return "invalid URL, expected an http or https address"
	}
	return fe.Error()
}
