package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

// ErrorCode categorises a fetch failure
type ErrorCode string

const (
	CodeTimeout    ErrorCode = "TIMEOUT"
	CodeConnection ErrorCode = "CONNECTION"
	CodeHTTPStatus ErrorCode = "HTTP_STATUS"
	CodeEmptyBody  ErrorCode = "EMPTY_BODY"
	CodeParse      ErrorCode = "PARSE"
	CodeInvalidURL ErrorCode = "INVALID_URL"
)

// Sentinels for errors.Is; only the code is compared
var (
	ErrTimeout    = &Error{Code: CodeTimeout}
	ErrConnection = &Error{Code: CodeConnection}
	ErrHTTPStatus = &Error{Code: CodeHTTPStatus}
	ErrEmptyBody  = &Error{Code: CodeEmptyBody}
	ErrParse      = &Error{Code: CodeParse}
	ErrInvalidURL = &Error{Code: CodeInvalidURL}
)

// Error is a fetch failure. Every failure is fatal to the scrape that
// requested the page; nothing is retried.
type Error struct {
	Code       ErrorCode
	URL        string
	Message    string
	Status     int
	Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is matches another *Error by code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NewError creates a fetch error
func NewError(code ErrorCode, rawURL, message string, err error) *Error {
	return &Error{
		Code:       code,
		URL:        rawURL,
		Message:    message,
		Underlying: err,
	}
}

// statusError reports a 4xx or 5xx response
func statusError(rawURL string, status int) *Error {
	e := NewError(CodeHTTPStatus, rawURL, fmt.Sprintf("server returned status %d", status), nil)
	e.Status = status
	return e
}

// classify maps a transport error onto the fetch taxonomy
func classify(rawURL string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.Canceled) {
		return NewError(CodeConnection, rawURL, "request cancelled", err)
	}
	if isTimeout(err) {
		return NewError(CodeTimeout, rawURL, "request timed out", err)
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case errors.As(err, &dnsErr):
		return NewError(CodeConnection, rawURL, "host could not be resolved", err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return NewError(CodeConnection, rawURL, "connection refused", err)
	case errors.Is(err, syscall.ECONNRESET):
		return NewError(CodeConnection, rawURL, "connection reset", err)
	case errors.As(err, &opErr):
		return NewError(CodeConnection, rawURL, "network error", err)
	}
	return NewError(CodeConnection, rawURL, "request failed", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
