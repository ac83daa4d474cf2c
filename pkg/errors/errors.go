package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies errors from the Graph API crawl pipeline
type Kind string

const (
	KindAuth      Kind = "auth"
	KindAPI       Kind = "api"
	KindRateLimit Kind = "rate_limit"
	KindNetwork   Kind = "network"
	KindData      Kind = "data"
	KindParsing   Kind = "parsing"
)

// Error represents a crawl error with classification and, for API
// responses, the upstream status code and body.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Auth builds an error for the no-usable-token condition.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// API builds an error for a non-2xx response other than 429.
func API(status int, body string) *Error {
	return &Error{
		Kind:    KindAPI,
		Message: "unexpected Graph API response",
		Status:  status,
		Body:    body,
	}
}

// RateLimit builds an error for a 429 response. Rate limiting is handled
// inside the fetch loop and never surfaces to callers.
func RateLimit() *Error {
	return &Error{Kind: KindRateLimit, Message: "rate limited", Status: 429}
}

// Network builds an error for a timeout or connection failure.
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}

// Data builds an error for a well-formed response lacking expected data.
func Data(msg string) *Error {
	return &Error{Kind: KindData, Message: msg}
}

// Parsing builds an error for an undecodable response body.
func Parsing(err error) *Error {
	return &Error{Kind: KindParsing, Message: err.Error(), Err: err}
}

// KindOf returns the classification of err. Unwrapped transport errors
// count as network failures.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, k Kind) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == k
}

// StatusOf returns the upstream status code carried by err, if any.
func StatusOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsRetryable reports whether an error should be retried under the
// transient-failure budget: network failures and non-2xx API responses.
// Rate limiting is budgeted separately; auth, data and parsing failures
// are final.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindAPI:
		return true
	default:
		return false
	}
}
