package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// FetchErrorKind is a high-level classification of fetch-time errors.
type FetchErrorKind string

const (
	FetchErrorUnknown     FetchErrorKind = "unknown"
	FetchErrorTimeout     FetchErrorKind = "timeout"
	FetchErrorDNS         FetchErrorKind = "dns"
	FetchErrorConn        FetchErrorKind = "connection"
	FetchErrorHTTP        FetchErrorKind = "http"
	FetchErrorRateLimited FetchErrorKind = "rate_limited"
	FetchErrorAuth        FetchErrorKind = "auth"
)

// FetchError represents a structured error produced while talking to the
// article provider. It is persisted inside artifacts, so it carries no
// wrapped error chain, only a kind, an optional status and a message.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s (status=%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch %s: %s", e.Kind, e.Message)
}

// NewFetchError classifies err into a FetchError. A *FetchError anywhere in
// the chain wins; otherwise transport errors are inspected for DNS, timeout
// and connection failures.
func NewFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &FetchError{Kind: FetchErrorDNS, Message: dnsErr.Error()}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: FetchErrorTimeout, Message: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: FetchErrorTimeout, Message: netErr.Error()}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &FetchError{Kind: FetchErrorConn, Message: opErr.Error()}
	}

	return &FetchError{Kind: FetchErrorUnknown, Message: err.Error()}
}

// DropReport records one article screened out by a feed rule.
type DropReport struct {
	URL    string
	Title  string
	Rule   string
	Reason string
}

// FetchStats summarizes one fetch run.
type FetchStats struct {
	// Fetched counts articles returned by the provider before screening.
	Fetched    int
	Kept       int
	Dropped    int
	Duplicates int
}

// FetchArtifact represents a persisted fetch run for reproducibility.
type FetchArtifact struct {
	RunID string

	FeedName string
	FeedPath string

	// Query is the fully resolved search expression sent to the provider.
	Query  string
	SortBy SortOrder
	Window Window

	StartedAt  time.Time
	FinishedAt time.Time

	PagesFetched int
	// TotalResults is the server-reported match count, which can exceed
	// what MaxPages or the API plan let us page through.
	TotalResults int

	Articles []Article
	Dropped  []DropReport
	Stats    FetchStats

	// Error is set when the run ended early; articles gathered before the
	// failure are still present.
	Error *FetchError
}

// RunSummary is the index view of a persisted run, cheap to list.
type RunSummary struct {
	RunID    string
	FeedName string
	SavedAt  time.Time
	Path     string

	Kept         int
	TotalResults int

	// ErrorKind is the FetchErrorKind of a failed run, empty otherwise.
	ErrorKind string
}
