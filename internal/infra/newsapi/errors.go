package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ChristoGH/url-miner/internal/domain"
)

// Provider error codes we care about. The full list is at
// https://newsapi.org/docs/errors.
const (
	codeRateLimited = "rateLimited"
	codeMaxResults  = "maximumResultsReached"
)

// apiError maps a non-OK provider response to a domain error. The provider
// wraps errors in {"status":"error","code":...,"message":...}; responses
// that are not that envelope fall back to the HTTP status.
func apiError(statusCode int, body []byte) error {
	var env struct {
		Status  string `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &env)
	return codedError(statusCode, env.Code, env.Message)
}

func codedError(statusCode int, code, message string) error {
	if statusCode == http.StatusUpgradeRequired || code == codeMaxResults {
		return fmt.Errorf("%s: %w", code, domain.ErrMaxResults)
	}

	kind := domain.FetchErrorHTTP
	switch {
	case statusCode == http.StatusUnauthorized || strings.HasPrefix(code, "apiKey"):
		kind = domain.FetchErrorAuth
	case statusCode == http.StatusTooManyRequests || code == codeRateLimited:
		kind = domain.FetchErrorRateLimited
	}

	msg := message
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	if code != "" {
		msg = code + ": " + msg
	}
	return &domain.FetchError{Kind: kind, StatusCode: statusCode, Message: msg}
}

// retryable reports whether a failed attempt is worth repeating: transport
// errors and 5xx responses are, everything the provider decided on purpose
// (auth, rate limits, plan caps, bad requests) is not.
func retryable(err error) bool {
	if errors.Is(err, domain.ErrMaxResults) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return fe.Kind == domain.FetchErrorHTTP && fe.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// scrubbedError hides the API key from error text while keeping the chain
// intact for errors.Is/As.
type scrubbedError struct {
	err      error
	scrubber *strings.Replacer
}

func (se *scrubbedError) Error() string {
	if se.scrubber != nil {
		return se.scrubber.Replace(se.err.Error())
	}
	return se.err.Error()
}

func (se *scrubbedError) Unwrap() error { return se.err }
