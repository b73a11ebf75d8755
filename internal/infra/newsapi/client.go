// Package newsapi is the NewsAPI (https://newsapi.org) article source.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ChristoGH/url-miner/internal/buildinfo"
	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/infra/httpclient"
	"github.com/ChristoGH/url-miner/internal/ports"
)

const (
	defaultBaseURL = "https://newsapi.org"

	// apiKeyHeader carries the credential. The key never goes in the URL,
	// so it cannot leak through logs or stored artifacts.
	apiKeyHeader = "X-Api-Key"

	defaultMaxBodyBytes = 4 * 1024 * 1024 // a 100-article page is well under this
	defaultMaxRetries   = 3
)

type Client struct {
	baseURL       string
	apiKey        string
	httpc         *http.Client
	maxBodyBytes  int64
	maxRetries    uint64
	retryInterval time.Duration
	scrubber      *strings.Replacer
}

type Option func(*Client)

// WithBaseURL overrides the provider endpoint (useful for tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithMaxBodyBytes bounds how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) { c.maxBodyBytes = n }
}

// WithMaxRetries caps retry attempts for transient failures.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryInterval sets the initial backoff interval between retries.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		apiKey:       apiKey,
		httpc:        httpclient.New(httpclient.DefaultConfig()),
		maxBodyBytes: defaultMaxBodyBytes,
		maxRetries:   defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey != "" {
		c.scrubber = strings.NewReplacer(c.apiKey, "********")
	}
	return c
}

var _ ports.ArticleSource = (*Client)(nil)

// Search fetches one page of /v2/everything results.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchPage, error) {
	q := url.Values{}
	q.Set("q", req.Query)
	if len(req.SearchIn) > 0 {
		q.Set("searchIn", strings.Join(req.SearchIn, ","))
	}
	if !req.Window.From.IsZero() {
		q.Set("from", req.Window.FromParam())
	}
	if !req.Window.To.IsZero() {
		q.Set("to", req.Window.ToParam())
	}
	if req.Language != "" {
		q.Set("language", req.Language)
	}
	if len(req.Domains) > 0 {
		q.Set("domains", strings.Join(req.Domains, ","))
	}
	if len(req.ExcludeDomains) > 0 {
		q.Set("excludeDomains", strings.Join(req.ExcludeDomains, ","))
	}
	if req.SortBy != "" {
		q.Set("sortBy", string(req.SortBy))
	}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(req.PageSize))
	}

	var sr searchResponse
	if err := c.get(ctx, "/v2/everything", q, &sr); err != nil {
		return domain.SearchPage{}, err
	}
	return mapPage(sr)
}

func mapPage(sr searchResponse) (domain.SearchPage, error) {
	// The provider can put the error envelope in a 200 body.
	if sr.Status != "ok" {
		return domain.SearchPage{}, codedError(http.StatusOK, sr.Code, sr.Message)
	}

	page := domain.SearchPage{
		TotalResults: sr.TotalResults,
		Articles:     make([]domain.Article, 0, len(sr.Articles)),
	}
	for _, raw := range sr.Articles {
		a, err := mapArticle(raw)
		if err != nil {
			return domain.SearchPage{}, fmt.Errorf("decode article: %w", err)
		}
		page.Articles = append(page.Articles, a)
	}
	return page, nil
}

// get performs a GET with retries for transient failures.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	op := func() error {
		err := c.doOnce(ctx, path, q, out)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	eb := backoff.NewExponentialBackOff()
	if c.retryInterval > 0 {
		eb.InitialInterval = c.retryInterval
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(eb, c.maxRetries), ctx)
	return backoff.Retry(op, bo)
}

func (c *Client) doOnce(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return c.scrub(err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return c.scrub(err)
	}
	defer resp.Body.Close()

	body, truncated, err := readBounded(resp.Body, c.maxBodyBytes)
	if err != nil {
		return c.scrub(err)
	}

	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, body)
	}
	if truncated {
		return fmt.Errorf("newsapi: response body exceeded %d bytes", c.maxBodyBytes)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.scrub(err)
	}
	return nil
}

func (c *Client) scrub(err error) error {
	if c.scrubber == nil {
		return err
	}
	return &scrubbedError{err: err, scrubber: c.scrubber}
}

func readBounded(r io.Reader, maxBytes int64) ([]byte, bool, error) {
	lim := io.LimitReader(r, maxBytes+1)
	b, err := io.ReadAll(lim)
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > maxBytes {
		return b[:maxBytes], true, nil
	}
	return b, false, nil
}
