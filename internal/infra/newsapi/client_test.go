package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChristoGH/url-miner/internal/domain"
)

const okPage = `{
	"status": "ok",
	"totalResults": 1,
	"articles": [
		{
			"source": {"id": null, "name": "Example Times"},
			"author": null,
			"title": "Trafficking ring dismantled",
			"description": "Police report an arrest.",
			"url": "https://example.com/story",
			"urlToImage": null,
			"publishedAt": "2026-08-20T07:15:00Z",
			"content": "Officers said..."
		}
	]
}`

func testRequest() domain.SearchRequest {
	return domain.SearchRequest{
		Query:    "incident of human trafficking",
		Window:   domain.NewWindow(time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), 10),
		Language: "en",
		SortBy:   domain.SortPublishedAt,
		Page:     1,
		PageSize: 100,
	}
}

func TestSearch_BuildsRequest(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okPage))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))

	req := testRequest()
	req.SearchIn = []string{"title", "description"}
	req.Domains = []string{"example.com", "news.example.org"}
	req.ExcludeDomains = []string{"spam.example"}

	page, err := c.Search(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, gotReq)
	assert.Equal(t, "/v2/everything", gotReq.URL.Path)
	assert.Equal(t, "test-key", gotReq.Header.Get("X-Api-Key"))
	assert.True(t, strings.HasPrefix(gotReq.Header.Get("User-Agent"), "url-miner/"))

	q := gotReq.URL.Query()
	assert.Equal(t, "incident of human trafficking", q.Get("q"))
	assert.Equal(t, "title,description", q.Get("searchIn"))
	assert.Equal(t, "2026-08-15", q.Get("from"))
	assert.Equal(t, "2026-08-25", q.Get("to"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "example.com,news.example.org", q.Get("domains"))
	assert.Equal(t, "spam.example", q.Get("excludeDomains"))
	assert.Equal(t, "publishedAt", q.Get("sortBy"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "100", q.Get("pageSize"))

	require.Len(t, page.Articles, 1)
	assert.Equal(t, 1, page.TotalResults)

	a := page.Articles[0]
	assert.Equal(t, "Example Times", a.Source.Name)
	assert.Empty(t, a.Source.ID)
	assert.Empty(t, a.Author)
	assert.Equal(t, "Trafficking ring dismantled", a.Title)
	assert.Equal(t, "https://example.com/story", a.URL)
	assert.Equal(t, time.Date(2026, 8, 20, 7, 15, 0, 0, time.UTC), a.PublishedAt)
	assert.NotEmpty(t, a.Raw())
}

func TestSearch_APIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantKind   domain.FetchErrorKind
	}{
		{
			name:       "invalid key",
			statusCode: http.StatusUnauthorized,
			body:       `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`,
			wantKind:   domain.FetchErrorAuth,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			body:       `{"status":"error","code":"rateLimited","message":"Too many requests."}`,
			wantKind:   domain.FetchErrorRateLimited,
		},
		{
			name:       "bad parameter",
			statusCode: http.StatusBadRequest,
			body:       `{"status":"error","code":"parameterInvalid","message":"The sortBy value is not supported."}`,
			wantKind:   domain.FetchErrorHTTP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New("test-key", WithBaseURL(srv.URL))
			_, err := c.Search(context.Background(), testRequest())
			require.Error(t, err)

			var fe *domain.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantKind, fe.Kind)
			assert.Equal(t, tt.statusCode, fe.StatusCode)
		})
	}
}

func TestSearch_MaxResultsReached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUpgradeRequired)
		_, _ = w.Write([]byte(`{"status":"error","code":"maximumResultsReached","message":"You have requested too many results."}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), testRequest())
	require.ErrorIs(t, err, domain.ErrMaxResults)
}

func TestSearch_ErrorEnvelopeInOKResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited","message":"Too many requests."}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), testRequest())
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.FetchErrorRateLimited, fe.Kind)
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status":"error","code":"unexpectedError","message":"try again"}`))
			return
		}
		_, _ = w.Write([]byte(okPage))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL), WithMaxRetries(3), WithRetryInterval(time.Millisecond))
	page, err := c.Search(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, page.Articles, 1)
}

func TestSearch_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","code":"parameterInvalid","message":"bad request"}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL), WithMaxRetries(3), WithRetryInterval(time.Millisecond))
	_, err := c.Search(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMapArticle_OptionalFields(t *testing.T) {
	raw := json.RawMessage(`{
		"source": {"id": "bbc-news", "name": "BBC News"},
		"title": "Headline",
		"url": "https://bbc.example/story",
		"publishedAt": "not-a-timestamp"
	}`)

	a, err := mapArticle(raw)
	require.NoError(t, err)
	assert.Equal(t, "bbc-news", a.Source.ID)
	assert.Empty(t, a.Author)
	assert.Empty(t, a.Content)
	assert.True(t, a.PublishedAt.IsZero())
	assert.JSONEq(t, string(raw), string(a.Raw()))
}

func TestScrubbedError(t *testing.T) {
	inner := errors.New("request failed: key=sekret")
	err := &scrubbedError{err: inner, scrubber: strings.NewReplacer("sekret", "********")}

	assert.NotContains(t, err.Error(), "sekret")
	assert.ErrorIs(t, err, inner)
}
