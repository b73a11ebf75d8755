package domain

import (
	"net/url"
	"strings"
	"time"
)

// Source identifies the publisher of an article.
type Source struct {
	ID   string
	Name string
}

// Article is a single mined news article. The shape follows the provider's
// article object; optional provider fields are empty strings when absent.
type Article struct {
	Source      Source
	Author      string
	Title       string
	Description string
	URL         string
	ImageURL    string
	PublishedAt time.Time
	Content     string

	// Meta holds values extracted by feed rules.
	Meta Vars

	// raw is the provider JSON for this article, kept around so screening
	// and extraction rules can run JSONPath against the original document.
	// It is intentionally unexported: artifacts persist the typed fields.
	raw []byte
}

// SetRaw attaches the provider JSON the article was decoded from.
func (a *Article) SetRaw(b []byte) { a.raw = b }

// Raw returns the provider JSON for this article, or nil.
func (a *Article) Raw() []byte { return a.raw }

// Key returns the article's dedupe key: its URL with the scheme and host
// lowercased and any fragment and trailing slash stripped. Articles with
// unparseable URLs key on the trimmed URL string.
func (a *Article) Key() string {
	s := strings.TrimSpace(a.URL)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
