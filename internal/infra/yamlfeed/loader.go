package yamlfeed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/ports"
)

type Loader struct {
	feedsDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{feedsDir: "feeds"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithFeedsDir(dir string) Option {
	return func(l *Loader) { l.feedsDir = dir }
}

var _ ports.FeedLoader = (*Loader)(nil)

func (l *Loader) LoadFeed(path string) (domain.FeedSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.FeedSpec{}, &domain.OpError{
			Op:   "yamlfeed.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yf YAMLFeed
	if err := yaml.Unmarshal(b, &yf); err != nil {
		return domain.FeedSpec{}, &domain.OpError{
			Op:   "yamlfeed.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yf)
}

func (l *Loader) ListFeeds(root string) ([]domain.FeedRef, error) {
	dir := filepath.Join(root, l.feedsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlfeed.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.FeedRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readFeedName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.FeedRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func readFeedName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

// YAMLFeed is the on-disk shape of a feed file. Exported so the schema
// generator can reflect it.
type YAMLFeed struct {
	Name  string            `yaml:"name"`
	Query string            `yaml:"query"`
	Vars  map[string]string `yaml:"vars"`

	DaysBack int      `yaml:"days_back"`
	SortBy   string   `yaml:"sort_by"`
	Language string   `yaml:"language"`
	SearchIn []string `yaml:"search_in"`

	Domains        []string `yaml:"domains"`
	ExcludeDomains []string `yaml:"exclude_domains"`

	PageSize int `yaml:"page_size"`
	MaxPages int `yaml:"max_pages"`

	Require []string          `yaml:"require"`
	Extract map[string]string `yaml:"extract"`
}

func mapAndValidate(path string, yf YAMLFeed) (domain.FeedSpec, error) {
	if strings.TrimSpace(yf.Name) == "" {
		return domain.FeedSpec{}, invalidField(path, "name", "feed name is required")
	}
	if strings.TrimSpace(yf.Query) == "" {
		return domain.FeedSpec{}, invalidField(path, "query", "feed query is required")
	}
	if yf.DaysBack < 0 {
		return domain.FeedSpec{}, invalidField(path, "days_back", "must not be negative")
	}
	if yf.PageSize < 0 {
		return domain.FeedSpec{}, invalidField(path, "page_size", "must not be negative")
	}

	sortBy, err := parseSortBy(yf.SortBy)
	if err != nil {
		return domain.FeedSpec{}, invalidField(path, "sort_by", err.Error())
	}

	searchIn, err := parseSearchIn(yf.SearchIn)
	if err != nil {
		return domain.FeedSpec{}, invalidField(path, "search_in", err.Error())
	}

	if lang := strings.TrimSpace(yf.Language); lang != "" && len(lang) != 2 {
		return domain.FeedSpec{}, invalidField(path, "language", fmt.Sprintf("expected a two-letter code, got %q", lang))
	}

	require := make(domain.RequireSpec, 0, len(yf.Require))
	for i, expr := range yf.Require {
		if strings.TrimSpace(expr) == "" {
			return domain.FeedSpec{}, invalidField(path, fmt.Sprintf("require[%d]", i), "expression must not be empty")
		}
		require = append(require, strings.TrimSpace(expr))
	}

	extract := domain.ExtractSpec{}
	for k, expr := range yf.Extract {
		if strings.TrimSpace(k) == "" {
			return domain.FeedSpec{}, invalidField(path, "extract", "key must not be empty")
		}
		if strings.TrimSpace(expr) == "" {
			return domain.FeedSpec{}, invalidField(path, "extract."+k, "expression must not be empty")
		}
		extract[k] = strings.TrimSpace(expr)
	}

	feed := domain.FeedSpec{
		Name:  strings.TrimSpace(yf.Name),
		Query: yf.Query,
		Vars:  domain.Vars(yf.Vars),

		DaysBack: yf.DaysBack,
		SortBy:   sortBy,
		Language: strings.TrimSpace(yf.Language),
		SearchIn: searchIn,

		Domains:        yf.Domains,
		ExcludeDomains: yf.ExcludeDomains,

		PageSize: yf.PageSize,
		MaxPages: yf.MaxPages,

		Require: require,
		Extract: extract,
	}

	if feed.Vars == nil {
		feed.Vars = domain.Vars{}
	}
	// The provider caps page size; clamp rather than fail.
	if feed.PageSize > domain.MaxPageSize {
		feed.PageSize = domain.MaxPageSize
	}
	if feed.MaxPages < 1 {
		feed.MaxPages = 1
	}

	return feed, nil
}

func parseSortBy(s string) (domain.SortOrder, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return domain.SortPublishedAt, nil
	}
	so := domain.SortOrder(trimmed)
	if !so.Valid() {
		return "", fmt.Errorf("unsupported sort order %q", s)
	}
	return so, nil
}

func parseSearchIn(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		lf := strings.ToLower(strings.TrimSpace(f))
		switch lf {
		case domain.SearchInTitle, domain.SearchInDescription, domain.SearchInContent:
			out = append(out, lf)
		default:
			return nil, fmt.Errorf("unsupported field %q", f)
		}
	}
	return out, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlfeed.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
