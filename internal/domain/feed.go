package domain

// SortOrder selects how the provider orders search results.
type SortOrder string

const (
	SortPublishedAt SortOrder = "publishedAt"
	SortRelevancy   SortOrder = "relevancy"
	SortPopularity  SortOrder = "popularity"
)

// Valid reports whether s is one of the provider's sort orders.
func (s SortOrder) Valid() bool {
	switch s {
	case SortPublishedAt, SortRelevancy, SortPopularity:
		return true
	}
	return false
}

// Search field names accepted by the provider's searchIn parameter.
const (
	SearchInTitle       = "title"
	SearchInDescription = "description"
	SearchInContent     = "content"
)

// MaxPageSize is the provider's per-page cap on search results.
const MaxPageSize = 100

// RequireSpec lists JSONPath expressions that must resolve on an article's
// provider JSON for the article to be kept.
type RequireSpec []string

// ExtractSpec defines metadata extraction from article JSON.
// Map: metaKey -> jsonpathExpression
type ExtractSpec map[string]string

// FeedSpec describes a named search: what to ask the provider for and which
// screening/extraction rules to apply to each article.
type FeedSpec struct {
	Name string

	// Query is the search expression. It may contain {{var}} placeholders
	// resolved against Vars and the built-ins before each fetch.
	Query string

	// Vars are default variables available to the query template.
	// These can be overridden per invocation.
	Vars Vars

	DaysBack int
	SortBy   SortOrder
	Language string
	SearchIn []string

	Domains        []string
	ExcludeDomains []string

	PageSize int
	MaxPages int

	Require RequireSpec
	Extract ExtractSpec
}

// FeedRef is a lightweight reference to a feed file on disk.
type FeedRef struct {
	Name string
	Path string
}

// SearchRequest is one page of an article search, fully resolved.
type SearchRequest struct {
	Query          string
	SearchIn       []string
	Window         Window
	Language       string
	Domains        []string
	ExcludeDomains []string
	SortBy         SortOrder
	Page           int
	PageSize       int
}

// SearchPage is one page of search results.
type SearchPage struct {
	// TotalResults is the server-reported total across all pages.
	TotalResults int
	Articles     []Article
}
