package usecase

import (
	"fmt"
	"strings"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/ports"
	ucextract "github.com/ChristoGH/url-miner/internal/usecase/extract"
	ucscreen "github.com/ChristoGH/url-miner/internal/usecase/screen"
)

// probeArticle is a fully populated provider article. Require and extract
// rules are expected to resolve against it; a rule that cannot will never
// match real responses either.
const probeArticle = `{
	"source": {"id": "example", "name": "Example Times"},
	"author": "A. Reporter",
	"title": "Example headline",
	"description": "Example description",
	"url": "https://example.com/story",
	"urlToImage": "https://example.com/story.jpg",
	"publishedAt": "2026-01-02T03:04:05Z",
	"content": "Example content"
}`

type ValidateFeed struct {
	feeds    ports.FeedLoader
	resolver *domain.VarResolver
}

type ValidateOption func(*ValidateFeed)

func WithVarResolver(vr *domain.VarResolver) ValidateOption {
	return func(uc *ValidateFeed) {
		if vr != nil {
			uc.resolver = vr
		}
	}
}

func NewValidateFeed(fl ports.FeedLoader, opts ...ValidateOption) *ValidateFeed {
	uc := &ValidateFeed{
		feeds:    fl,
		resolver: domain.NewVarResolver(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute validates a feed without talking to the provider. It resolves the
// query template with the feed's own vars and checks that every require and
// extract rule resolves against a standard article document.
func (uc *ValidateFeed) Execute(feedPath string) error {
	feed, err := uc.feeds.LoadFeed(feedPath)
	if err != nil {
		return err
	}

	rt := uc.resolver.NewRuntime(feed.Vars)
	if _, err := rt.ResolveQuery(feed); err != nil {
		return err
	}

	if sr := ucscreen.Evaluate([]byte(probeArticle), feed.Require); !sr.Keep {
		return &domain.OpError{
			Op:   "validate.require",
			Kind: domain.KindInvalidConfig,
			Path: feedPath,
			Err:  fmt.Errorf("rule %q does not resolve against an article: %s", sr.Rule, sr.Reason),
		}
	}

	if _, failures := ucextract.Apply([]byte(probeArticle), feed.Extract); len(failures) > 0 {
		return &domain.OpError{
			Op:   "validate.extract",
			Kind: domain.KindInvalidConfig,
			Path: feedPath,
			Err:  fmt.Errorf("extract rules do not resolve against an article: %s", strings.Join(failures, "; ")),
		}
	}

	return nil
}
