package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/ports"
	ucextract "github.com/ChristoGH/url-miner/internal/usecase/extract"
	ucscreen "github.com/ChristoGH/url-miner/internal/usecase/screen"
)

// KeySet tracks which article keys have been kept already. A fetch --all
// run shares one set across feeds, so implementations used there must be
// safe for concurrent use.
type KeySet interface {
	LoadOrStore(key, owner string) (actual string, loaded bool)
}

// mapSet is the single-fetch KeySet. Not safe for concurrent use.
type mapSet map[string]string

func (m mapSet) LoadOrStore(key, owner string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	m[key] = owner
	return owner, false
}

type FetchFeed struct {
	cfg    domain.Config
	feeds  ports.FeedLoader
	source ports.ArticleSource
	store  ports.ArtifactStore // nil skips persistence

	now   func() time.Time
	newID func() string
	seen  KeySet
}

type FetchFeedOption func(*FetchFeed)

// WithClock overrides the clock (useful for tests).
func WithClock(now func() time.Time) FetchFeedOption {
	return func(uc *FetchFeed) { uc.now = now }
}

// WithRunID overrides run id generation (useful for tests).
func WithRunID(newID func() string) FetchFeedOption {
	return func(uc *FetchFeed) { uc.newID = newID }
}

// WithSeen shares a dedupe set across fetches.
func WithSeen(seen KeySet) FetchFeedOption {
	return func(uc *FetchFeed) { uc.seen = seen }
}

func NewFetchFeed(cfg domain.Config, fl ports.FeedLoader, src ports.ArticleSource, store ports.ArtifactStore, opts ...FetchFeedOption) *FetchFeed {
	uc := &FetchFeed{
		cfg:    cfg,
		feeds:  fl,
		source: src,
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute loads the feed at feedPath, pages through the provider and
// assembles the run artifact. Provider failures end the paging but land in
// the artifact's Error field rather than the error return, which is
// reserved for load/resolve/save problems and context cancellation.
// overrides take precedence over the feed's own vars.
func (uc *FetchFeed) Execute(ctx context.Context, feedPath string, overrides domain.Vars) (domain.FetchArtifact, error) {
	feed, err := uc.feeds.LoadFeed(feedPath)
	if err != nil {
		return domain.FetchArtifact{}, err
	}
	uc.applyDefaults(&feed)

	started := uc.now().UTC()

	resolver := domain.NewVarResolver(domain.WithNow(func() time.Time { return started }))
	rt := resolver.NewRuntime(domain.Merge(feed.Vars, overrides))
	query, err := rt.ResolveQuery(feed)
	if err != nil {
		return domain.FetchArtifact{}, err
	}

	run := domain.FetchArtifact{
		RunID:     uc.newID(),
		FeedName:  feed.Name,
		FeedPath:  feedPath,
		Query:     query,
		SortBy:    feed.SortBy,
		Window:    domain.NewWindow(started, feed.DaysBack),
		StartedAt: started,
		Articles:  []domain.Article{},
		Dropped:   []domain.DropReport{},
	}

	seen := uc.seen
	if seen == nil {
		seen = mapSet{}
	}

	pageErr := uc.fetchPages(ctx, feed, query, seen, &run)

	run.FinishedAt = uc.now().UTC()
	run.Stats.Kept = len(run.Articles)
	run.Stats.Dropped = len(run.Dropped)

	// A canceled fetch is not worth an artifact on disk.
	if pageErr != nil {
		return run, pageErr
	}

	if uc.store != nil {
		if _, err := uc.store.SaveRun(run); err != nil {
			return run, err
		}
	}

	return run, nil
}

// fetchPages pages forward until MaxPages, the server's last page, a
// provider failure or cancellation. Only cancellation is returned as an
// error; provider failures are recorded on the artifact.
func (uc *FetchFeed) fetchPages(ctx context.Context, feed domain.FeedSpec, query string, seen KeySet, run *domain.FetchArtifact) error {
	req := domain.SearchRequest{
		Query:          query,
		SearchIn:       feed.SearchIn,
		Window:         run.Window,
		Language:       feed.Language,
		Domains:        feed.Domains,
		ExcludeDomains: feed.ExcludeDomains,
		SortBy:         feed.SortBy,
		PageSize:       feed.PageSize,
	}

	maxPages := feed.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		req.Page = page
		res, err := uc.source.Search(ctx, req)
		if err != nil {
			if errors.Is(err, domain.ErrMaxResults) {
				// The plan refuses deeper pages; what we have is complete.
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			run.Error = domain.NewFetchError(err)
			return nil
		}

		run.PagesFetched++
		run.TotalResults = res.TotalResults

		for i := range res.Articles {
			a := res.Articles[i]
			run.Stats.Fetched++

			if sr := ucscreen.Evaluate(a.Raw(), feed.Require); !sr.Keep {
				run.Dropped = append(run.Dropped, domain.DropReport{
					URL:    a.URL,
					Title:  a.Title,
					Rule:   sr.Rule,
					Reason: sr.Reason,
				})
				continue
			}

			if _, dup := seen.LoadOrStore(a.Key(), feed.Name); dup {
				run.Stats.Duplicates++
				continue
			}

			meta, _ := ucextract.Apply(a.Raw(), feed.Extract)
			a.Meta = meta
			run.Articles = append(run.Articles, a)
		}

		// The server has no deeper pages to give us.
		if len(res.Articles) < req.PageSize || run.Stats.Fetched >= res.TotalResults {
			return nil
		}
	}

	return nil
}

func (uc *FetchFeed) applyDefaults(feed *domain.FeedSpec) {
	if feed.DaysBack == 0 {
		feed.DaysBack = uc.cfg.Defaults.DaysBack
	}
	if feed.PageSize == 0 {
		feed.PageSize = uc.cfg.Defaults.PageSize
	}
	if feed.PageSize < 1 {
		feed.PageSize = domain.MaxPageSize
	}
	if feed.Language == "" {
		feed.Language = uc.cfg.Defaults.Language
	}
}
