package usecase

import (
	"context"
	"fmt"

	"github.com/go4org/hashtriemap"
	"golang.org/x/sync/errgroup"

	"github.com/ChristoGH/url-miner/internal/domain"
	"github.com/ChristoGH/url-miner/internal/ports"
)

type FetchAll struct {
	cfg    domain.Config
	feeds  ports.FeedLoader
	source ports.ArticleSource
	store  ports.ArtifactStore

	opts []FetchFeedOption
}

func NewFetchAll(cfg domain.Config, fl ports.FeedLoader, src ports.ArticleSource, store ports.ArtifactStore, opts ...FetchFeedOption) *FetchAll {
	return &FetchAll{
		cfg:    cfg,
		feeds:  fl,
		source: src,
		store:  store,
		opts:   opts,
	}
}

// Execute fetches every feed under root with bounded concurrency. All
// fetches share one dedupe set, so an article kept by one feed counts as a
// duplicate in the others. Results come back in feed name order.
func (uc *FetchAll) Execute(ctx context.Context, root string, overrides domain.Vars) ([]domain.FetchArtifact, error) {
	refs, err := uc.feeds.ListFeeds(root)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []domain.FetchArtifact{}, nil
	}

	limit := uc.cfg.Fetch.MaxConcurrent
	if limit < 1 {
		limit = 1
	}

	var seen hashtriemap.HashTrieMap[string, string]

	// ListFeeds sorts by name; results holds that order.
	results := make([]domain.FetchArtifact, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, ref := range refs {
		g.Go(func() error {
			opts := append([]FetchFeedOption{WithSeen(&seen)}, uc.opts...)
			ff := NewFetchFeed(uc.cfg, uc.feeds, uc.source, uc.store, opts...)

			run, err := ff.Execute(gctx, ref.Path, overrides)
			if err != nil {
				return fmt.Errorf("feed %s: %w", ref.Name, err)
			}
			results[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
