package usecase

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ChristoGH/url-miner/internal/domain"
)

func namedFeed(name string) domain.FeedSpec {
	feed := testFeed()
	feed.Name = name
	return feed
}

func TestFetchAll_RunsEveryFeedInNameOrder(t *testing.T) {
	loader := fakeFeedLoader{
		refs: []domain.FeedRef{
			{Name: "alpha", Path: "feeds/alpha.yaml"},
			{Name: "beta", Path: "feeds/beta.yaml"},
		},
		feedsByPath: map[string]domain.FeedSpec{
			"feeds/alpha.yaml": namedFeed("alpha"),
			"feeds/beta.yaml":  namedFeed("beta"),
		},
	}
	src := &fakeSource{pages: []domain.SearchPage{
		{TotalResults: 1, Articles: []domain.Article{article("https://example.com/shared", "shared story")}},
	}}
	store := &fakeStore{}

	uc := NewFetchAll(domain.DefaultConfig(), loader, src, store)

	runs, err := uc.Execute(context.Background(), "/ws", nil)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got=%d", len(runs))
	}
	if runs[0].FeedName != "alpha" || runs[1].FeedName != "beta" {
		t.Fatalf("expected name order, got=%s,%s", runs[0].FeedName, runs[1].FeedName)
	}
	if store.count() != 2 {
		t.Fatalf("expected both runs saved, got=%d", store.count())
	}
}

func TestFetchAll_SharesDedupeAcrossFeeds(t *testing.T) {
	loader := fakeFeedLoader{
		refs: []domain.FeedRef{
			{Name: "alpha", Path: "feeds/alpha.yaml"},
			{Name: "beta", Path: "feeds/beta.yaml"},
		},
		feedsByPath: map[string]domain.FeedSpec{
			"feeds/alpha.yaml": namedFeed("alpha"),
			"feeds/beta.yaml":  namedFeed("beta"),
		},
	}
	// Both feeds surface the same story; only one run may keep it.
	src := &fakeSource{pages: []domain.SearchPage{
		{TotalResults: 1, Articles: []domain.Article{article("https://example.com/shared", "shared story")}},
	}}

	uc := NewFetchAll(domain.DefaultConfig(), loader, src, &fakeStore{})

	runs, err := uc.Execute(context.Background(), "/ws", nil)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	kept, dups := 0, 0
	for _, run := range runs {
		kept += run.Stats.Kept
		dups += run.Stats.Duplicates
	}
	if kept != 1 {
		t.Fatalf("expected the story kept once, got=%d", kept)
	}
	if dups != 1 {
		t.Fatalf("expected 1 cross-feed duplicate, got=%d", dups)
	}
}

func TestFetchAll_EmptyWorkspace(t *testing.T) {
	uc := NewFetchAll(domain.DefaultConfig(), fakeFeedLoader{}, &fakeSource{}, &fakeStore{})

	runs, err := uc.Execute(context.Background(), "/ws", nil)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got=%d", len(runs))
	}
}

func TestFetchAll_WrapsFeedFailure(t *testing.T) {
	loader := fakeFeedLoader{
		refs: []domain.FeedRef{
			{Name: "alpha", Path: "feeds/alpha.yaml"},
			{Name: "beta", Path: "feeds/beta.yaml"},
		},
		feedsByPath: map[string]domain.FeedSpec{
			"feeds/alpha.yaml": namedFeed("alpha"),
			// beta.yaml missing on purpose
		},
	}
	src := &fakeSource{pages: []domain.SearchPage{{TotalResults: 0}}}

	cfg := domain.DefaultConfig()
	cfg.Fetch.MaxConcurrent = 1

	uc := NewFetchAll(cfg, loader, src, &fakeStore{})

	_, err := uc.Execute(context.Background(), "/ws", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "feed beta") {
		t.Fatalf("expected failing feed named, got=%v", err)
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got=%v", err)
	}
}

// slowSource records the highest number of concurrent Search calls it saw.
type slowSource struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (s *slowSource) Search(_ context.Context, _ domain.SearchRequest) (domain.SearchPage, error) {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		prev := s.maxSeen.Load()
		if cur <= prev || s.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return domain.SearchPage{}, nil
}

func TestFetchAll_HonorsConcurrencyLimit(t *testing.T) {
	feeds := map[string]domain.FeedSpec{}
	var refs []domain.FeedRef
	for _, name := range []string{"alpha", "beta", "gamma", "delta"} {
		path := "feeds/" + name + ".yaml"
		feeds[path] = namedFeed(name)
		refs = append(refs, domain.FeedRef{Name: name, Path: path})
	}
	loader := fakeFeedLoader{refs: refs, feedsByPath: feeds}

	src := &slowSource{}
	cfg := domain.DefaultConfig()
	cfg.Fetch.MaxConcurrent = 2

	uc := NewFetchAll(cfg, loader, src, &fakeStore{})

	if _, err := uc.Execute(context.Background(), "/ws", nil); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if peak := src.maxSeen.Load(); peak > 2 {
		t.Fatalf("expected at most 2 concurrent fetches, saw %d", peak)
	}
}
