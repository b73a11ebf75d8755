package ports

import "github.com/ChristoGH/url-miner/internal/domain"

// FeedLoader loads feed definitions from a source (e.g., filesystem).
type FeedLoader interface {
	LoadFeed(path string) (domain.FeedSpec, error)
	ListFeeds(root string) ([]domain.FeedRef, error)
}
