package ports

import (
	"context"

	"github.com/ChristoGH/url-miner/internal/domain"
)

// ArticleSource searches a news provider. One call fetches one page.
type ArticleSource interface {
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchPage, error)
}
