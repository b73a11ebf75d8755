package newsapi

import (
	"encoding/json"
	"time"

	"github.com/ChristoGH/url-miner/internal/domain"
)

// searchResponse is the provider's envelope for /v2/everything.
// Articles stay raw so screening rules can see the original documents.
type searchResponse struct {
	Status       string            `json:"status"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	TotalResults int               `json:"totalResults"`
	Articles     []json.RawMessage `json:"articles"`
}

// wireArticle mirrors the provider's article object. Optional fields are
// pointers because the provider sends explicit nulls.
type wireArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

func mapArticle(raw json.RawMessage) (domain.Article, error) {
	var w wireArticle
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.Article{}, err
	}

	a := domain.Article{
		Source: domain.Source{
			ID:   deref(w.Source.ID),
			Name: w.Source.Name,
		},
		Author:      deref(w.Author),
		Title:       w.Title,
		Description: deref(w.Description),
		URL:         w.URL,
		ImageURL:    deref(w.URLToImage),
		Content:     deref(w.Content),
	}

	// A malformed timestamp is not worth dropping the article over; it
	// stays zero and screening rules can still require $.publishedAt.
	if t, err := time.Parse(time.RFC3339, w.PublishedAt); err == nil {
		a.PublishedAt = t.UTC()
	}

	a.SetRaw(raw)
	return a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
