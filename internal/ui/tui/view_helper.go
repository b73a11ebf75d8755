package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ChristoGH/url-miner/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func prettyBody(body []byte) string {
	if len(body) == 0 {
		return "(empty)"
	}
	var js any
	if err := json.Unmarshal(body, &js); err == nil {
		b, _ := json.MarshalIndent(js, "", "  ")
		return string(b)
	}
	return string(bytes.TrimSpace(body))
}

func renderRunSummary(run domain.FetchArtifact) string {
	var b strings.Builder

	b.WriteString("Feed: ")
	b.WriteString(run.FeedName)
	b.WriteString("\nQuery: ")
	b.WriteString(run.Query)
	b.WriteString(fmt.Sprintf("\nWindow: %s .. %s\n", run.Window.FromParam(), run.Window.ToParam()))
	b.WriteString(fmt.Sprintf("Pages: %d (%d result(s) reported)\n", run.PagesFetched, run.TotalResults))
	b.WriteString(fmt.Sprintf("Kept: %d  Dropped: %d  Duplicates: %d\n",
		run.Stats.Kept, run.Stats.Dropped, run.Stats.Duplicates))

	if run.Error != nil {
		b.WriteString("\nError:\n")
		b.WriteString("  - kind: ")
		b.WriteString(string(run.Error.Kind))
		b.WriteString("\n  - msg: ")
		b.WriteString(run.Error.Message)
		b.WriteString("\n")
	}

	if len(run.Dropped) > 0 {
		b.WriteString("\nDropped:\n")
		for _, d := range run.Dropped {
			title := d.Title
			if title == "" {
				title = d.URL
			}
			b.WriteString("  - ")
			b.WriteString(clampString(title, 60))
			b.WriteString(" [")
			b.WriteString(d.Rule)
			b.WriteString("] ")
			b.WriteString(d.Reason)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderArticleDetails(a domain.Article) string {
	var b strings.Builder

	title := a.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	if a.Source.Name != "" {
		b.WriteString("Source: ")
		b.WriteString(a.Source.Name)
		b.WriteString("\n")
	}
	if a.Author != "" {
		b.WriteString("Author: ")
		b.WriteString(a.Author)
		b.WriteString("\n")
	}
	if !a.PublishedAt.IsZero() {
		b.WriteString("Published: ")
		b.WriteString(a.PublishedAt.UTC().Format(time.RFC3339))
		b.WriteString("\n")
	}
	b.WriteString("URL: ")
	b.WriteString(a.URL)
	b.WriteString("\n")

	if len(a.Meta) > 0 {
		b.WriteString("\nExtracted:\n")
		keys := make([]string, 0, len(a.Meta))
		for k := range a.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("  - ")
			b.WriteString(k)
			b.WriteString(" = ")
			b.WriteString(a.Meta[k])
			b.WriteString("\n")
		}
	}

	if a.Description != "" {
		b.WriteString("\n")
		b.WriteString(a.Description)
		b.WriteString("\n")
	}

	if raw := a.Raw(); len(raw) > 0 {
		b.WriteString("\nProvider JSON:\n")
		b.WriteString(prettyBody(raw))
		b.WriteString("\n")
	}

	return b.String()
}
