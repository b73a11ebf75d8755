package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChristoGH/url-miner/internal/domain"
)

func storeConfig(masking bool) domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Paths.RunsDir = "runs"
	cfg.Masking.Enabled = masking
	return cfg
}

func TestSaveRun_CreatesJSONFile(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, storeConfig(false))

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	run := domain.FetchArtifact{
		FeedName:     "Trafficking Watch",
		FeedPath:     "feeds/trafficking.yaml",
		Query:        `"incident of human trafficking"`,
		StartedAt:    start,
		FinishedAt:   start.Add(2 * time.Second),
		PagesFetched: 1,
		TotalResults: 42,
		Articles: []domain.Article{
			{
				Source:      domain.Source{Name: "Example Times"},
				Title:       "Arrests made",
				URL:         "https://example.com/a",
				PublishedAt: start.Add(-24 * time.Hour),
			},
		},
		Stats: domain.FetchStats{Fetched: 1, Kept: 1},
	}

	id, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if id != "20260203T101112Z_trafficking-watch" {
		t.Fatalf("unexpected id: %q", id)
	}

	wantFile := filepath.Join(tmp, "runs", "20260203T101112Z_trafficking-watch.json")
	b, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var decoded domain.FetchArtifact
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.FeedName != "Trafficking Watch" {
		t.Fatalf("expected feed name, got=%q", decoded.FeedName)
	}
	if decoded.RunID != id {
		t.Fatalf("expected RunID=%q inside artifact, got=%q", id, decoded.RunID)
	}
	if len(decoded.Articles) != 1 {
		t.Fatalf("expected 1 article, got=%d", len(decoded.Articles))
	}
	if decoded.TotalResults != 42 {
		t.Fatalf("expected total=42, got=%d", decoded.TotalResults)
	}
}

func TestSaveRun_KeepsCallerRunID(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, storeConfig(false))

	run := domain.FetchArtifact{
		RunID:     "3f2a9c1e",
		FeedName:  "demo",
		StartedAt: time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC),
	}

	id, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if id != "3f2a9c1e" {
		t.Fatalf("expected caller id back, got=%q", id)
	}
}

func TestSaveRun_MasksSensitiveMetaWhenEnabled(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, storeConfig(true))

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	run := domain.FetchArtifact{
		FeedName:  "Mask Demo",
		StartedAt: start,
		Articles: []domain.Article{
			{
				URL: "https://example.com/a",
				Meta: domain.Vars{
					"source_token": "abc123",
					"db_password":  "p@ss",
					"region":       "za",
				},
			},
		},
	}

	// Ensure we do NOT mutate the original run.
	origToken := run.Articles[0].Meta["source_token"]

	if _, err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if run.Articles[0].Meta["source_token"] != origToken {
		t.Fatalf("expected original run not mutated")
	}

	b, err := os.ReadFile(filepath.Join(tmp, "runs", "20260203T101112Z_mask-demo.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var decoded domain.FetchArtifact
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := decoded.Articles[0].Meta
	if got["source_token"] != maskValue {
		t.Fatalf("expected source_token masked, got=%q", got["source_token"])
	}
	if got["db_password"] != maskValue {
		t.Fatalf("expected db_password masked, got=%q", got["db_password"])
	}
	if got["region"] != "za" {
		t.Fatalf("expected region preserved, got=%q", got["region"])
	}
}

func TestSaveRun_UsesUniqueFilenameOnCollision(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, storeConfig(false))

	run := domain.FetchArtifact{
		FeedName:  "demo",
		StartedAt: time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC),
	}

	id1, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun #1 error: %v", err)
	}
	id2, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun #2 error: %v", err)
	}

	if id1 == id2 {
		t.Fatalf("expected unique ids, got %q twice", id1)
	}
	if id2 != id1+"_2" {
		t.Fatalf("expected second id %q, got %q", id1+"_2", id2)
	}
	for _, id := range []string{id1, id2} {
		if _, err := os.Stat(filepath.Join(tmp, "runs", id+".json")); err != nil {
			t.Fatalf("expected file for %s, stat err=%v", id, err)
		}
	}
}

func TestListRuns_NewestFirstAndLimit(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, storeConfig(false))

	base := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"alpha", "beta", "gamma"} {
		run := domain.FetchArtifact{
			FeedName:  name,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Stats:     domain.FetchStats{Kept: i},
		}
		if name == "gamma" {
			run.Error = &domain.FetchError{Kind: domain.FetchErrorRateLimited, Message: "slow down"}
		}
		if _, err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun %s: %v", name, err)
		}
	}

	all, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got=%d", len(all))
	}
	if all[0].FeedName != "gamma" || all[2].FeedName != "alpha" {
		t.Fatalf("expected newest first, got %q..%q", all[0].FeedName, all[2].FeedName)
	}
	if all[0].ErrorKind != "rate_limited" {
		t.Fatalf("expected error kind recorded, got=%q", all[0].ErrorKind)
	}
	if all[1].Kept != 1 {
		t.Fatalf("expected kept count in summary, got=%d", all[1].Kept)
	}

	two, err := store.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2) error: %v", err)
	}
	if len(two) != 2 || two[0].FeedName != "gamma" {
		t.Fatalf("expected limited newest runs, got=%+v", two)
	}
}

func TestListRuns_ScansWhenIndexMissing(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, storeConfig(false), WithIndex(false))

	base := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"alpha", "beta"} {
		run := domain.FetchArtifact{FeedName: name, StartedAt: base.Add(time.Duration(i) * time.Minute)}
		if _, err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun %s: %v", name, err)
		}
	}

	got, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs from scan, got=%d", len(got))
	}
	if got[0].FeedName != "beta" {
		t.Fatalf("expected newest first from scan, got=%q", got[0].FeedName)
	}
}

func TestListRuns_EmptyWorkspace(t *testing.T) {
	store := NewJSONStore(t.TempDir(), storeConfig(false))

	got, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no runs, got=%d", len(got))
	}
}

func TestLoadRun_ByIDPrefixAndErrors(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, storeConfig(false))

	base := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	seed := []struct{ id, feed string }{
		{"aaa111", "alpha"},
		{"aab222", "beta"},
	}
	for i, sr := range seed {
		run := domain.FetchArtifact{
			RunID:     sr.id,
			FeedName:  sr.feed,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Articles:  []domain.Article{{URL: "https://example.com/" + sr.feed}},
		}
		if _, err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun %s: %v", sr.id, err)
		}
	}

	got, err := store.LoadRun("aaa111")
	if err != nil {
		t.Fatalf("LoadRun exact: %v", err)
	}
	if got.FeedName != "alpha" || len(got.Articles) != 1 {
		t.Fatalf("unexpected artifact: %+v", got)
	}

	got, err = store.LoadRun("aab")
	if err != nil {
		t.Fatalf("LoadRun prefix: %v", err)
	}
	if got.FeedName != "beta" {
		t.Fatalf("expected beta via prefix, got=%q", got.FeedName)
	}

	if _, err := store.LoadRun("aa"); err == nil {
		t.Fatalf("expected ambiguous prefix to fail")
	}

	_, err = store.LoadRun("zzz")
	if err == nil {
		t.Fatalf("expected missing run to fail")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got=%v", err)
	}
}
