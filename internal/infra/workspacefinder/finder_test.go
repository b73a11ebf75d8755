package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ChristoGH/url-miner/internal/domain"
)

func TestFindRoot_FindsWorkspaceFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	nested := filepath.Join(root, "feeds", "archive")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "url-miner.yaml"), []byte("url-miner:\n  defaults:\n    feed: trafficking\n"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	f := NewFinder()
	got, err := f.FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}

func TestFindRoot_AcceptsFilePath(t *testing.T) {
	tmp := t.TempDir()
	feedPath := filepath.Join(tmp, "feeds", "trafficking.yaml")
	if err := os.MkdirAll(filepath.Dir(feedPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(feedPath, []byte("name: trafficking\n"), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "url-miner.yaml"), []byte("url-miner: {}\n"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	got, err := NewFinder().FindRoot(feedPath)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != tmp {
		t.Fatalf("expected root=%s, got=%s", tmp, got)
	}
}

func TestFindRoot_NotFound(t *testing.T) {
	tmp := t.TempDir()
	_ = os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755)

	_, err := NewFinder().FindRoot(filepath.Join(tmp, "a", "b"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestFindRoot_EmptyStartDir(t *testing.T) {
	_, err := NewFinder().FindRoot("")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}
