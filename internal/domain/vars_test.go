package domain

import "testing"

func TestMerge_OverrideWins(t *testing.T) {
	base := Vars{"topic": "trafficking", "lang": "en"}
	override := Vars{"lang": "es"}

	got := Merge(base, override)
	if got["topic"] != "trafficking" {
		t.Fatalf("expected base key kept, got %q", got["topic"])
	}
	if got["lang"] != "es" {
		t.Fatalf("expected override to win, got %q", got["lang"])
	}

	// Merge must not mutate its inputs.
	if base["lang"] != "en" {
		t.Fatalf("expected base untouched, got %q", base["lang"])
	}
}

func TestGet_NilMap(t *testing.T) {
	if _, ok := Get(nil, "topic"); ok {
		t.Fatalf("expected miss on nil map")
	}
}

func TestSet_InitializesNilMap(t *testing.T) {
	got := Set(nil, "topic", "trafficking")
	if got["topic"] != "trafficking" {
		t.Fatalf("expected value set, got %q", got["topic"])
	}
}
