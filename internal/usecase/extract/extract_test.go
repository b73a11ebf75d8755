package extract

import (
	"strings"
	"testing"

	"github.com/ChristoGH/url-miner/internal/domain"
)

func TestApply_EmptyRules(t *testing.T) {
	vars, failures := Apply([]byte(`{"title":"x"}`), domain.ExtractSpec{})
	if len(vars) != 0 {
		t.Fatalf("expected empty vars, got %v", vars)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
}

func TestApply_Success(t *testing.T) {
	body := []byte(`{"source":{"id":"bbc-news","name":"BBC News"},"title":"Arrests made"}`)
	rules := domain.ExtractSpec{
		"source_name": "$.source.name",
		"source_id":   "$.source.id",
	}

	vars, failures := Apply(body, rules)

	if vars["source_name"] != "BBC News" {
		t.Fatalf("expected source_name, got=%q", vars["source_name"])
	}
	if vars["source_id"] != "bbc-news" {
		t.Fatalf("expected source_id, got=%q", vars["source_id"])
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got=%v", failures)
	}
}

func TestApply_NumberAndBoolValues(t *testing.T) {
	body := []byte(`{"rank":3,"verified":true}`)
	vars, failures := Apply(body, domain.ExtractSpec{
		"rank":     "$.rank",
		"verified": "$.verified",
	})

	if len(failures) != 0 {
		t.Fatalf("expected no failures, got=%v", failures)
	}
	if vars["rank"] != "3" {
		t.Fatalf("expected rank=3, got=%q", vars["rank"])
	}
	if vars["verified"] != "true" {
		t.Fatalf("expected verified=true, got=%q", vars["verified"])
	}
}

func TestApply_NonJSONBody_FailsAll(t *testing.T) {
	vars, failures := Apply([]byte("hello"), domain.ExtractSpec{
		"source_name": "$.source.name",
		"title":       "$.title",
	})

	if len(vars) != 0 {
		t.Fatalf("expected no vars, got=%v", vars)
	}
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got=%d", len(failures))
	}
	// Failure list follows sorted key order.
	if !strings.Contains(failures[0], `"source_name"`) {
		t.Fatalf("expected source_name first, got=%q", failures[0])
	}
}

func TestApply_MissingPathFailsOthersStillRun(t *testing.T) {
	body := []byte(`{"title":"Arrests made"}`)
	vars, failures := Apply(body, domain.ExtractSpec{
		"title":  "$.title",
		"author": "$.author",
	})

	if vars["title"] != "Arrests made" {
		t.Fatalf("expected title extracted, got=%v", vars)
	}
	if _, ok := vars["author"]; ok {
		t.Fatalf("expected author absent, got=%v", vars)
	}
	if len(failures) != 1 || !strings.Contains(failures[0], `"author"`) {
		t.Fatalf("expected author failure, got=%v", failures)
	}
}

func TestApply_ObjectValueMarshaled(t *testing.T) {
	body := []byte(`{"source":{"id":"bbc-news","name":"BBC News"}}`)
	vars, failures := Apply(body, domain.ExtractSpec{"source": "$.source"})

	if len(failures) != 0 {
		t.Fatalf("expected no failures, got=%v", failures)
	}
	got := vars["source"]
	if !strings.Contains(got, `"name":"BBC News"`) {
		t.Fatalf("expected marshaled object, got=%q", got)
	}
}
