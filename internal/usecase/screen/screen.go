// Package screen applies feed require rules to article JSON.
package screen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ChristoGH/url-miner/internal/domain"
)

// Result reports whether an article passed the feed's require rules.
type Result struct {
	Keep bool

	// Rule and Reason describe the first rule the article failed.
	Rule   string
	Reason string
}

// Evaluate checks each require expression against the article document.
// Every expression must resolve to a non-empty value for the article to be
// kept; evaluation stops at the first failing rule.
//
// An article whose provider JSON is missing or malformed fails every rule,
// so it is dropped whenever the feed requires anything at all.
func Evaluate(body []byte, rules domain.RequireSpec) Result {
	if len(rules) == 0 {
		return Result{Keep: true}
	}

	doc, err := parseJSON(body)
	if err != nil {
		return Result{
			Keep:   false,
			Rule:   strings.TrimSpace(rules[0]),
			Reason: "article JSON is not valid",
		}
	}

	for _, rule := range rules {
		expr := strings.TrimSpace(rule)

		val, getErr := jsonpath.Get(expr, doc)
		if getErr != nil {
			return Result{
				Keep:   false,
				Rule:   expr,
				Reason: fmt.Sprintf("jsonpath %q: %v", expr, getErr),
			}
		}
		if isEmptyValue(val) {
			return Result{
				Keep:   false,
				Rule:   expr,
				Reason: fmt.Sprintf("jsonpath %q: expected value to exist, got empty", expr),
			}
		}
	}

	return Result{Keep: true}
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
