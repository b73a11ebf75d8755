// Package extract pulls feed-defined metadata out of article JSON.
package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ChristoGH/url-miner/internal/domain"
)

// Apply evaluates extraction rules against an article document.
// rules: map[metaKey]jsonPathExpr
//
// Policy:
// - If the document is not JSON -> every rule fails (nothing extracted).
// - If a rule fails -> it is reported in the failure list; other rules
//   still run.
func Apply(body []byte, rules domain.ExtractSpec) (domain.Vars, []string) {
	if len(rules) == 0 {
		return domain.Vars{}, nil
	}

	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys) // stable output for tests/UI

	doc, err := parseJSON(body)
	if err != nil {
		failures := make([]string, 0, len(keys))
		for _, name := range keys {
			expr := strings.TrimSpace(rules[name])
			failures = append(failures, fmt.Sprintf("extract %q (%s): article JSON is not valid", name, expr))
		}
		return domain.Vars{}, failures
	}

	extracted := domain.Vars{}
	var failures []string

	for _, name := range keys {
		expr := strings.TrimSpace(rules[name])

		val, getErr := jsonpath.Get(expr, doc)
		if getErr != nil {
			failures = append(failures, fmt.Sprintf("extract %q (%s): %v", name, expr, getErr))
			continue
		}

		if isEmptyValue(val) {
			failures = append(failures, fmt.Sprintf("extract %q (%s): no value found", name, expr))
			continue
		}

		s, convErr := toString(val)
		if convErr != nil {
			failures = append(failures, fmt.Sprintf("extract %q (%s): cannot convert value to string: %v", name, expr, convErr))
			continue
		}

		extracted[name] = s
	}

	return extracted, failures
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

func toString(v any) (string, error) {
	// Common case: jsonpath returns a slice with 1 element
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return "", fmt.Errorf("empty array")
		}
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool, int, int64, uint64:
		return fmt.Sprint(t), nil
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(t), nil
	}
}
