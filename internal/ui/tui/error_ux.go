package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ChristoGH/url-miner/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error into a short line fit for a toast. Details stay
// in the log file.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			if strings.Contains(oe.Op, "yamlfeed") {
				return "Feed not found"
			}
			if strings.Contains(oe.Op, "runstore") {
				return "Run not found"
			}
			if strings.Contains(oe.Op, "workspacefinder.findroot") {
				return "Workspace not found"
			}
			return "Not found"

		case domain.KindMissingCredentials:
			return "NEWS_API_KEY is not set (see .env.example)"

		case domain.KindMissingVar:
			v := extractMissingVarName(err.Error())
			if v == "" {
				return "Missing variable"
			}
			return "Missing variable " + v

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			line := extractLine(err.Error())
			if line != "" {
				return "Invalid YAML at " + base + " line " + line
			}

			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config"

		default:
			return "Unexpected error (see logs)"
		}
	}

	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return fetchErrorMessage(fe)
	}

	if looksLikeYAMLProblem(err.Error()) {
		line := extractLine(err.Error())
		if line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}
	if strings.Contains(strings.ToLower(err.Error()), "missing variable") {
		v := extractMissingVarName(err.Error())
		if v != "" {
			return "Missing variable " + v
		}
		return "Missing variable"
	}

	return "Unexpected error (see logs)"
}

// fetchErrorMessage maps provider failure kinds to one-liners shown after a
// fetch ends early.
func fetchErrorMessage(fe *domain.FetchError) string {
	if fe == nil {
		return ""
	}
	switch fe.Kind {
	case domain.FetchErrorRateLimited:
		return "Provider rate limit hit; partial results kept"
	case domain.FetchErrorAuth:
		return "Provider rejected the API key"
	case domain.FetchErrorTimeout:
		return "Provider timed out"
	case domain.FetchErrorDNS, domain.FetchErrorConn:
		return "Cannot reach the provider"
	default:
		return "Fetch failed (see logs)"
	}
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

func extractMissingVarName(s string) string {
	ls := strings.ToLower(s)

	i := strings.LastIndex(ls, "missing variable:")
	if i >= 0 {
		return firstWord(s[i+len("missing variable:"):])
	}

	i = strings.LastIndex(ls, "missing variable ")
	if i >= 0 {
		return firstWord(s[i+len("missing variable "):])
	}

	return ""
}

func firstWord(s string) string {
	fields := strings.Fields(strings.Trim(strings.TrimSpace(s), " .,:;\"'"))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], " .,:;\"'")
}
