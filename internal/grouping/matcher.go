// Package grouping resolves free-text hub, round and driver names into
// operational categories (depot, store, carrier) using ordered keyword rules.
package grouping

import "strings"

// MatchMode selects how a rule keyword is compared against the candidate.
type MatchMode string

const (
	ModeContains   MatchMode = "contains"
	ModeStartsWith MatchMode = "startsWith"
)

// Unknown is the fallback label applied when no rule matches.
const Unknown = "Inconnu"

// KeywordRule is any ordered rule carrying a keyword set.
type KeywordRule interface {
	MatchKeywords() []string
}

// MatchFirst evaluates rules in slice order and returns the first rule where
// any keyword matches the candidate, case-insensitively. Order is the only
// tie-break: operators control precedence by reordering configuration, so no
// scoring or longest-match preference is applied. An empty candidate never
// matches.
func MatchFirst[R KeywordRule](rules []R, candidate string, mode MatchMode) (R, bool) {
	var zero R
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if candidate == "" {
		return zero, false
	}

	for _, rule := range rules {
		for _, kw := range rule.MatchKeywords() {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if matches(candidate, kw, mode) {
				return rule, true
			}
		}
	}
	return zero, false
}

func matches(candidate, keyword string, mode MatchMode) bool {
	if mode == ModeStartsWith {
		return strings.HasPrefix(candidate, keyword)
	}
	return strings.Contains(candidate, keyword)
}
