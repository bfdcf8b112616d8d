// Package sql provides the safety post-processing applied to every
// statement the pipeline executes, regardless of which path produced it.
package sql

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultRowLimit is appended to statements that carry no LIMIT of their own.
const DefaultRowLimit = 1000

var (
	limitPattern     = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)
	codeFencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n?(.*?)\n?```$")
)

// PostProcess applies the defensive transformations every statement gets
// before execution: strip wrapping backticks, force a SELECT prefix by
// wrapping anything else as a subquery, and append a row cap when none is
// present. The pass is idempotent: applying it twice is a no-op.
func PostProcess(stmt string) string {
	s := StripBackticks(stmt)
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	if !startsWithSelect(s) {
		s = fmt.Sprintf("SELECT * FROM (%s) AS query", s)
	}

	if !limitPattern.MatchString(s) {
		s = s + fmt.Sprintf(" LIMIT %d", DefaultRowLimit)
	}

	return s
}

// StripBackticks removes a wrapping markdown code fence or plain backtick
// quoting from a statement.
func StripBackticks(stmt string) string {
	s := strings.TrimSpace(stmt)

	if m := codeFencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}

	for strings.HasPrefix(s, "`") && strings.HasSuffix(s, "`") && len(s) >= 2 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	return s
}

func startsWithSelect(stmt string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(stmt)), "SELECT")
}
