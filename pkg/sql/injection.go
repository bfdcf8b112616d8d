package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// HintCheckResult describes an injection pattern detected in a
// model-supplied SQL hint.
type HintCheckResult struct {
	IsSQLi      bool   // True if a SQL injection pattern was detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Fragment    string // The fragment that triggered the detection
}

// CheckHint screens free-text SQL hints extracted from a language-model
// response before they are merged into a statement. The hint itself is SQL,
// so the whole string is not a useful input to libinjection; instead the
// string literals inside the hint are checked, since that is where smuggled
// second statements and comment tricks end up.
//
// Returns nil when the hint is clean.
func CheckHint(hint string) *HintCheckResult {
	for _, lit := range stringLiterals(hint) {
		if isSQLi, fingerprint := libinjection.IsSQLi(lit); isSQLi {
			return &HintCheckResult{
				IsSQLi:      true,
				Fingerprint: string(fingerprint),
				Fragment:    lit,
			}
		}
	}
	return nil
}

// stringLiterals extracts the contents of single-quoted literals from a SQL
// fragment. SQL standard doubled quotes ('') are treated as an escaped
// quote within the literal.
func stringLiterals(s string) []string {
	var literals []string
	var current []byte
	inString := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			if c == '\'' {
				inString = true
				current = current[:0]
			}
			continue
		}
		if c == '\'' {
			if i+1 < len(s) && s[i+1] == '\'' {
				current = append(current, '\'')
				i++
				continue
			}
			inString = false
			literals = append(literals, string(current))
			continue
		}
		current = append(current, c)
	}

	return literals
}
