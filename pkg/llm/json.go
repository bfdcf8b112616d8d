package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/atlantix-inc/insight-engine/pkg/apperrors"
)

// jsonFencePattern matches a fenced ```json code block in a model response.
var jsonFencePattern = regexp.MustCompile("(?s)```json\\s*\n?(.*?)```")

// sqlFencePattern matches a fenced ```sql code block in a model response.
var sqlFencePattern = regexp.MustCompile("(?s)```sql\\s*\n?(.*?)```")

// ExtractJSON locates a JSON object in a model response: first by scanning
// for a fenced ```json code block, then by a balanced-brace scan from the
// first '{'. Returns apperrors.ErrNoJSON when neither yields valid JSON.
func ExtractJSON(response string) (string, error) {
	if m := jsonFencePattern.FindStringSubmatch(response); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	if jsonStr, ok := extractBalancedJSON(response, '{', '}'); ok {
		if json.Valid([]byte(jsonStr)) {
			return jsonStr, nil
		}
	}

	return "", apperrors.ErrNoJSON
}

// ExtractObject parses the JSON payload of a model response into a map.
// When no JSON object can be located, the whole raw text is returned under
// the "content" key rather than failing.
func ExtractObject(response string) map[string]any {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return map[string]any{"content": response}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &obj); err != nil {
		return map[string]any{"content": response}
	}
	return obj
}

// ExtractSQLHint pulls a SQL fragment out of a fenced ```sql block.
// Returns an empty string when the response carries none.
func ExtractSQLHint(response string) string {
	if m := sqlFencePattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractBalancedJSON finds the first balanced JSON structure starting with
// openChar. It handles nested structures by counting bracket depth and
// skips brackets inside string literals.
func extractBalancedJSON(s string, openChar, closeChar byte) (string, bool) {
	start := strings.IndexByte(s, openChar)
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
