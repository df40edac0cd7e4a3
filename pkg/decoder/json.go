package decoder

import (
	"encoding/json"
	"fmt"
	"strings"

	"market-intel/pkg/apperrors"
)

// ExtractJSON recovers a JSON value from free-form model output. Models are
// told to answer with JSON only, but in practice wrap it in prose or code
// fences, so extraction stays lenient about surrounding text.
//
// The scan anchors at the first '[' or '{' in the fence-stripped text and
// walks forward tracking bracket depth and string-escape state until the
// anchor closes. Anchoring at the first opening bracket means a stray bracket
// in prose ahead of the real JSON still corrupts extraction; that matches the
// established recovery behavior and is deliberately left as is.
func ExtractJSON(raw string) (string, error) {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	start := -1
	for i, r := range clean {
		if r == '[' || r == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON value in output", apperrors.ErrParseFailure)
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(clean); i++ {
		c := clean[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return clean[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unbalanced JSON value in output", apperrors.ErrParseFailure)
}

// DecodeJSON extracts and unmarshals the first JSON value in raw into dest.
func DecodeJSON(raw string, dest interface{}) error {
	jsonStr, err := ExtractJSON(raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(jsonStr), dest); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrParseFailure, err)
	}

	return nil
}
