package toolcall

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// rawTextLimit is the hard cap on raw-text fallback payloads, in characters.
const rawTextLimit = 500

var (
	idTokenRe = regexp.MustCompile(`(?i)["']?ID["']?\s*:\s*(\d+)`)
	nsTokenRe = regexp.MustCompile(`(?i)["']?NS["']?\s*:\s*(\d+)`)
)

// Normalize extracts a JSON-shaped value from a RawResult. It never fails:
// malformed input degrades to a raw-text value or to null.
//
// Strategies are tried in priority order, first success wins:
//  1. the structured field, when it is already an object or array, or a
//     string that parses as JSON;
//  2. the first content block's text, parsed as JSON;
//  3. all block texts joined with newlines, parsed as JSON, then each
//     remaining block on its own;
//  4. a bracket-balanced array scan after an "output:[" marker, falling
//     back to the first "[" in the text, so a fmt-printed map with an
//     embedded array yields the array and not just its ID/NS tokens;
//  5. case-insensitive ID/NS numeric token extraction, for providers that
//     serialize a suggestion map as debug text without any array;
//  6. the first block's text wrapped as raw (truncated to 500 characters),
//     or null when there is no text at all.
//
// Normalizing an already-normalized JSON payload returns it unchanged.
func Normalize(res *RawResult) Value {
	if res == nil {
		return Null()
	}

	if v, ok := fromStructured(res.Structured); ok {
		return v
	}

	texts := blockTexts(res.Content)
	if len(texts) == 0 {
		return Null()
	}

	if v, ok := parseJSON(texts[0]); ok {
		return v
	}

	if len(texts) > 1 {
		if v, ok := parseJSON(strings.Join(texts, "\n")); ok {
			return v
		}
		for _, t := range texts[1:] {
			if v, ok := parseJSON(t); ok {
				return v
			}
		}
	}

	joined := strings.Join(texts, "\n")
	if v, ok := extractBracketArray(joined); ok {
		return v
	}
	if v, ok := extractKeyPair(joined); ok {
		return v
	}

	return Raw(truncate(texts[0], rawTextLimit))
}

// fromStructured normalizes the structured output field, if usable.
func fromStructured(structured any) (Value, bool) {
	switch s := structured.(type) {
	case nil:
		return Null(), false
	case map[string]any:
		return Object(s), true
	case []any:
		return Array(s), true
	case string:
		if s == "" {
			return Null(), false
		}
		if v, ok := parseJSON(s); ok {
			return v, true
		}
		return Raw(s), true
	}
	return Null(), false
}

// blockTexts collects the non-empty texts of all content blocks in order.
func blockTexts(blocks []any) []string {
	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if text, ok := BlockText(b); ok {
			texts = append(texts, text)
		}
	}
	return texts
}

// parseJSON parses s as a JSON object or array. Scalars do not fit the
// closed value set and are rejected.
func parseJSON(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null(), false
	}
	var data any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return Null(), false
	}
	switch d := data.(type) {
	case map[string]any:
		return Object(d), true
	case []any:
		return Array(d), true
	}
	return Null(), false
}

// extractKeyPair pulls the first numeric ID and NS tokens out of debug text
// such as `map[output:[{ID:3848 NS:200}]]`. Both keys must be present.
func extractKeyPair(s string) (Value, bool) {
	if !strings.Contains(strings.ToUpper(s), "ID") || !strings.Contains(strings.ToUpper(s), "NS") {
		return Null(), false
	}
	idMatch := idTokenRe.FindStringSubmatch(s)
	nsMatch := nsTokenRe.FindStringSubmatch(s)
	if idMatch == nil || nsMatch == nil {
		return Null(), false
	}
	id, err := strconv.ParseFloat(idMatch[1], 64)
	if err != nil {
		return Null(), false
	}
	ns, err := strconv.ParseFloat(nsMatch[1], 64)
	if err != nil {
		return Null(), false
	}
	return Object(map[string]any{"ID": id, "NS": ns}), true
}

// extractBracketArray finds an embedded JSON array in non-JSON text by
// counting bracket depth. It first looks for an "output:[" marker, then
// falls back to the first "[" in the text.
func extractBracketArray(s string) (Value, bool) {
	if idx := strings.Index(s, "output:["); idx != -1 {
		if v, ok := balancedArrayAt(s, idx+len("output:")); ok {
			return v, true
		}
		return Null(), false
	}
	if start := strings.Index(s, "["); start != -1 {
		return balancedArrayAt(s, start)
	}
	return Null(), false
}

// balancedArrayAt scans from the "[" at start to its matching "]" and
// JSON-parses exactly that substring.
func balancedArrayAt(s string, start int) (Value, bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				var arr []any
				if err := json.Unmarshal([]byte(s[start:i+1]), &arr); err != nil {
					return Null(), false
				}
				return Array(arr), true
			}
		}
	}
	return Null(), false
}

// truncate limits s to n characters (not bytes).
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
