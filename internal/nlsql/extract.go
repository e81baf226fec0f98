package nlsql

import "strings"

const fenceMarker = "```"

// ExtractStatement derives a single SQL statement from a raw model
// completion. Models often wrap the query in a markdown code fence, with or
// without an "sql" language tag; the first fenced span wins when several are
// present. The function is total: it always returns a string, possibly
// empty, and never fails.
//
// Normalization trims surrounding whitespace and strips exactly one trailing
// statement terminator. Embedded or repeated terminators are left alone.
func ExtractStatement(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, fenceMarker) {
		text = firstFencedSpan(text)
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ";")
	return strings.TrimSpace(text)
}

// firstFencedSpan returns the inner content of the first well-formed fenced
// block. When fence markers are present but no closing marker follows the
// opening one, all markers are stripped from the text instead of failing.
func firstFencedSpan(text string) string {
	start := strings.Index(text, fenceMarker)
	inner := text[start+len(fenceMarker):]
	inner = stripLanguageTag(inner)

	end := strings.Index(inner, fenceMarker)
	if end < 0 {
		return stripFenceMarkers(text)
	}
	return inner[:end]
}

// stripLanguageTag removes an "sql" tag directly after an opening fence.
// Other tags are kept: only the tag the rule prompt asks for is expected,
// and anything else is more likely query text than a language name.
func stripLanguageTag(inner string) string {
	if len(inner) < 3 || !strings.EqualFold(inner[:3], "sql") {
		return inner
	}
	rest := inner[3:]
	if rest == "" {
		return rest
	}
	switch rest[0] {
	case ' ', '\t', '\r', '\n':
		return rest
	}
	return inner
}

func stripFenceMarkers(text string) string {
	text = strings.ReplaceAll(text, fenceMarker+"sql", "")
	return strings.ReplaceAll(text, fenceMarker, "")
}
