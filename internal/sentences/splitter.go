// Package sentences breaks teacher text into the sentences of an assignment.
package sentences

import (
	"regexp"
	"strings"
)

// Abbreviations never end a sentence
var Abbreviations = []string{
	"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "St.", "vs.", "etc.", "e.g.", "i.e.",
	"U.S.", "U.K.", "U.N.", "Jan.", "Feb.", "Mar.", "Apr.", "Jun.", "Jul.",
	"Aug.", "Sep.", "Sept.", "Oct.", "Nov.", "Dec.",
}

// marker stands in for a protected dot while boundaries are located. It is a
// private-use rune so it cannot collide with teacher text.
const marker = "\ue000"

type protection struct {
	pattern     *regexp.Regexp
	replacement string
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	decimalRe    = regexp.MustCompile(`(\d)\.(\d)`)
	boundaryRe   = regexp.MustCompile(`[.!?]\s+["“‘(]*\p{Lu}`)

	protections = buildProtections(Abbreviations)
)

func buildProtections(abbrs []string) []protection {
	out := make([]protection, 0, len(abbrs))
	for _, abbr := range abbrs {
		out = append(out, protection{
			pattern:     regexp.MustCompile(`\b` + regexp.QuoteMeta(abbr)),
			replacement: strings.ReplaceAll(abbr, ".", marker),
		})
	}
	return out
}

// Split breaks text into trimmed, non-empty sentences in their original order.
// A boundary is a '.', '!' or '?' followed by whitespace and a capital letter,
// optionally preceded by opening quotes or brackets. Known abbreviations and
// decimal numbers are not boundaries.
func Split(text string) []string {
	normalized := strings.TrimSpace(whitespaceRe.ReplaceAllString(normalizeNewlines(text), " "))
	if normalized == "" {
		return nil
	}

	for _, p := range protections {
		normalized = p.pattern.ReplaceAllLiteralString(normalized, p.replacement)
	}
	normalized = decimalRe.ReplaceAllString(normalized, "${1}"+marker+"${2}")

	var out []string
	start := 0
	// Each match begins with the terminating punctuation; the sentence ends
	// right after it and the next one starts at the first non-space byte.
	for _, loc := range boundaryRe.FindAllStringIndex(normalized, -1) {
		end := loc[0] + 1
		out = appendSentence(out, normalized[start:end])
		start = end
	}
	out = appendSentence(out, normalized[start:])
	return out
}

func appendSentence(out []string, part string) []string {
	part = strings.TrimSpace(strings.ReplaceAll(part, marker, "."))
	if part == "" {
		return out
	}
	return append(out, part)
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
