// Package tokenize splits sentences into the word units a student reorders.
//
// Tokens are whitespace-delimited and keep their punctuation ("Hello," stays one
// token). Locked phrases, such as common phrasal verbs, are merged into a single
// token so they are never separated on the board.
package tokenize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"sentencescramble/internal/models"
)

// DefaultLockedPhrases are phrasal verbs that always tokenize as one unit
var DefaultLockedPhrases = []string{
	"drop off", "pick up", "turn on", "turn off", "put on", "take off",
	"look after", "give up", "run into", "get over", "come across",
	"work out", "set up", "find out", "figure out", "go on", "carry on",
}

// combining diacritical marks block, U+0300..U+036F
var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

var quoteReplacer = strings.NewReplacer(
	"’", "'", "‘", "'",
	"“", `"`, "”", `"`, "«", `"`, "»", `"`, "„", `"`,
)

// defaultPhrases is built once; phrase tables are read-only after init.
var defaultPhrases = buildPhrases(DefaultLockedPhrases)

type phrase struct {
	canonical []string
	key       string
}

// NormalizeForMatch folds a token for phrase comparison: diacritics and outer
// punctuation removed, quotes unified, inner separators collapsed, lower-cased.
// It returns "" for tokens with no letters or digits.
func NormalizeForMatch(value string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(combiningMarks))),
		value,
	)
	if err != nil {
		folded = value
	}
	folded = quoteReplacer.Replace(folded)

	folded = strings.TrimFunc(folded, func(r rune) bool { return !isWordRune(r) })
	if folded == "" {
		return ""
	}

	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !isWordRune(r) && r != '\'' && r != '’'
	})
	return cases.Lower(language.Und).String(strings.Join(fields, " "))
}

// Tokenize splits sentence into tokens, merging the default locked phrases and
// any extra locked phrases into single tokens. When several phrases match at
// the same position the longest wins.
func Tokenize(sentence string, locked []string) []string {
	raw := strings.Fields(sentence)
	if len(raw) == 0 {
		return nil
	}

	phrases := defaultPhrases
	if len(locked) > 0 {
		all := make([]string, 0, len(DefaultLockedPhrases)+len(locked))
		all = append(all, DefaultLockedPhrases...)
		all = append(all, locked...)
		phrases = buildPhrases(all)
	}

	canonical := make([]string, len(raw))
	for i, tok := range raw {
		canonical[i] = NormalizeForMatch(tok)
	}

	tokens := make([]string, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if canonical[i] == "" {
			tokens = append(tokens, raw[i])
			continue
		}

		span := matchAt(canonical, i, phrases)
		if span == 0 {
			tokens = append(tokens, raw[i])
			continue
		}
		tokens = append(tokens, Join(raw[i:i+span]))
		i += span - 1
	}
	return tokens
}

// matchAt returns how many tokens starting at i form a locked phrase, or 0
func matchAt(canonical []string, i int, phrases []phrase) int {
	for _, p := range phrases {
		span := len(p.canonical)
		if i+span > len(canonical) {
			continue
		}
		fits := true
		for offset, want := range p.canonical {
			if canonical[i+offset] != want {
				fits = false
				break
			}
		}
		if fits {
			return span
		}
	}
	return 0
}

// buildPhrases canonicalizes, de-duplicates and orders phrases longest first
func buildPhrases(list []string) []phrase {
	seen := make(map[string]bool, len(list))
	phrases := make([]phrase, 0, len(list))
	for _, text := range list {
		var canonical []string
		for _, word := range strings.Fields(text) {
			if n := NormalizeForMatch(word); n != "" {
				canonical = append(canonical, n)
			}
		}
		if len(canonical) == 0 {
			continue
		}
		key := strings.Join(canonical, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		phrases = append(phrases, phrase{canonical: canonical, key: key})
	}

	sort.SliceStable(phrases, func(a, b int) bool {
		if len(phrases[a].canonical) != len(phrases[b].canonical) {
			return len(phrases[a].canonical) > len(phrases[b].canonical)
		}
		return phrases[a].key < phrases[b].key
	})
	return phrases
}

// CountWords counts tokens that contain at least one letter or digit
func CountWords(tokens []string) int {
	count := 0
	for _, tok := range tokens {
		if IsWord(tok) {
			count++
		}
	}
	return count
}

// IsWord reports whether tok contains a letter or digit
func IsWord(tok string) bool {
	return strings.IndexFunc(tok, isWordRune) >= 0
}

// Units turns tokens into draggable units with position-derived ids
func Units(tokens []string) []models.Unit {
	units := make([]models.Unit, len(tokens))
	for i, tok := range tokens {
		units[i] = models.NewUnit(i, tok)
	}
	return units
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
