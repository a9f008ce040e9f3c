// Package chunking groups the tokens of a long sentence into short phrases so
// students reorder a handful of chunks instead of a wall of single words.
package chunking

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"sentencescramble/internal/tokenize"
)

const (
	// MinWords is the smallest chunk the scanner will commit on its own.
	MinWords = 3
	// MaxWords is the size above which the scanner looks for a split point.
	MaxWords = 9
	// Threshold is the word count a sentence must exceed to be chunked at all.
	Threshold = 12
	// overflowSlack is how far past MaxWords a chunk may grow before it is
	// committed without a grammatical split point.
	overflowSlack = 3

	closers = `"'”’)]}»`
)

var (
	relativePronouns = wordSet("who", "that", "which", "where", "when")

	prepositions = wordSet(
		"in", "on", "at", "with", "for", "to", "from", "by", "about", "as",
		"into", "like", "through", "after", "over", "between", "out",
		"against", "during", "without", "before", "under", "around", "among",
		"onto", "upon", "within", "across", "behind", "beyond", "toward", "towards",
	)

	conjunctions = wordSet(
		"and", "but", "or", "so", "yet", "nor", "because", "although",
		"though", "while", "whereas", "unless", "since",
	)

	determiners = wordSet(
		"the", "a", "an", "this", "that", "these", "those", "another",
		"other", "each", "every", "any", "some",
	)
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Chunk splits sentence into ordered phrases of roughly MinWords to MaxWords
// words. Sentences of Threshold words or fewer come back whole.
func Chunk(sentence string) []string {
	trimmed := strings.TrimSpace(sentence)
	if trimmed == "" {
		return nil
	}

	tokens := mergeProperNouns(tokenize.Tokenize(trimmed, nil))
	if tokenize.CountWords(tokens) <= Threshold {
		return []string{trimmed}
	}

	s := &scanner{tokens: tokens}
	s.run()

	out := make([]string, len(s.chunks))
	for i, c := range s.chunks {
		out[i] = tokenize.Join(c)
	}
	return out
}

type scanner struct {
	tokens  []string
	current []string
	chunks  [][]string
}

func (s *scanner) run() {
	for i, tok := range s.tokens {
		key := tokenize.NormalizeForMatch(tok)

		if relativePronouns[key] && s.words() >= MinWords {
			s.commit()
		}

		s.current = append(s.current, tok)

		if endsClause(tok) {
			if s.words() >= MinWords {
				s.commit()
			}
			continue
		}

		if s.words() > MaxWords {
			s.splitOverflow()
		}

		if s.words() >= MinWords && s.breaksBefore(i+1) {
			s.commit()
		}
	}

	s.commit()
	s.mergeShortTail()
}

func (s *scanner) words() int {
	return tokenize.CountWords(s.current)
}

func (s *scanner) commit() {
	if len(s.current) == 0 {
		return
	}
	s.chunks = append(s.chunks, s.current)
	s.current = nil
}

// breaksBefore reports whether a chunk should end before tokens[next]: ahead
// of a conjunction that still has a full clause after it, or ahead of a
// preposition that opens a noun phrase.
func (s *scanner) breaksBefore(next int) bool {
	if next >= len(s.tokens) {
		return false
	}
	key := tokenize.NormalizeForMatch(s.tokens[next])

	if conjunctions[key] && tokenize.CountWords(s.tokens[next:]) > MinWords+1 {
		return true
	}
	if prepositions[key] && next+1 < len(s.tokens) {
		return determiners[tokenize.NormalizeForMatch(s.tokens[next+1])]
	}
	return false
}

// splitOverflow cuts an over-long buffer at the last preposition, or failing
// that the last conjunction, that leaves workable halves. Without such a point
// the buffer is committed once it is well past the limit.
func (s *scanner) splitOverflow() {
	for _, words := range []map[string]bool{prepositions, conjunctions} {
		if at := s.splitPoint(words); at > 0 {
			before := s.current[:at:at]
			s.chunks = append(s.chunks, before)
			s.current = append([]string(nil), s.current[at:]...)
			return
		}
	}
	if s.words() > MaxWords+overflowSlack {
		s.commit()
	}
}

func (s *scanner) splitPoint(words map[string]bool) int {
	for k := len(s.current) - 1; k > 0; k-- {
		if !words[tokenize.NormalizeForMatch(s.current[k])] {
			continue
		}
		before, after := s.current[:k], s.current[k:]
		if tokenize.CountWords(before) < MinWords {
			continue
		}
		if tokenize.CountWords(after) >= MinWords || endsWithPunct(before[len(before)-1]) {
			return k
		}
	}
	return 0
}

func (s *scanner) mergeShortTail() {
	n := len(s.chunks)
	if n < 2 || tokenize.CountWords(s.chunks[n-1]) >= MinWords {
		return
	}
	s.chunks[n-2] = append(s.chunks[n-2], s.chunks[n-1]...)
	s.chunks = s.chunks[:n-1]
}

// mergeProperNouns joins runs of capitalized tokens ("New York") so a name is
// never split across chunks. A capital after sentence punctuation starts a new
// run.
func mergeProperNouns(tokens []string) []string {
	merged := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if i > 0 && startsUpper(tok) && startsUpper(tokens[i-1]) && !endsWithPunct(tokens[i-1]) {
			last := len(merged) - 1
			merged[last] = tokenize.Join([]string{merged[last], tok})
			continue
		}
		merged = append(merged, tok)
	}
	return merged
}

func startsUpper(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsUpper(r)
}

// endsClause reports whether tok closes a clause, looking through trailing
// closing quotes and brackets ("morning.”").
func endsClause(tok string) bool {
	r, _ := utf8.DecodeLastRuneInString(strings.TrimRight(tok, closers))
	switch r {
	case ',', '.', ';', '!', '?', '—', '–':
		return true
	}
	return false
}

func endsWithPunct(tok string) bool {
	r, _ := utf8.DecodeLastRuneInString(tok)
	return r != utf8.RuneError && unicode.IsPunct(r)
}
