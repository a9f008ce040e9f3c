package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const openers = "([{“‘«"

// Join rebuilds text from tokens with single spaces, except that no space is
// inserted before a token starting with closing punctuation or after a token
// ending in an opening bracket or quote.
func Join(tokens []string) string {
	var b strings.Builder
	prev := ""
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if b.Len() > 0 && !attachesLeft(tok) && !opensRight(prev) {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
		prev = tok
	}
	return b.String()
}

// attachesLeft reports whether tok begins with punctuation that belongs to the
// preceding word, such as a comma or closing bracket.
func attachesLeft(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	switch {
	case r == utf8.RuneError, isWordRune(r):
		return false
	case strings.ContainsRune(openers, r), r == '"', r == '\'':
		return false
	case unicode.Is(unicode.Pd, r):
		return false
	}
	return unicode.IsPunct(r)
}

// opensRight reports whether tok ends with an opening bracket or quote, or is
// a bare quote mark.
func opensRight(tok string) bool {
	r, _ := utf8.DecodeLastRuneInString(tok)
	if r == utf8.RuneError {
		return false
	}
	if strings.ContainsRune(openers, r) {
		return true
	}
	return strings.Trim(tok, `"'`) == ""
}
