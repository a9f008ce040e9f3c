package encoding

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"sentencescramble/internal/models"
)

var (
	errMissingID        = errors.New("assignment id is empty")
	errMissingTitle     = errors.New("assignment title is empty")
	errMissingSeed      = errors.New("assignment seed is empty")
	errInvalidVersion   = errors.New("assignment version is not a number")
	errNoSentences      = errors.New("assignment has no valid sentences")
	errUnexpectedLayout = errors.New("unexpected payload layout")
)

// asString coerces a decoded JSON scalar to its string form
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func asVersion(v any) (int, error) {
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, errInvalidVersion
	}
	if err != nil {
		return 0, errInvalidVersion
	}
	n, ok := wholeNumber(f)
	if !ok {
		return 0, errInvalidVersion
	}
	return n, nil
}

// wholeNumber converts f to an int when it is integral and fits in 32 bits
func wholeNumber(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// asStrings converts a decoded JSON array to strings. Anything that is not a
// non-empty array becomes nil.
func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, asString(item))
	}
	return out
}

func asBool(v any) *bool {
	if b, ok := v.(bool); ok {
		return models.BoolPtr(b)
	}
	return nil
}

func asAttempts(v any) *models.Attempts {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		n, ok := wholeNumber(f)
		if !ok {
			return nil
		}
		return models.AttemptsPtr(models.Attempts(n))
	case string:
		a, err := models.ParseAttempts(t)
		if err != nil {
			return nil
		}
		return models.AttemptsPtr(a)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// decodeOptions accepts either the positional options array or a keyed object
func decodeOptions(v any) models.AssignmentOptions {
	opts := models.DefaultOptions()

	switch t := v.(type) {
	case []any:
		at := func(i int) any {
			if i < len(t) {
				return t[i]
			}
			return nil
		}
		opts.Hints = orDefault(asString(at(0)), opts.Hints)
		opts.Feedback = orDefault(asString(at(1)), opts.Feedback)
		opts.Scramble = orDefault(asString(at(2)), opts.Scramble)
		opts.AttemptsPerItem = asAttempts(at(3))
		opts.RevealAfterMax = asBool(at(4))
		opts.RevealAnswerAfterMaxAttempts = asBool(at(5))
	case map[string]any:
		opts.Hints = orDefault(asString(t["hints"]), opts.Hints)
		opts.Feedback = orDefault(asString(t["feedback"]), opts.Feedback)
		opts.Scramble = orDefault(asString(t["scramble"]), opts.Scramble)
		opts.AttemptsPerItem = asAttempts(t["attemptsPerItem"])
		opts.RevealAfterMax = asBool(t["revealAfterMax"])
		opts.RevealAnswerAfterMaxAttempts = asBool(t["revealAnswerAfterMaxAttempts"])
	}
	return opts
}

// decodeSentence accepts a bare string, a positional array or a keyed object
func decodeSentence(v any) (models.SentenceWithOptions, bool) {
	var s models.SentenceWithOptions
	switch t := v.(type) {
	case string:
		s.Text = t
	case []any:
		if len(t) == 0 {
			return s, false
		}
		s.Text = asString(t[0])
		if len(t) > 1 {
			s.Alts = asStrings(t[1])
		}
		if len(t) > 2 {
			s.Lock = asStrings(t[2])
		}
		if len(t) > 3 {
			s.Chunks = asStrings(t[3])
		}
	case map[string]any:
		s.Text = asString(t["text"])
		s.Alts = asStrings(t["alts"])
		s.Lock = asStrings(t["lock"])
		s.Chunks = asStrings(t["chunks"])
	default:
		return s, false
	}
	return s, s.Text != ""
}

func decodeSentences(v any) ([]models.SentenceWithOptions, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, errNoSentences
	}
	out := make([]models.SentenceWithOptions, 0, len(list))
	for _, item := range list {
		if s, ok := decodeSentence(item); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, errNoSentences
	}
	return out, nil
}

// buildAssignment validates the decoded header fields and assembles the result
func buildAssignment(id, title, version, seed, options, sentences any) (*models.Assignment, error) {
	a := &models.Assignment{
		ID:    asString(id),
		Title: asString(title),
		Seed:  asString(seed),
	}
	switch {
	case a.ID == "":
		return nil, errMissingID
	case a.Title == "":
		return nil, errMissingTitle
	case a.Seed == "":
		return nil, errMissingSeed
	}

	v, err := asVersion(version)
	if err != nil {
		return nil, err
	}
	a.Version = v

	a.Sentences, err = decodeSentences(sentences)
	if err != nil {
		return nil, err
	}
	a.Options = decodeOptions(options)
	return a, nil
}

func layoutError(what string, v any) error {
	return fmt.Errorf("%w: %s is %T", errUnexpectedLayout, what, v)
}
