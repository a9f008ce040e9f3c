// Package encoding turns assignments into the URL-safe payloads carried in
// share links, and back.
//
// Two formats exist. The compact format (fragment "#C=") stores the assignment
// as a positional JSON array. The legacy format (fragment "#A=") stores the
// keyed JSON object and is kept so old links keep working. Decoding never
// fails loudly: a bad payload yields nil.
package encoding

import (
	"go.uber.org/zap"

	"sentencescramble/internal/models"
)

// EncodeCompact encodes a as
// [id, title, version, seed, [hints, feedback, scramble, attempts?, reveal?, revealAnswer?], [[text, alts?, lock?, chunks?], ...]]
// with absent trailing optionals dropped.
func EncodeCompact(a models.Assignment) (string, error) {
	opts := trimTrailing([]any{
		a.Options.Hints,
		a.Options.Feedback,
		a.Options.Scramble,
		optionalAttempts(a.Options.AttemptsPerItem),
		optionalBool(a.Options.RevealAfterMax),
		optionalBool(a.Options.RevealAnswerAfterMaxAttempts),
	})

	sentences := make([]any, len(a.Sentences))
	for i, s := range a.Sentences {
		sentences[i] = trimTrailing([]any{
			s.Text,
			optionalList(s.Alts),
			optionalList(s.Lock),
			optionalList(s.Chunks),
		})
	}

	return toBase64URL([]any{a.ID, a.Title, a.Version, a.Seed, opts, sentences})
}

// DecodeCompact parses a compact payload. It returns nil when the payload is
// corrupt or the assignment is missing its id, title, seed, version or every
// sentence.
func DecodeCompact(payload string) *models.Assignment {
	a, err := decodeCompact(payload)
	if err != nil {
		zap.L().Debug("discarding compact assignment payload", zap.Error(err))
		return nil
	}
	return a
}

func decodeCompact(payload string) (*models.Assignment, error) {
	v, err := fromBase64URL(payload)
	if err != nil {
		return nil, err
	}
	fields, ok := v.([]any)
	if !ok {
		return nil, layoutError("payload", v)
	}
	if len(fields) < 6 {
		return nil, errNoSentences
	}
	return buildAssignment(fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])
}

// trimTrailing drops nil entries from the end of values, stopping at the
// first present one.
func trimTrailing(values []any) []any {
	end := len(values)
	for end > 0 && values[end-1] == nil {
		end--
	}
	return values[:end]
}

func optionalList(xs []string) any {
	if len(xs) == 0 {
		return nil
	}
	return xs
}

func optionalBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func optionalAttempts(a *models.Attempts) any {
	if a == nil {
		return nil
	}
	return *a
}
