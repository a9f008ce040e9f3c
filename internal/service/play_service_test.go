package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentencescramble/internal/chunking"
	"sentencescramble/internal/models"
	"sentencescramble/internal/prng"
	"sentencescramble/internal/sentences"
	"sentencescramble/internal/tokenize"
)

func unitTexts(units []models.Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Text
	}
	return out
}

func TestPlayUnitsWordMode(t *testing.T) {
	svc := NewPlayService()
	a := testAssignment(3, true)

	round, err := svc.Units(a, 0)
	require.NoError(t, err)
	assert.Equal(t, chunking.ModeWords, round.Mode)
	assert.Equal(t, 2, round.Total)
	assert.Empty(t, round.FixedFirst)
	assert.Empty(t, round.FixedLast)
	assert.ElementsMatch(t, []string{"We", "pick up", "the", "kids."}, unitTexts(round.Units))

	want := prng.Shuffle([]models.Unit{
		models.NewUnit(0, "We"),
		models.NewUnit(1, "pick up"),
		models.NewUnit(2, "the"),
		models.NewUnit(3, "kids."),
	}, "abc123-0")
	assert.Equal(t, want, round.Units)

	again, err := svc.Units(a, 0)
	require.NoError(t, err)
	assert.Equal(t, round.Units, again.Units)
}

func TestPlayUnitsChunkModePinsEnds(t *testing.T) {
	svc := NewPlayService()
	round, err := svc.Units(testAssignment(3, true), 1)
	require.NoError(t, err)

	assert.Equal(t, chunking.ModeChunks, round.Mode)
	assert.Equal(t, "0-a", round.FixedFirst)
	assert.Equal(t, "3-d e", round.FixedLast)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d e"}, unitTexts(round.Units))
}

func TestPlayUnitsEmptySeedFallsBack(t *testing.T) {
	svc := NewPlayService()
	a := testAssignment(3, true)
	a.Seed = ""

	round, err := svc.Units(a, 0)
	require.NoError(t, err)

	plan := chunking.Plan(a.Sentences[0])
	assert.Equal(t, prng.Shuffle(plan.Units(), "default-0"), round.Units)
}

func TestPlayUnitsRandomScramble(t *testing.T) {
	svc := NewPlayService()
	svc.shuffleSeed = func() string { return "clock" }
	a := testAssignment(3, true)
	a.Options.Scramble = models.ScrambleRandom

	round, err := svc.Units(a, 0)
	require.NoError(t, err)

	plan := chunking.Plan(a.Sentences[0])
	assert.Equal(t, prng.Shuffle(plan.Units(), "clock"), round.Units)
}

func TestPlayUnitsOutOfRange(t *testing.T) {
	svc := NewPlayService()
	for _, index := range []int{-1, 2} {
		_, err := svc.Units(testAssignment(3, true), index)
		assert.True(t, errors.Is(err, ErrSentenceOutOfRange), "index %d", index)
	}
}

func TestPlayCheck(t *testing.T) {
	svc := NewPlayService()
	a := testAssignment(3, true)

	tests := []struct {
		name   string
		index  int
		answer []string
		want   bool
	}{
		{"words in order", 0, []string{"We", "pick up", "the", "kids."}, true},
		{"alternative answer", 0, []string{"The", "kids", "we", "pick up."}, true},
		{"wrong order", 0, []string{"the", "We", "pick up", "kids."}, false},
		{"case matters for words", 0, []string{"we", "pick up", "the", "kids."}, false},
		{"missing word", 0, []string{"We", "pick up", "kids."}, false},
		{"chunks in order", 1, []string{"a", "b", "c", "d e"}, true},
		{"chunks ignore case and padding", 1, []string{" A", "b ", "C", "D E"}, true},
		{"chunks wrong order", 1, []string{"a", "c", "b", "d e"}, false},
		{"chunks missing", 1, []string{"a", "b", "d e"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Check(a, tt.index, tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Correct)
			assert.Equal(t, a.Sentences[tt.index].Text, result.Answer)
		})
	}
}

func TestPlayCheckIgnoresWhitespaceRuns(t *testing.T) {
	svc := NewPlayService()
	a := testAssignment(3, true)
	a.Sentences = sentences.ParseTeacherInput("I like  cats\nDogs are\tgreat")
	require.Len(t, a.Sentences, 2)
	a.Sentences[1].Alts = []string{"Great  are dogs"}

	for i, s := range a.Sentences {
		round, err := svc.Units(a, i)
		require.NoError(t, err)
		require.Equal(t, chunking.ModeWords, round.Mode)

		answer := tokenize.Tokenize(s.Text, s.Lock)
		result, err := svc.Check(a, i, answer)
		require.NoError(t, err)
		assert.True(t, result.Correct, "sentence %d: %q", i, s.Text)
	}

	result, err := svc.Check(a, 1, []string{"Great", "are", "dogs"})
	require.NoError(t, err)
	assert.True(t, result.Correct)
}
