package service

import (
	"errors"
	"fmt"
	"strings"

	"sentencescramble/internal/chunking"
	"sentencescramble/internal/models"
	"sentencescramble/internal/prng"
)

var ErrSentenceOutOfRange = errors.New("sentence index out of range")

// fallbackSeed is used for links that carry an empty seed
const fallbackSeed = "default"

// Round is one sentence as presented to a student
type Round struct {
	Index      int           `json:"index"`
	Total      int           `json:"total"`
	Mode       chunking.Mode `json:"mode"`
	Units      []models.Unit `json:"units"`
	FixedFirst string        `json:"fixedFirst,omitempty"`
	FixedLast  string        `json:"fixedLast,omitempty"`
}

// CheckResult is the verdict on a submitted ordering
type CheckResult struct {
	Correct bool   `json:"correct"`
	Answer  string `json:"answer"`
}

// PlayService scrambles sentences and checks answers
type PlayService struct {
	shuffleSeed func() string
}

// NewPlayService creates a new play service
func NewPlayService() *PlayService {
	return &PlayService{shuffleSeed: prng.TimeSeed}
}

func sentenceAt(a *models.Assignment, index int) (models.SentenceWithOptions, error) {
	if index < 0 || index >= len(a.Sentences) {
		return models.SentenceWithOptions{}, fmt.Errorf("%w: %d of %d", ErrSentenceOutOfRange, index, len(a.Sentences))
	}
	return a.Sentences[index], nil
}

// Units returns the scrambled units for sentence index. Seeded assignments
// scramble the same way every time; in chunk mode the first and last chunk
// ids are returned so they can be pinned in place.
func (s *PlayService) Units(a *models.Assignment, index int) (*Round, error) {
	sentence, err := sentenceAt(a, index)
	if err != nil {
		return nil, err
	}

	plan := chunking.Plan(sentence)
	units := plan.Units()

	round := &Round{
		Index: index,
		Total: len(a.Sentences),
		Mode:  plan.Mode,
		Units: prng.Shuffle(units, s.seedFor(a, index)),
	}
	if plan.Mode == chunking.ModeChunks && len(units) > 0 {
		round.FixedFirst = units[0].ID
		round.FixedLast = units[len(units)-1].ID
	}
	return round, nil
}

func (s *PlayService) seedFor(a *models.Assignment, index int) string {
	if a.Options.Scramble == models.ScrambleRandom {
		return s.shuffleSeed()
	}
	seed := a.Seed
	if seed == "" {
		seed = fallbackSeed
	}
	return prng.SentenceSeed(seed, index)
}

// Check compares a student's ordering with sentence index. Chunks are
// compared case-insensitively one by one; words are joined with spaces and
// must match the sentence text or one of its alternatives exactly, with runs
// of whitespace treated as a single space.
func (s *PlayService) Check(a *models.Assignment, index int, answer []string) (*CheckResult, error) {
	sentence, err := sentenceAt(a, index)
	if err != nil {
		return nil, err
	}

	plan := chunking.Plan(sentence)
	result := &CheckResult{Answer: sentence.Text}
	if plan.Mode == chunking.ModeChunks {
		result.Correct = sameChunks(answer, plan.Pieces)
		return result, nil
	}

	joined := collapseSpace(strings.Join(answer, " "))
	if joined == collapseSpace(sentence.Text) {
		result.Correct = true
		return result, nil
	}
	for _, alt := range sentence.Alts {
		if joined == collapseSpace(alt) {
			result.Correct = true
			break
		}
	}
	return result, nil
}

func sameChunks(answer, target []string) bool {
	if len(answer) != len(target) {
		return false
	}
	for i := range target {
		if normalizeChunk(answer[i]) != normalizeChunk(target[i]) {
			return false
		}
	}
	return true
}

func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func normalizeChunk(chunk string) string {
	return strings.ToLower(strings.TrimSpace(chunk))
}
