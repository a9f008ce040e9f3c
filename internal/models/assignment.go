package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Hint modes
const (
	HintsNone      = "none"
	HintsFirstLast = "first-last"
	HintsLock      = "lock"
)

// Feedback modes
const (
	FeedbackShowOnWrong = "show-on-wrong"
	FeedbackEndOnly     = "end-only"
)

// Scramble modes
const (
	ScrambleSeeded = "seeded"
	ScrambleRandom = "random"
)

// Attempts is a per-item attempt limit. UnlimitedAttempts marshals as "unlimited".
type Attempts int

// UnlimitedAttempts removes the per-item attempt limit
const UnlimitedAttempts Attempts = -1

const unlimitedLabel = "unlimited"

// ParseAttempts parses the teacher's attempts setting ("unlimited" or a positive integer)
func ParseAttempts(value string) (Attempts, error) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, unlimitedLabel) {
		return UnlimitedAttempts, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid attempts value %q: %w", value, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("attempts must be at least 1, got %d", n)
	}
	return Attempts(n), nil
}

// IsUnlimited reports whether there is no attempt limit
func (a Attempts) IsUnlimited() bool {
	return a <= 0
}

// Limit returns the attempt limit, or 0 when unlimited
func (a Attempts) Limit() int {
	if a.IsUnlimited() {
		return 0
	}
	return int(a)
}

func (a Attempts) String() string {
	if a.IsUnlimited() {
		return unlimitedLabel
	}
	return strconv.Itoa(int(a))
}

func (a Attempts) MarshalJSON() ([]byte, error) {
	if a.IsUnlimited() {
		return json.Marshal(unlimitedLabel)
	}
	return json.Marshal(int(a))
}

func (a *Attempts) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Attempts(int(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("attempts must be a number or %q", unlimitedLabel)
	}
	if strings.EqualFold(s, unlimitedLabel) {
		*a = UnlimitedAttempts
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("attempts must be a number or %q", unlimitedLabel)
	}
	*a = Attempts(parsed)
	return nil
}

// SentenceWithOptions is one item of an assignment. Text is the canonical answer.
type SentenceWithOptions struct {
	Text   string   `json:"text"`
	Alts   []string `json:"alts,omitempty"`
	Lock   []string `json:"lock,omitempty"`
	Chunks []string `json:"chunks,omitempty"`
}

// AssignmentOptions governs attempt limits and scrambling for an assignment
type AssignmentOptions struct {
	AttemptsPerItem              *Attempts `json:"attemptsPerItem,omitempty"`
	RevealAfterMax               *bool     `json:"revealAfterMax,omitempty"`
	RevealAnswerAfterMaxAttempts *bool     `json:"revealAnswerAfterMaxAttempts,omitempty"`
	Hints                        string    `json:"hints"`
	Feedback                     string    `json:"feedback"`
	Scramble                     string    `json:"scramble"`
}

// DefaultOptions returns the options used when a link carries none
func DefaultOptions() AssignmentOptions {
	return AssignmentOptions{
		Hints:    HintsNone,
		Feedback: FeedbackShowOnWrong,
		Scramble: ScrambleSeeded,
	}
}

// MaxAttempts returns the per-item attempt limit, 0 meaning unlimited
func (o AssignmentOptions) MaxAttempts() int {
	if o.AttemptsPerItem == nil {
		return 0
	}
	return o.AttemptsPerItem.Limit()
}

// RevealsAfterMax reports whether the answer is shown once attempts run out.
// Older links only carry revealAnswerAfterMaxAttempts.
func (o AssignmentOptions) RevealsAfterMax() bool {
	if o.RevealAfterMax != nil {
		return *o.RevealAfterMax
	}
	if o.RevealAnswerAfterMaxAttempts != nil {
		return *o.RevealAnswerAfterMaxAttempts
	}
	return false
}

// Assignment is a teacher-authored homework unit carried entirely inside a share link
type Assignment struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Version   int                   `json:"version"`
	Seed      string                `json:"seed"`
	Options   AssignmentOptions     `json:"options"`
	Sentences []SentenceWithOptions `json:"sentences"`
}

// Unit is a draggable word or chunk. ID is "<position>-<text>".
type Unit struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewUnit builds the unit for text at position
func NewUnit(position int, text string) Unit {
	return Unit{ID: fmt.Sprintf("%d-%s", position, text), Text: text}
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// AttemptsPtr returns a pointer to a
func AttemptsPtr(a Attempts) *Attempts {
	return &a
}
