package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentencescramble/internal/encoding"
	"sentencescramble/internal/models"
	"sentencescramble/internal/repository"
	"sentencescramble/internal/validation"
)

var authoringNow = time.Date(2024, 3, 5, 10, 20, 30, 123000000, time.UTC)

func newAuthoringService(t *testing.T) *AuthoringService {
	t.Helper()
	db := openTestDB(t)
	svc := NewAuthoringService(repository.NewHistoryRepository(db), repository.NewDraftRepository(db), "https://example.com/app/#old")
	svc.now = fixedClock(authoringNow)
	return svc
}

func TestCreateAssignment(t *testing.T) {
	svc := newAuthoringService(t)

	result, err := svc.CreateAssignment(AuthoringRequest{
		Teacher:                "ms-smith",
		Title:                  "Week 1: Phrasal verbs!",
		Sentences:              "We pick up the kids. They drop off the bags.",
		AttemptsPerItem:        "3",
		RevealAfterMaxAttempts: true,
	})
	require.NoError(t, err)

	a := result.Assignment
	assert.True(t, strings.HasPrefix(a.ID, "ss-20240305102030123-"), a.ID)
	assert.Equal(t, 1, a.Version)
	assert.Len(t, a.Seed, 12)
	assert.Equal(t, []models.SentenceWithOptions{
		{Text: "We pick up the kids."},
		{Text: "They drop off the bags."},
	}, a.Sentences)
	assert.Equal(t, 3, a.Options.MaxAttempts())
	assert.True(t, a.Options.RevealsAfterMax())
	assert.Equal(t, models.HintsNone, a.Options.Hints)
	assert.Equal(t, models.FeedbackShowOnWrong, a.Options.Feedback)
	assert.Equal(t, models.ScrambleSeeded, a.Options.Scramble)

	assert.True(t, strings.HasPrefix(result.Link, "https://example.com/app/#C="), result.Link)
	assert.Equal(t, encoding.FormatCompact, result.Format)
	decoded, format := encoding.DecodeFragment(result.Link)
	require.NotNil(t, decoded)
	assert.Equal(t, encoding.FormatCompact, format)
	assert.Equal(t, a, *decoded)

	assert.Equal(t, "Homework: Week 1: Phrasal verbs!\n\nLink: "+result.Link+
		"\n\nInstructions: Build each sentence. When you are done, tap 'Finish' and send the results back to me.",
		result.Instructions)
	assert.Equal(t, "week-1-phrasal-verbs-qr.png", result.QRFileName)
	assert.True(t, strings.HasPrefix(result.QRURL, "https://api.qrserver.com/v1/create-qr-code/?size=240x240&data=https%3A%2F%2Fexample.com"))

	history, err := svc.History("ms-smith")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, a.ID, history[0].ID)
	assert.Equal(t, result.Link, history[0].Link)
	assert.Equal(t, "3", history[0].AttemptsPerItem)
	assert.Equal(t, []string{"We pick up the kids.", "They drop off the bags."}, history[0].Sentences)
	assert.Equal(t, DefaultInstructionsTemplate, history[0].Template)

	require.NoError(t, svc.DeleteHistory("ms-smith", a.ID))
	history, err = svc.History("ms-smith")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateAssignmentWithoutTeacherSkipsHistory(t *testing.T) {
	svc := newAuthoringService(t)

	result, err := svc.CreateAssignment(AuthoringRequest{
		Title:           "Quick one",
		Sentences:       "one / two / three / four five\nA plain line.",
		AttemptsPerItem: "unlimited",
	})
	require.NoError(t, err)
	assert.Equal(t, []models.SentenceWithOptions{
		{Text: "one two three four five", Chunks: []string{"one", "two", "three", "four five"}},
		{Text: "A plain line."},
	}, result.Assignment.Sentences)
	assert.Equal(t, 0, result.Assignment.Options.MaxAttempts())
	assert.Equal(t, "unlimited", result.Entry.AttemptsPerItem)

	teachers, err := svc.historyRepo.Teachers()
	require.NoError(t, err)
	assert.Empty(t, teachers)
}

func TestCreateAssignmentValidation(t *testing.T) {
	svc := newAuthoringService(t)

	tests := []struct {
		name  string
		req   AuthoringRequest
		field string
	}{
		{"missing title", AuthoringRequest{Title: "  ", Sentences: "A b c.", AttemptsPerItem: "3"}, "title"},
		{"missing sentences", AuthoringRequest{Title: "T", Sentences: "   ", AttemptsPerItem: "3"}, "sentences"},
		{"no valid sentence", AuthoringRequest{Title: "T", Sentences: " / / ", AttemptsPerItem: "3"}, "sentences"},
		{"bad attempts", AuthoringRequest{Title: "T", Sentences: "A b c.", AttemptsPerItem: "0"}, "attemptsPerItem"},
		{"bad teacher", AuthoringRequest{Teacher: "ms smith", Title: "T", Sentences: "A b c.", AttemptsPerItem: "3"}, "teacher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAssignment(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAssignmentInvalid))
			var vErr validation.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestDrafts(t *testing.T) {
	svc := newAuthoringService(t)

	draft, err := svc.LoadDraft("ms-smith")
	require.NoError(t, err)
	assert.Equal(t, "", draft.Title)
	assert.Equal(t, "3", draft.AttemptsPerItem)
	require.NotNil(t, draft.RevealAfterMaxAttempts)
	assert.True(t, *draft.RevealAfterMaxAttempts)
	assert.Equal(t, DefaultInstructionsTemplate, draft.InstructionsTemplate)

	saved, err := svc.SaveDraft("ms-smith", models.TeacherDraft{
		Title:                  "Week 2",
		Sentences:              "We look after the dog.",
		AttemptsPerItem:        "unlimited",
		RevealAfterMaxAttempts: models.BoolPtr(false),
		InstructionsTemplate:   "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, authoringNow, saved.UpdatedAt)
	assert.Equal(t, DefaultInstructionsTemplate, saved.InstructionsTemplate)

	draft, err = svc.LoadDraft("ms-smith")
	require.NoError(t, err)
	assert.Equal(t, "Week 2", draft.Title)
	assert.Equal(t, "unlimited", draft.AttemptsPerItem)
	assert.False(t, *draft.RevealAfterMaxAttempts)

	_, err = svc.LoadDraft("bad key!")
	assert.Error(t, err)
}

func TestBuildOptions(t *testing.T) {
	options, err := BuildOptions("5", false)
	require.NoError(t, err)
	assert.Equal(t, 5, options.MaxAttempts())
	assert.False(t, *options.RevealAfterMax)
	assert.False(t, *options.RevealAnswerAfterMaxAttempts)

	options, err = BuildOptions("unlimited", true)
	require.NoError(t, err)
	assert.True(t, options.AttemptsPerItem.IsUnlimited())
	assert.True(t, options.RevealsAfterMax())

	_, err = BuildOptions("lots", true)
	assert.Error(t, err)
}

func TestBuildInstructions(t *testing.T) {
	template := "{{title}} | {{attempts}} | {{date}} | {{link}} | {{title}}"
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		title    string
		attempts string
		expected string
	}{
		{"unlimited", "", "unlimited", "Assignment | Unlimited | 5 Mar 2024 | L | Assignment"},
		{"limited", "Week 1", "3", "Week 1 | 3 attempts per item | 5 Mar 2024 | L | Week 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildInstructions(template, tt.title, "L", tt.attempts, day))
		})
	}

	assert.True(t, strings.HasPrefix(BuildInstructions("", "T", "L", "3", day), "Homework: T\n\nLink: L"))
}

func TestBuildQRFileName(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Week 1: Phrasal verbs!", "week-1-phrasal-verbs-qr.png"},
		{"", "assignment-qr.png"},
		{"!!!", "assignment-qr.png"},
		{"  Café Homework  ", "caf-homework-qr.png"},
		{strings.Repeat("a", 50), strings.Repeat("a", 40) + "-qr.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, BuildQRFileName(tt.title), tt.title)
	}
}

func TestBuildQRURL(t *testing.T) {
	assert.Equal(t, "", BuildQRURL(""))
	assert.Equal(t, "", BuildQRURL("   "))
	assert.Equal(t,
		"https://api.qrserver.com/v1/create-qr-code/?size=240x240&data=https%3A%2F%2Fx.com%2F%23C%3Dab",
		BuildQRURL("https://x.com/#C=ab"))
}

func TestShareLinkReplacesFragment(t *testing.T) {
	a := *testAssignment(3, true)
	fragment := encoding.EncodeFragment(a)

	assert.Equal(t, "https://x.com/"+fragment, ShareLink("https://x.com/#A=old", a))
	assert.Equal(t, "https://x.com/"+fragment, ShareLink("https://x.com/", a))
}
