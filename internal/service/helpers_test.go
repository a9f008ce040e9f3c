package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sentencescramble/internal/database"
	"sentencescramble/internal/models"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "scramble.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations("../../migrations"))
	return db
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// testAssignment has one word-mode sentence and one chunk-mode sentence
func testAssignment(attempts models.Attempts, reveal bool) *models.Assignment {
	options := models.DefaultOptions()
	options.AttemptsPerItem = models.AttemptsPtr(attempts)
	options.RevealAfterMax = models.BoolPtr(reveal)
	options.RevealAnswerAfterMaxAttempts = models.BoolPtr(reveal)

	return &models.Assignment{
		ID:      "ss-20240101120000000-abc123",
		Title:   "Phrasal verbs",
		Version: 1,
		Seed:    "abc123",
		Options: options,
		Sentences: []models.SentenceWithOptions{
			{Text: "We pick up the kids.", Alts: []string{"The kids we pick up."}},
			{Text: "a b c d e", Chunks: []string{"a", "b", "c", "d e"}},
		},
	}
}
