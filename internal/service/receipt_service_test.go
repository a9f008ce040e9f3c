package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentencescramble/internal/models"
)

func finishedProgress(a *models.Assignment) *models.StudentProgress {
	return &models.StudentProgress{
		AssignmentID: a.ID,
		Version:      a.Version,
		Student:      models.Student{Name: "Ann"},
		Results: []models.Result{
			{Index: 0, OK: true, Attempts: 1},
			{Index: 1, Attempts: 3, Revealed: true},
		},
		Summary: models.Summary{Total: 2, SolvedWithinMax: 1, FirstTry: 1, Reveals: 1, AvgAttempts: 1},
	}
}

func TestReceiptIssueAndVerify(t *testing.T) {
	svc := NewReceiptService("test-signing-key", time.Hour)
	a := testAssignment(3, true)
	p := finishedProgress(a)

	token, err := svc.Issue(a, p)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, claims.AssignmentID)
	assert.Equal(t, 1, claims.Version)
	assert.Equal(t, "Phrasal verbs", claims.Title)
	assert.Equal(t, "Ann", claims.Student)
	assert.Equal(t, p.Summary, claims.Summary)
	assert.Equal(t, p.Results, claims.Results)
	assert.Equal(t, p.StorageKey(), claims.Subject)
	assert.NotEmpty(t, claims.ID)

	other, err := svc.Issue(a, p)
	require.NoError(t, err)
	otherClaims, err := svc.Verify(other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestReceiptRejectsWrongKey(t *testing.T) {
	a := testAssignment(3, true)
	token, err := NewReceiptService("key-one", time.Hour).Issue(a, finishedProgress(a))
	require.NoError(t, err)

	_, err = NewReceiptService("key-two", time.Hour).Verify(token)
	assert.True(t, errors.Is(err, ErrReceiptInvalid))
}

func TestReceiptRejectsTampering(t *testing.T) {
	svc := NewReceiptService("test-signing-key", time.Hour)
	a := testAssignment(3, true)
	token, err := svc.Issue(a, finishedProgress(a))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xy"
	_, err = svc.Verify(strings.Join(parts, "."))
	assert.True(t, errors.Is(err, ErrReceiptInvalid))

	_, err = svc.Verify("not-a-token")
	assert.True(t, errors.Is(err, ErrReceiptInvalid))
}

func TestReceiptExpires(t *testing.T) {
	svc := NewReceiptService("test-signing-key", time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = fixedClock(issuedAt)

	a := testAssignment(3, true)
	token, err := svc.Issue(a, finishedProgress(a))
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, ErrReceiptInvalid))
}

func TestReceiptDisabledWithoutKey(t *testing.T) {
	svc := NewReceiptService("", time.Hour)
	assert.False(t, svc.IsEnabled())

	a := testAssignment(3, true)
	_, err := svc.Issue(a, finishedProgress(a))
	assert.True(t, errors.Is(err, ErrReceiptNotEnabled))

	_, err = svc.Verify("anything")
	assert.True(t, errors.Is(err, ErrReceiptNotEnabled))
}
