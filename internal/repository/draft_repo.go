package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"sentencescramble/internal/database"
	"sentencescramble/internal/models"
)

var (
	draftKeys    = []string{"teacher"}
	draftColumns = []string{"payload", "updated_at"}
)

// DraftRepository handles database operations for teacher drafts
type DraftRepository struct {
	db database.DBTX
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db database.DBTX) *DraftRepository {
	return &DraftRepository{db: db}
}

// Get retrieves a teacher's draft, or nil if none is stored
func (r *DraftRepository) Get(teacher string) (*models.TeacherDraft, error) {
	var payload string
	err := r.db.QueryRow("SELECT payload FROM teacher_drafts WHERE teacher = ?", teacher).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft models.TeacherDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

// Save stores a teacher's draft, replacing the previous one
func (r *DraftRepository) Save(teacher string, draft *models.TeacherDraft) error {
	if draft.UpdatedAt.IsZero() {
		draft.UpdatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := r.db.Upsert("teacher_drafts", draftKeys, draftColumns, teacher, string(payload), draft.UpdatedAt.UnixMilli()); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Teachers lists every teacher with a stored draft
func (r *DraftRepository) Teachers() ([]string, error) {
	return queryStrings(r.db, "SELECT teacher FROM teacher_drafts ORDER BY teacher")
}

// queryStrings runs a single-column query and collects the values
func queryStrings(db database.DBTX, query string, args ...interface{}) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
