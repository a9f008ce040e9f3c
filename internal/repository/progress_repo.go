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
	progressKeys    = []string{"storage_key"}
	progressColumns = []string{"assignment_id", "student_name", "version", "payload", "updated_at"}
)

// ProgressRepository handles database operations for student progress
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Save stores progress under its storage key, replacing any earlier copy
func (r *ProgressRepository) Save(p *models.StudentProgress) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	err = r.db.Upsert("progress", progressKeys, progressColumns,
		p.StorageKey(), p.AssignmentID, p.Student.Name, p.Version, string(payload), p.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Get retrieves progress by assignment and student, or nil if none is stored
func (r *ProgressRepository) Get(assignmentID, studentName string) (*models.StudentProgress, error) {
	var payload string
	query := "SELECT payload FROM progress WHERE storage_key = ?"
	err := r.db.QueryRow(query, models.ProgressKey(assignmentID, studentName)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	return decodeProgress(payload)
}

// Delete removes stored progress; deleting missing progress is not an error
func (r *ProgressRepository) Delete(assignmentID, studentName string) error {
	query := "DELETE FROM progress WHERE storage_key = ?"
	if _, err := r.db.Exec(query, models.ProgressKey(assignmentID, studentName)); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}

// ListByAssignment retrieves every student's progress on an assignment
func (r *ProgressRepository) ListByAssignment(assignmentID string) ([]models.StudentProgress, error) {
	query := "SELECT payload FROM progress WHERE assignment_id = ? ORDER BY student_name"
	return r.list(query, assignmentID)
}

// All retrieves every stored progress record
func (r *ProgressRepository) All() ([]models.StudentProgress, error) {
	return r.list("SELECT payload FROM progress ORDER BY storage_key")
}

func (r *ProgressRepository) list(query string, args ...interface{}) ([]models.StudentProgress, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	var out []models.StudentProgress
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		p, err := decodeProgress(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func decodeProgress(payload string) (*models.StudentProgress, error) {
	var p models.StudentProgress
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return &p, nil
}
