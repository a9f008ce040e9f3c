package repository

import (
	"encoding/json"
	"fmt"

	"sentencescramble/internal/database"
	"sentencescramble/internal/models"
)

// HistoryLimit is the number of share links kept per teacher
const HistoryLimit = 10

var (
	historyKeys    = []string{"teacher", "id"}
	historyColumns = []string{"created_at", "payload"}
)

// HistoryRepository handles database operations for a teacher's share history
type HistoryRepository struct {
	db database.DBTX
}

// NewHistoryRepository creates a new share history repository
func NewHistoryRepository(db database.DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Add records an entry and drops the teacher's oldest entries beyond HistoryLimit
func (r *HistoryRepository) Add(teacher string, entry models.ShareHistoryEntry) error {
	if err := r.put(teacher, entry); err != nil {
		return err
	}

	entries, err := r.List(teacher)
	if err != nil {
		return err
	}
	for _, old := range entries[min(len(entries), HistoryLimit):] {
		if err := r.Delete(teacher, old.ID); err != nil {
			return err
		}
	}
	return nil
}

// Restore writes an entry as-is without trimming, for backup imports
func (r *HistoryRepository) Restore(teacher string, entry models.ShareHistoryEntry) error {
	return r.put(teacher, entry)
}

func (r *HistoryRepository) put(teacher string, entry models.ShareHistoryEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}
	err = r.db.Upsert("share_history", historyKeys, historyColumns,
		teacher, entry.ID, entry.CreatedAt.UnixMilli(), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	return nil
}

// List retrieves a teacher's share history, newest first
func (r *HistoryRepository) List(teacher string) ([]models.ShareHistoryEntry, error) {
	query := "SELECT payload FROM share_history WHERE teacher = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.Query(query, teacher)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.ShareHistoryEntry
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		var entry models.ShareHistoryEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes one entry from a teacher's history
func (r *HistoryRepository) Delete(teacher, id string) error {
	query := "DELETE FROM share_history WHERE teacher = ? AND id = ?"
	if _, err := r.db.Exec(query, teacher, id); err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// Teachers lists every teacher with stored history
func (r *HistoryRepository) Teachers() ([]string, error) {
	return queryStrings(r.db, "SELECT DISTINCT teacher FROM share_history ORDER BY teacher")
}
