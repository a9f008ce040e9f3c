package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"sentencescramble/internal/database"
	"sentencescramble/internal/models"
	"sentencescramble/internal/repository"
)

// backupVersion is the format version written into every backup
const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string                   `json:"version"`
	ExportedAt   time.Time                `json:"exported_at"`
	DatabaseType string                   `json:"database_type"`
	Progress     []models.StudentProgress `json:"progress"`
	History      []HistoryBackup          `json:"history"`
	Drafts       []DraftBackup            `json:"drafts"`
}

// HistoryBackup is one teacher's share history
type HistoryBackup struct {
	Teacher string                     `json:"teacher"`
	Entries []models.ShareHistoryEntry `json:"entries"`
}

// DraftBackup is one teacher's saved draft
type DraftBackup struct {
	Teacher string              `json:"teacher"`
	Draft   models.TeacherDraft `json:"draft"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) (*BackupData, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(file)
	if err != nil {
		return nil, err
	}
	zap.L().Info("database exported", zap.String("path", outputPath))
	return backup, nil
}

// ExportToWriter writes a backup to w (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) (*BackupData, error) {
	backup, err := s.collect()
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	zap.L().Info("backup written",
		zap.Int("progress", len(backup.Progress)),
		zap.Int("history", len(backup.History)),
		zap.Int("drafts", len(backup.Drafts)))
	return backup, nil
}

func (s *BackupService) collect() (*BackupData, error) {
	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.GetDialect().DriverName(),
	}

	progress, err := repository.NewProgressRepository(s.db).All()
	if err != nil {
		return nil, fmt.Errorf("failed to export progress: %w", err)
	}
	backup.Progress = progress

	historyRepo := repository.NewHistoryRepository(s.db)
	teachers, err := historyRepo.Teachers()
	if err != nil {
		return nil, fmt.Errorf("failed to export history: %w", err)
	}
	for _, teacher := range teachers {
		entries, err := historyRepo.List(teacher)
		if err != nil {
			return nil, fmt.Errorf("failed to export history for %s: %w", teacher, err)
		}
		backup.History = append(backup.History, HistoryBackup{Teacher: teacher, Entries: entries})
	}

	draftRepo := repository.NewDraftRepository(s.db)
	teachers, err = draftRepo.Teachers()
	if err != nil {
		return nil, fmt.Errorf("failed to export drafts: %w", err)
	}
	for _, teacher := range teachers {
		draft, err := draftRepo.Get(teacher)
		if err != nil {
			return nil, fmt.Errorf("failed to export draft for %s: %w", teacher, err)
		}
		if draft != nil {
			backup.Drafts = append(backup.Drafts, DraftBackup{Teacher: teacher, Draft: *draft})
		}
	}

	return backup, nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string, clearFirst bool) (*BackupData, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file, clearFirst)
}

// ImportFromReader restores a backup from reader in a single transaction.
// Existing rows with the same keys are overwritten; clearFirst empties every
// table first.
func (s *BackupService) ImportFromReader(reader io.Reader, clearFirst bool) (*BackupData, error) {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}

	zap.L().Info("importing backup",
		zap.String("version", backup.Version),
		zap.Time("exported_at", backup.ExportedAt),
		zap.Bool("clear", clearFirst))

	err := s.db.WithTx(func(tx *database.Tx) error {
		if clearFirst {
			if err := clearTables(tx); err != nil {
				return err
			}
		}
		return restore(tx, &backup)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("backup imported",
		zap.Int("progress", len(backup.Progress)),
		zap.Int("history", len(backup.History)),
		zap.Int("drafts", len(backup.Drafts)))
	return &backup, nil
}

func restore(tx *database.Tx, backup *BackupData) error {
	progressRepo := repository.NewProgressRepository(tx)
	for i := range backup.Progress {
		p := backup.Progress[i]
		if err := progressRepo.Save(&p); err != nil {
			return fmt.Errorf("failed to import progress %s: %w", p.StorageKey(), err)
		}
	}

	historyRepo := repository.NewHistoryRepository(tx)
	for _, h := range backup.History {
		for _, entry := range h.Entries {
			if err := historyRepo.Restore(h.Teacher, entry); err != nil {
				return fmt.Errorf("failed to import history %s/%s: %w", h.Teacher, entry.ID, err)
			}
		}
	}

	draftRepo := repository.NewDraftRepository(tx)
	for _, d := range backup.Drafts {
		draft := d.Draft
		if err := draftRepo.Save(d.Teacher, &draft); err != nil {
			return fmt.Errorf("failed to import draft for %s: %w", d.Teacher, err)
		}
	}
	return nil
}

// Clear deletes every stored progress record, history entry and draft
func (s *BackupService) Clear() error {
	return s.db.WithTx(clearTables)
}

func clearTables(tx *database.Tx) error {
	for _, table := range []string{"progress", "share_history", "teacher_drafts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
		zap.L().Info("cleared table", zap.String("table", table))
	}
	return nil
}
