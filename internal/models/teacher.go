package models

import "time"

// ShareHistoryEntry records a link a teacher has generated
type ShareHistoryEntry struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Link                   string    `json:"link"`
	Instructions           string    `json:"instructions"`
	CreatedAt              time.Time `json:"createdAt"`
	AttemptsPerItem        string    `json:"attemptsPerItem"`
	RevealAfterMaxAttempts bool      `json:"revealAfterMaxAttempts"`
	Template               string    `json:"template"`
	Sentences              []string  `json:"sentences"`
	QRFileName             string    `json:"qrFileName"`
}

// TeacherDraft is the unsent state of the authoring form
type TeacherDraft struct {
	Title                  string    `json:"title"`
	Sentences              string    `json:"sentences"`
	AttemptsPerItem        string    `json:"attemptsPerItem"`
	RevealAfterMaxAttempts *bool     `json:"revealAfterMaxAttempts,omitempty"`
	InstructionsTemplate   string    `json:"instructionsTemplate"`
	UpdatedAt              time.Time `json:"updatedAt"`
}
