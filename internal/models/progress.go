package models

import (
	"encoding/json"
	"time"
)

// Result is the outcome of one sentence. Results are appended, never edited.
type Result struct {
	Index    int  `json:"index"`
	OK       bool `json:"ok"`
	Attempts int  `json:"attempts"`
	Revealed bool `json:"revealed"`
}

// Summary aggregates a student's results
type Summary struct {
	Total           int     `json:"total"`
	SolvedWithinMax int     `json:"solvedWithinMax"`
	FirstTry        int     `json:"firstTry"`
	Reveals         int     `json:"reveals"`
	AvgAttempts     float64 `json:"avgAttempts"`
}

// UnmarshalJSON accepts summaries saved before solvedWithinMax existed,
// which recorded the same count as "correct".
func (s *Summary) UnmarshalJSON(data []byte) error {
	var raw struct {
		Total           int      `json:"total"`
		SolvedWithinMax *int     `json:"solvedWithinMax"`
		Correct         *int     `json:"correct"`
		FirstTry        int      `json:"firstTry"`
		Reveals         int      `json:"reveals"`
		AvgAttempts     *float64 `json:"avgAttempts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Summary{
		Total:    raw.Total,
		FirstTry: raw.FirstTry,
		Reveals:  raw.Reveals,
	}
	switch {
	case raw.SolvedWithinMax != nil:
		s.SolvedWithinMax = *raw.SolvedWithinMax
	case raw.Correct != nil:
		s.SolvedWithinMax = *raw.Correct
	}
	if raw.AvgAttempts != nil {
		s.AvgAttempts = *raw.AvgAttempts
	}
	return nil
}

// Student identifies who is playing
type Student struct {
	Name string `json:"name"`
}

// CurrentItem tracks the sentence in play
type CurrentItem struct {
	Index        int  `json:"index"`
	AttemptsUsed int  `json:"attemptsUsed"`
	Revealed     bool `json:"revealed"`
}

// StudentProgress is the persisted state of one student on one assignment
type StudentProgress struct {
	AssignmentID string       `json:"assignmentId"`
	Version      int          `json:"version"`
	Student      Student      `json:"student"`
	Summary      Summary      `json:"summary"`
	Results      []Result     `json:"results"`
	Current      *CurrentItem `json:"current,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt,omitzero"`
}

// StorageKey returns the key progress is stored under
func (p StudentProgress) StorageKey() string {
	return ProgressKey(p.AssignmentID, p.Student.Name)
}

// NextIndex returns the index of the first sentence without a result
func (p StudentProgress) NextIndex() int {
	return len(p.Results)
}

// ProgressKey builds the "ss::<assignmentId>::<studentName>" storage key
func ProgressKey(assignmentID, studentName string) string {
	return "ss::" + assignmentID + "::" + studentName
}
