package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"sentencescramble/internal/ids"
	"sentencescramble/internal/models"
	"sentencescramble/internal/repository"
	"sentencescramble/internal/summary"
	"sentencescramble/internal/validation"
)

var (
	ErrProgressNotFound = errors.New("progress not found")
	ErrAlreadyFinished  = errors.New("assignment already finished")
	ErrNotCurrentItem   = errors.New("sentence is not the current item")
)

// Outcome is what a student sees after submitting or revealing
type Outcome struct {
	Correct      bool                    `json:"correct"`
	Revealed     bool                    `json:"revealed"`
	AttemptsUsed int                     `json:"attemptsUsed"`
	AttemptsLeft *int                    `json:"attemptsLeft,omitempty"`
	Answer       string                  `json:"answer,omitempty"`
	Finished     bool                    `json:"finished"`
	Progress     *models.StudentProgress `json:"progress"`
}

// ProgressService records a student's way through an assignment
type ProgressService struct {
	progressRepo *repository.ProgressRepository
	play         *PlayService
	now          func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(progressRepo *repository.ProgressRepository, play *PlayService) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		play:         play,
		now:          time.Now,
	}
}

// Start resumes the student's saved progress on this version of the
// assignment, or begins a new attempt. The bool reports a resume.
func (s *ProgressService) Start(a *models.Assignment, student string) (*models.StudentProgress, bool, error) {
	if err := validation.ValidateStudentName(student); err != nil {
		return nil, false, err
	}
	student = strings.TrimSpace(student)

	existing, err := s.progressRepo.Get(a.ID, student)
	if err != nil {
		return nil, false, err
	}
	if existing != nil && existing.Version == a.Version {
		existing.Summary = summary.Normalize(*existing, a.Options.MaxAttempts())
		return existing, true, nil
	}

	p, err := s.fresh(a, student)
	return p, false, err
}

// Reset discards saved progress and begins a new attempt
func (s *ProgressService) Reset(a *models.Assignment, student string) (*models.StudentProgress, error) {
	if err := validation.ValidateStudentName(student); err != nil {
		return nil, err
	}
	return s.fresh(a, strings.TrimSpace(student))
}

func (s *ProgressService) fresh(a *models.Assignment, student string) (*models.StudentProgress, error) {
	p := &models.StudentProgress{
		AssignmentID: a.ID,
		Version:      a.Version,
		Student:      models.Student{Name: student},
		Results:      []models.Result{},
		Current:      &models.CurrentItem{Index: 0},
	}
	if err := s.save(a, p); err != nil {
		return nil, err
	}
	zap.L().Info("progress started",
		zap.String("assignment_id", a.ID),
		zap.String("student", student))
	return p, nil
}

// Load returns the student's saved progress on the assignment
func (s *ProgressService) Load(assignmentID, student string) (*models.StudentProgress, error) {
	p, err := s.progressRepo.Get(assignmentID, strings.TrimSpace(student))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProgressNotFound
	}
	return p, nil
}

func (s *ProgressService) current(a *models.Assignment, student string, index int) (*models.StudentProgress, error) {
	p, err := s.Load(a.ID, student)
	if err != nil {
		return nil, err
	}
	if p.Version != a.Version {
		return nil, fmt.Errorf("%w: saved for version %d", ErrProgressNotFound, p.Version)
	}
	if p.NextIndex() >= len(a.Sentences) {
		return nil, ErrAlreadyFinished
	}
	if index != p.NextIndex() {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrNotCurrentItem, p.NextIndex(), index)
	}
	if p.Current == nil || p.Current.Index != index {
		p.Current = &models.CurrentItem{Index: index}
	}
	return p, nil
}

// Submit checks an answer for the current item. A wrong answer uses up an
// attempt; once the per-item limit is reached the item is closed, revealed
// when the assignment allows it.
func (s *ProgressService) Submit(a *models.Assignment, student string, index int, answer []string) (*Outcome, error) {
	p, err := s.current(a, student, index)
	if err != nil {
		return nil, err
	}

	check, err := s.play.Check(a, index, answer)
	if err != nil {
		return nil, err
	}

	p.Current.AttemptsUsed++
	outcome := &Outcome{Correct: check.Correct, AttemptsUsed: p.Current.AttemptsUsed}
	maxAttempts := a.Options.MaxAttempts()

	switch {
	case check.Correct:
		s.closeItem(p, models.Result{Index: index, OK: true, Attempts: p.Current.AttemptsUsed})
	case maxAttempts > 0 && p.Current.AttemptsUsed >= maxAttempts:
		revealed := a.Options.RevealsAfterMax()
		s.closeItem(p, models.Result{Index: index, Attempts: p.Current.AttemptsUsed, Revealed: revealed})
		outcome.Revealed = revealed
		outcome.AttemptsLeft = intPtr(0)
	default:
		if maxAttempts > 0 {
			outcome.AttemptsLeft = intPtr(maxAttempts - p.Current.AttemptsUsed)
		}
	}

	if err := s.save(a, p); err != nil {
		return nil, err
	}

	outcome.Finished = p.NextIndex() >= len(a.Sentences)
	outcome.Progress = p
	if showsAnswer(a, outcome) {
		outcome.Answer = check.Answer
	}
	return outcome, nil
}

// Reveal gives up on the current item and shows its answer
func (s *ProgressService) Reveal(a *models.Assignment, student string, index int) (*Outcome, error) {
	p, err := s.current(a, student, index)
	if err != nil {
		return nil, err
	}

	used := p.Current.AttemptsUsed
	s.closeItem(p, models.Result{Index: index, Attempts: used, Revealed: true})
	if err := s.save(a, p); err != nil {
		return nil, err
	}

	return &Outcome{
		Revealed:     true,
		AttemptsUsed: used,
		Answer:       a.Sentences[index].Text,
		Finished:     p.NextIndex() >= len(a.Sentences),
		Progress:     p,
	}, nil
}

func (s *ProgressService) closeItem(p *models.StudentProgress, r models.Result) {
	p.Results = append(p.Results, r)
	p.Current = &models.CurrentItem{Index: p.NextIndex()}
}

func (s *ProgressService) save(a *models.Assignment, p *models.StudentProgress) error {
	if p.NextIndex() >= len(a.Sentences) {
		p.Current = nil
	}
	p.Summary = summary.Compute(p.Results, a.Options.MaxAttempts())
	p.UpdatedAt = s.now().UTC()
	if err := s.progressRepo.Save(p); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// showsAnswer decides whether the correct sentence goes back to the student.
// End-only feedback keeps answers back until the last item is closed.
func showsAnswer(a *models.Assignment, o *Outcome) bool {
	if o.Correct {
		return false
	}
	if o.Revealed {
		return true
	}
	return a.Options.Feedback != models.FeedbackEndOnly || o.Finished
}

func intPtr(n int) *int {
	return &n
}

// ShareText is the plain-text report a student sends back to the teacher
func ShareText(a *models.Assignment, p *models.StudentProgress) string {
	items := make([]string, len(p.Results))
	for i, r := range p.Results {
		status := "❌"
		if r.OK {
			status = "✅"
		}
		if r.Revealed {
			status += "(r)"
		}
		items[i] = strconv.Itoa(r.Index+1) + status
	}

	name := p.Student.Name
	if name == "" {
		name = "N/A"
	}
	sum := summary.Normalize(*p, a.Options.MaxAttempts())

	var b strings.Builder
	fmt.Fprintf(&b, "Homework: %s (v%d)\n", a.Title, a.Version)
	fmt.Fprintf(&b, "Student: %s\n", name)
	fmt.Fprintf(&b, "Result: %d/%d correct (%d reveals)\n", sum.SolvedWithinMax, len(a.Sentences), sum.Reveals)
	fmt.Fprintf(&b, "Items: %s\n", strings.Join(items, " "))
	fmt.Fprintf(&b, "ID: %s", ids.ShortID(a.ID))
	return b.String()
}
