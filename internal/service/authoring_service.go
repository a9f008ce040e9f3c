package service

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"sentencescramble/internal/encoding"
	"sentencescramble/internal/ids"
	"sentencescramble/internal/models"
	"sentencescramble/internal/repository"
	"sentencescramble/internal/sentences"
	"sentencescramble/internal/validation"
)

var (
	ErrAssignmentInvalid = errors.New("assignment is invalid")
	ErrEncodingFailed    = errors.New("failed to generate a shareable link")
)

// DefaultInstructionsTemplate is used when a teacher has not written their own
const DefaultInstructionsTemplate = "Homework: {{title}}\n\nLink: {{link}}\n\nInstructions: Build each sentence. When you are done, tap 'Finish' and send the results back to me."

const (
	defaultDraftAttempts = "3"
	qrFileNameMaxLength  = 40
	qrServiceURL         = "https://api.qrserver.com/v1/create-qr-code/?size=240x240&data="
	instructionsDate     = "2 Jan 2006"
)

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

// AuthoringRequest is the teacher's form when generating a link
type AuthoringRequest struct {
	Teacher                string `json:"teacher"`
	Title                  string `json:"title"`
	Sentences              string `json:"sentences"`
	AttemptsPerItem        string `json:"attemptsPerItem"`
	RevealAfterMaxAttempts bool   `json:"revealAfterMaxAttempts"`
	InstructionsTemplate   string `json:"instructionsTemplate"`
}

// AuthoringResult is a generated assignment and everything needed to share it
type AuthoringResult struct {
	Assignment   models.Assignment        `json:"assignment"`
	Link         string                   `json:"link"`
	Format       encoding.Format          `json:"format"`
	Instructions string                   `json:"instructions"`
	QRFileName   string                   `json:"qrFileName"`
	QRURL        string                   `json:"qrUrl"`
	Entry        models.ShareHistoryEntry `json:"entry"`
}

// AuthoringService turns a teacher's form into a share link
type AuthoringService struct {
	historyRepo *repository.HistoryRepository
	draftRepo   *repository.DraftRepository
	baseURL     string
	now         func() time.Time
}

// NewAuthoringService creates a new authoring service. Links are built on baseURL.
func NewAuthoringService(historyRepo *repository.HistoryRepository, draftRepo *repository.DraftRepository, baseURL string) *AuthoringService {
	return &AuthoringService{
		historyRepo: historyRepo,
		draftRepo:   draftRepo,
		baseURL:     baseURL,
		now:         time.Now,
	}
}

// CreateAssignment validates the form, encodes the assignment into a link and
// records it in the teacher's share history when a teacher key is given
func (s *AuthoringService) CreateAssignment(req AuthoringRequest) (*AuthoringResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	parsed := sentences.ParseTeacherInput(req.Sentences)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrAssignmentInvalid,
			validation.ValidationError{Field: "sentences", Message: "please provide at least one valid sentence"})
	}

	options, err := BuildOptions(req.AttemptsPerItem, req.RevealAfterMaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssignmentInvalid, err)
	}

	createdAt := s.now().UTC()
	id, err := ids.NewAssignmentID(createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignment id: %w", err)
	}

	assignment := models.Assignment{
		ID:        id,
		Title:     req.Title,
		Version:   1,
		Seed:      ids.NewSeed(),
		Options:   options,
		Sentences: parsed,
	}

	link := ShareLink(s.baseURL, assignment)
	if link == "" {
		return nil, ErrEncodingFailed
	}
	format := encoding.FragmentFormat(link)

	template := ensureTemplate(req.InstructionsTemplate)
	instructions := BuildInstructions(template, req.Title, link, req.AttemptsPerItem, createdAt)
	qrFileName := BuildQRFileName(req.Title)

	texts := make([]string, len(parsed))
	for i, sentence := range parsed {
		texts[i] = sentence.Text
	}

	entry := models.ShareHistoryEntry{
		ID:                     assignment.ID,
		Title:                  req.Title,
		Link:                   link,
		Instructions:           instructions,
		CreatedAt:              createdAt,
		AttemptsPerItem:        attemptsLabel(req.AttemptsPerItem),
		RevealAfterMaxAttempts: req.RevealAfterMaxAttempts,
		Template:               template,
		Sentences:              texts,
		QRFileName:             qrFileName,
	}

	if req.Teacher != "" {
		if err := s.historyRepo.Add(req.Teacher, entry); err != nil {
			return nil, fmt.Errorf("failed to record share history: %w", err)
		}
	}

	zap.L().Info("assignment created",
		zap.String("id", assignment.ID),
		zap.Int("sentences", len(parsed)),
		zap.String("format", string(format)))

	return &AuthoringResult{
		Assignment:   assignment,
		Link:         link,
		Format:       format,
		Instructions: instructions,
		QRFileName:   qrFileName,
		QRURL:        BuildQRURL(link),
		Entry:        entry,
	}, nil
}

func validateRequest(req AuthoringRequest) error {
	if req.Teacher != "" {
		if err := validation.ValidateTeacherKey(req.Teacher); err != nil {
			return fmt.Errorf("%w: %w", ErrAssignmentInvalid, err)
		}
	}
	if err := validation.ValidateTitle(req.Title); err != nil {
		return fmt.Errorf("%w: %w", ErrAssignmentInvalid, err)
	}
	if err := validation.ValidateSentences(req.Sentences); err != nil {
		return fmt.Errorf("%w: %w", ErrAssignmentInvalid, err)
	}
	return nil
}

// History returns a teacher's share history, newest first
func (s *AuthoringService) History(teacher string) ([]models.ShareHistoryEntry, error) {
	if err := validation.ValidateTeacherKey(teacher); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.List(teacher)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ShareHistoryEntry{}
	}
	return entries, nil
}

// DeleteHistory removes one link from a teacher's share history
func (s *AuthoringService) DeleteHistory(teacher, id string) error {
	if err := validation.ValidateTeacherKey(teacher); err != nil {
		return err
	}
	return s.historyRepo.Delete(teacher, id)
}

// LoadDraft returns the teacher's saved form, or a blank form with defaults
func (s *AuthoringService) LoadDraft(teacher string) (*models.TeacherDraft, error) {
	if err := validation.ValidateTeacherKey(teacher); err != nil {
		return nil, err
	}
	draft, err := s.draftRepo.Get(teacher)
	if err != nil {
		return nil, err
	}
	return sanitizeDraft(draft), nil
}

// SaveDraft stores the teacher's unsent form
func (s *AuthoringService) SaveDraft(teacher string, draft models.TeacherDraft) (*models.TeacherDraft, error) {
	if err := validation.ValidateTeacherKey(teacher); err != nil {
		return nil, err
	}
	clean := sanitizeDraft(&draft)
	clean.UpdatedAt = s.now().UTC()
	if err := s.draftRepo.Save(teacher, clean); err != nil {
		return nil, err
	}
	return clean, nil
}

func sanitizeDraft(draft *models.TeacherDraft) *models.TeacherDraft {
	if draft == nil {
		draft = &models.TeacherDraft{}
	}
	clean := *draft
	if strings.TrimSpace(clean.AttemptsPerItem) == "" {
		clean.AttemptsPerItem = defaultDraftAttempts
	}
	if clean.RevealAfterMaxAttempts == nil {
		clean.RevealAfterMaxAttempts = models.BoolPtr(true)
	}
	clean.InstructionsTemplate = ensureTemplate(clean.InstructionsTemplate)
	return &clean
}

// BuildOptions builds assignment options from the form's attempts setting
// ("unlimited" or a positive integer) and reveal checkbox
func BuildOptions(attempts string, revealAfterMax bool) (models.AssignmentOptions, error) {
	if err := validation.ValidateAttempts(attempts); err != nil {
		return models.AssignmentOptions{}, err
	}
	parsed, _ := models.ParseAttempts(attempts)
	options := models.DefaultOptions()
	options.AttemptsPerItem = models.AttemptsPtr(parsed)
	options.RevealAfterMax = models.BoolPtr(revealAfterMax)
	options.RevealAnswerAfterMaxAttempts = models.BoolPtr(revealAfterMax)
	return options, nil
}

// ShareLink appends the encoded assignment to baseURL, replacing any fragment.
// Returns "" when the assignment cannot be encoded.
func ShareLink(baseURL string, a models.Assignment) string {
	fragment := encoding.EncodeFragment(a)
	if fragment == "" {
		return ""
	}
	if i := strings.IndexByte(baseURL, '#'); i >= 0 {
		baseURL = baseURL[:i]
	}
	return baseURL + fragment
}

// BuildInstructions fills the {{title}}, {{link}}, {{attempts}} and {{date}} placeholders
func BuildInstructions(template, title, link, attempts string, createdAt time.Time) string {
	if strings.TrimSpace(title) == "" {
		title = "Assignment"
	}
	return strings.NewReplacer(
		"{{title}}", title,
		"{{link}}", link,
		"{{attempts}}", describeAttempts(attempts),
		"{{date}}", createdAt.Format(instructionsDate),
	).Replace(ensureTemplate(template))
}

func describeAttempts(attempts string) string {
	parsed, err := models.ParseAttempts(attempts)
	if err != nil || parsed.IsUnlimited() {
		return "Unlimited"
	}
	return fmt.Sprintf("%d attempts per item", parsed.Limit())
}

func attemptsLabel(attempts string) string {
	parsed, err := models.ParseAttempts(attempts)
	if err != nil {
		return attempts
	}
	return parsed.String()
}

func ensureTemplate(template string) string {
	if strings.TrimSpace(template) == "" {
		return DefaultInstructionsTemplate
	}
	return template
}

// BuildQRFileName derives a download name like "my-homework-qr.png" from a title
func BuildQRFileName(title string) string {
	slug := slugInvalidRe.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > qrFileNameMaxLength {
		slug = slug[:qrFileNameMaxLength]
	}
	if slug == "" {
		slug = "assignment"
	}
	return slug + "-qr.png"
}

// BuildQRURL returns the image URL of a QR code for link, or "" without a link
func BuildQRURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	return qrServiceURL + url.QueryEscape(link)
}
