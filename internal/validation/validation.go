package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"sentencescramble/internal/models"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	teacherRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{1,64}$`)
)

const (
	maxTitleLength    = 200
	maxNameLength     = 80
	maxSentencesChars = 20000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateTitle checks an assignment title
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ValidationError{Field: "title", Message: "please enter a title"}
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", maxTitleLength)}
	}
	return nil
}

// ValidateSentences checks the raw sentence box before it is parsed
func ValidateSentences(text string) error {
	if strings.TrimSpace(text) == "" {
		return ValidationError{Field: "sentences", Message: "please enter at least one sentence"}
	}
	if utf8.RuneCountInString(text) > maxSentencesChars {
		return ValidationError{Field: "sentences", Message: fmt.Sprintf("sentences must be at most %d characters", maxSentencesChars)}
	}
	return nil
}

// ValidateAttempts checks the attempts-per-item setting ("unlimited" or a positive integer)
func ValidateAttempts(value string) error {
	if _, err := models.ParseAttempts(value); err != nil {
		return ValidationError{Field: "attemptsPerItem", Message: "attempts must be a positive number or \"unlimited\""}
	}
	return nil
}

// ValidateStudentName checks the name a student plays under
func ValidateStudentName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "student", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ValidationError{Field: "student", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}
	if strings.Contains(name, "::") {
		return ValidationError{Field: "student", Message: "name must not contain \"::\""}
	}
	return nil
}

// ValidateTeacherKey checks the key a teacher's history and draft are stored under
func ValidateTeacherKey(key string) error {
	if !teacherRegex.MatchString(key) {
		return ValidationError{Field: "teacher", Message: "teacher key must be 1-64 letters, digits, '.', '_' or '-'"}
	}
	return nil
}
