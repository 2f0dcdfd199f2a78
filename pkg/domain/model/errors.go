package model

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors shared by repositories and use cases
var (
	ErrNotFound   = goerr.New("not found")
	ErrInUse      = goerr.New("resource is still referenced")
	ErrValidation = goerr.New("validation failed")
)

// Context keys for error values
const (
	TemplateIDKey   = "template_id"
	AssessmentIDKey = "assessment_id"
	ObjectiveIDKey  = "objective_id"
	EntryIDKey      = "entry_id"
	NarrativeIDKey  = "narrative_id"
)

// Violation is a single broken constraint found while validating input
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationError collects every violation found in one pass so callers can
// report all problems at once. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Violations []Violation
}

// Add appends a violation for the given field
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasViolations reports whether any violation was recorded
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}

// OrNil returns the error itself when there is at least one violation, nil otherwise
func (e *ValidationError) OrNil() error {
	if !e.HasViolations() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
