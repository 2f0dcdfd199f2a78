package model

import (
	"strings"
	"time"

	"github.com/secmon-lab/sirico/pkg/domain/types"
)

// Assessment is a container of risk entries produced by one workflow
// (basic, madya, AI assisted, BPR, RSCA or the risk register). All of its
// entries are scored against the bound template.
type Assessment struct {
	ID          int64
	Kind        types.AssessmentKind
	Title       string
	Description string
	OwnerID     string
	TemplateID  int64 // 0 when no template is bound
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the user supplied fields of the assessment
func (a *Assessment) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(a.Title) == "" {
		verr.Add("title", "title is required")
	}
	if !a.Kind.IsValid() {
		verr.Add("kind", "unknown assessment kind %q", a.Kind)
	}
	return verr.OrNil()
}
