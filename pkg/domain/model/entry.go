package model

import (
	"strings"
	"time"

	"github.com/secmon-lab/sirico/pkg/domain/types"
)

// RiskEntry is one identified risk inside an assessment. Scores are derived
// from the likelihood/impact inputs and must be recomputed on every write.
type RiskEntry struct {
	ID           int64
	AssessmentID int64
	ObjectiveID  int64 // 0 when not grouped under an objective
	Sequence     int   // 1-based position inside the assessment
	Title        string
	Description  string
	Cause        string
	Consequence  string

	InherentLikelihood *types.Likelihood
	InherentImpact     *types.Impact
	InherentScore      *int

	ResidualLikelihood *types.Likelihood
	ResidualImpact     *types.Impact
	ResidualScore      *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the user supplied fields of the entry
func (e *RiskEntry) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(e.Title) == "" {
		verr.Add("title", "title is required")
	}
	if e.InherentLikelihood != nil {
		if err := e.InherentLikelihood.Validate(); err != nil {
			verr.Add("inherent_likelihood", "likelihood %d is outside 1..5", *e.InherentLikelihood)
		}
	}
	if e.InherentImpact != nil {
		if err := e.InherentImpact.Validate(); err != nil {
			verr.Add("inherent_impact", "impact %d is outside 1..5", *e.InherentImpact)
		}
	}
	if e.ResidualLikelihood != nil {
		if err := e.ResidualLikelihood.Validate(); err != nil {
			verr.Add("residual_likelihood", "likelihood %d is outside 1..5", *e.ResidualLikelihood)
		}
	}
	if e.ResidualImpact != nil {
		if err := e.ResidualImpact.Validate(); err != nil {
			verr.Add("residual_impact", "impact %d is outside 1..5", *e.ResidualImpact)
		}
	}
	return verr.OrNil()
}

// ScoreEntry returns a copy of e with inherent and residual scores recomputed
// against t. The residual score stays nil unless both residual inputs are set.
func ScoreEntry(e *RiskEntry, t *RiskMapTemplate) *RiskEntry {
	scored := e.Clone()
	scored.InherentScore = ComputeScore(t, e.InherentLikelihood, e.InherentImpact)
	scored.ResidualScore = nil
	if e.ResidualLikelihood != nil && e.ResidualImpact != nil {
		scored.ResidualScore = ComputeScore(t, e.ResidualLikelihood, e.ResidualImpact)
	}
	return scored
}

// Position returns the matrix coordinates of the entry for the given view
func (e *RiskEntry) Position(view types.ScoreView) (*types.Likelihood, *types.Impact) {
	if view == types.ScoreViewResidual {
		return e.ResidualLikelihood, e.ResidualImpact
	}
	return e.InherentLikelihood, e.InherentImpact
}

// Score returns the stored score for the given view
func (e *RiskEntry) Score(view types.ScoreView) *int {
	if view == types.ScoreViewResidual {
		return e.ResidualScore
	}
	return e.InherentScore
}

// Clone returns a deep copy of the entry
func (e *RiskEntry) Clone() *RiskEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.InherentLikelihood = clonePtr(e.InherentLikelihood)
	c.InherentImpact = clonePtr(e.InherentImpact)
	c.InherentScore = clonePtr(e.InherentScore)
	c.ResidualLikelihood = clonePtr(e.ResidualLikelihood)
	c.ResidualImpact = clonePtr(e.ResidualImpact)
	c.ResidualScore = clonePtr(e.ResidualScore)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// EqualScore reports whether two optional scores hold the same value
func EqualScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
