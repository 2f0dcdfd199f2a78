package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

// ValidationIssue is one stored derived value that differs from a recompute
type ValidationIssue struct {
	AssessmentID int64
	EntryID      int64
	ObjectiveID  int64
	Field        string
	Expected     string
	Actual       string
}

// ValidationResult holds the results of DB validation
type ValidationResult struct {
	AssessmentsChecked int
	Issues             []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateDB finds stale scores: entries whose stored scores differ from a
// recompute against the bound template, and objectives whose rollup differs
// from their entries. It does NOT modify any data; RecomputeAssessment fixes
// what it reports.
func (uc *UseCases) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	assessments, err := uc.repo.Assessment().List(ctx, "")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}

	result := &ValidationResult{}
	for _, a := range assessments {
		if err := uc.validateAssessment(ctx, a.ID, result); err != nil {
			return nil, err
		}
		result.AssessmentsChecked++
	}

	return result, nil
}

func (uc *UseCases) validateAssessment(ctx context.Context, assessmentID int64, result *ValidationResult) error {
	snap, err := loadSnapshot(ctx, uc.repo, assessmentID)
	if err != nil {
		return err
	}

	byObjective := make(map[int64][]*model.RiskEntry)
	for _, e := range snap.entries {
		expected := model.ScoreEntry(e, snap.template)
		if !model.EqualScore(e.InherentScore, expected.InherentScore) {
			result.AddIssue(ValidationIssue{
				AssessmentID: assessmentID,
				EntryID:      e.ID,
				Field:        "inherent_score",
				Expected:     formatScore(expected.InherentScore),
				Actual:       formatScore(e.InherentScore),
			})
		}
		if !model.EqualScore(e.ResidualScore, expected.ResidualScore) {
			result.AddIssue(ValidationIssue{
				AssessmentID: assessmentID,
				EntryID:      e.ID,
				Field:        "residual_score",
				Expected:     formatScore(expected.ResidualScore),
				Actual:       formatScore(e.ResidualScore),
			})
		}
		if e.ObjectiveID != 0 {
			byObjective[e.ObjectiveID] = append(byObjective[e.ObjectiveID], e)
		}
	}

	objectives, err := uc.repo.Objective().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return goerr.Wrap(err, "failed to list objectives", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	for _, o := range objectives {
		expected := model.ComputeRollup(byObjective[o.ID])
		if !model.EqualScore(o.InherentRiskScore, expected.InherentRiskScore) {
			result.AddIssue(ValidationIssue{
				AssessmentID: assessmentID,
				ObjectiveID:  o.ID,
				Field:        "inherent_risk_score",
				Expected:     formatScore(expected.InherentRiskScore),
				Actual:       formatScore(o.InherentRiskScore),
			})
		}
		if !model.EqualScore(o.ResidualRiskScore, expected.ResidualRiskScore) {
			result.AddIssue(ValidationIssue{
				AssessmentID: assessmentID,
				ObjectiveID:  o.ID,
				Field:        "residual_risk_score",
				Expected:     formatScore(expected.ResidualRiskScore),
				Actual:       formatScore(o.ResidualRiskScore),
			})
		}
	}

	return nil
}

func formatScore(score *int) string {
	if score == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *score)
}
