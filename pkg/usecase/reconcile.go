package usecase

import (
	"context"

	"github.com/secmon-lab/sirico/pkg/utils/logging"
)

// ReconcileResult summarizes one Reconcile run
type ReconcileResult struct {
	AssessmentsChecked  int
	AssessmentsRepaired int
	EntriesRescored     int
}

// Reconcile runs ValidateDB and recomputes every assessment that has stale
// scores or rollups. Assessments without issues are left untouched.
func (uc *UseCases) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	validation, err := uc.ValidateDB(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{AssessmentsChecked: validation.AssessmentsChecked}
	seen := make(map[int64]bool)
	for _, issue := range validation.Issues {
		if seen[issue.AssessmentID] {
			continue
		}
		seen[issue.AssessmentID] = true

		recomputed, err := uc.RiskEntry.RecomputeAssessment(ctx, issue.AssessmentID)
		if err != nil {
			return nil, err
		}
		result.AssessmentsRepaired++
		result.EntriesRescored += recomputed.EntriesRescored
	}

	if result.AssessmentsRepaired > 0 {
		logging.From(ctx).Warn("Repaired stale scores",
			"assessments", result.AssessmentsRepaired,
			"entries", result.EntriesRescored,
		)
	}
	return result, nil
}
