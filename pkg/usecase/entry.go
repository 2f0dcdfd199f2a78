package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
	"github.com/secmon-lab/sirico/pkg/utils/metrics"
)

// EntryInput holds the user editable fields of a risk entry
type EntryInput struct {
	ObjectiveID        int64
	Title              string
	Description        string
	Cause              string
	Consequence        string
	InherentLikelihood *types.Likelihood
	InherentImpact     *types.Impact
	ResidualLikelihood *types.Likelihood
	ResidualImpact     *types.Impact
}

func (in EntryInput) apply(e *model.RiskEntry) {
	e.ObjectiveID = in.ObjectiveID
	e.Title = in.Title
	e.Description = in.Description
	e.Cause = in.Cause
	e.Consequence = in.Consequence
	e.InherentLikelihood = in.InherentLikelihood
	e.InherentImpact = in.InherentImpact
	e.ResidualLikelihood = in.ResidualLikelihood
	e.ResidualImpact = in.ResidualImpact
}

// RiskEntryUseCase is the only write path for risk entries. Every create and
// update is scored against the bound template and followed by a rollup of
// the affected objectives.
type RiskEntryUseCase struct {
	repo   interfaces.Repository
	scorer *Scorer
}

// NewRiskEntryUseCase panics when scorer is nil
func NewRiskEntryUseCase(repo interfaces.Repository, scorer *Scorer) *RiskEntryUseCase {
	if scorer == nil {
		panic("usecase: RiskEntryUseCase requires a Scorer")
	}
	return &RiskEntryUseCase{
		repo:   repo,
		scorer: scorer,
	}
}

func (uc *RiskEntryUseCase) CreateEntry(ctx context.Context, assessmentID int64, input EntryInput) (*model.RiskEntry, error) {
	entry := &model.RiskEntry{AssessmentID: assessmentID}
	input.apply(entry)
	if err := entry.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk entry")
	}

	a, err := uc.repo.Assessment().Get(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, assessmentID))
	}
	if err := uc.checkObjective(ctx, a.ID, entry.ObjectiveID); err != nil {
		return nil, err
	}

	tpl, err := loadTemplate(ctx, uc.repo, a.TemplateID)
	if err != nil {
		return nil, err
	}

	created, err := uc.repo.RiskEntry().Create(ctx, uc.scorer.ScoreEntry(entry, tpl))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk entry", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	if err := uc.rollupAffected(ctx, created.ObjectiveID); err != nil {
		return nil, err
	}

	return created, nil
}

func (uc *RiskEntryUseCase) UpdateEntry(ctx context.Context, id int64, input EntryInput) (*model.RiskEntry, error) {
	existing, err := uc.repo.RiskEntry().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk entry", goerr.V(model.EntryIDKey, id))
	}

	entry := existing.Clone()
	input.apply(entry)
	if err := entry.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk entry", goerr.V(model.EntryIDKey, id))
	}

	a, err := uc.repo.Assessment().Get(ctx, existing.AssessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, existing.AssessmentID))
	}
	if err := uc.checkObjective(ctx, a.ID, entry.ObjectiveID); err != nil {
		return nil, err
	}

	tpl, err := loadTemplate(ctx, uc.repo, a.TemplateID)
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.RiskEntry().Update(ctx, uc.scorer.ScoreEntry(entry, tpl))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk entry", goerr.V(model.EntryIDKey, id))
	}

	// Moving an entry changes the rollup of both objectives
	if err := uc.rollupAffected(ctx, existing.ObjectiveID, updated.ObjectiveID); err != nil {
		return nil, err
	}

	return updated, nil
}

func (uc *RiskEntryUseCase) DeleteEntry(ctx context.Context, id int64) error {
	existing, err := uc.repo.RiskEntry().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get risk entry", goerr.V(model.EntryIDKey, id))
	}

	if err := uc.repo.RiskEntry().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete risk entry", goerr.V(model.EntryIDKey, id))
	}

	return uc.rollupAffected(ctx, existing.ObjectiveID)
}

func (uc *RiskEntryUseCase) GetEntry(ctx context.Context, id int64) (*model.RiskEntry, error) {
	entry, err := uc.repo.RiskEntry().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk entry", goerr.V(model.EntryIDKey, id))
	}
	return entry, nil
}

func (uc *RiskEntryUseCase) ListEntries(ctx context.Context, assessmentID int64) ([]*model.RiskEntry, error) {
	if _, err := uc.repo.Assessment().Get(ctx, assessmentID); err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	entries, err := uc.repo.RiskEntry().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk entries", goerr.V(model.AssessmentIDKey, assessmentID))
	}
	return entries, nil
}

// RecomputeRollup recalculates the worst case scores of an objective from its
// current entries and persists them
func (uc *RiskEntryUseCase) RecomputeRollup(ctx context.Context, objectiveID int64) (*model.Objective, error) {
	entries, err := uc.repo.RiskEntry().ListByObjective(ctx, objectiveID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk entries", goerr.V(model.ObjectiveIDKey, objectiveID))
	}

	updated, err := uc.repo.Objective().UpdateRollup(ctx, objectiveID, model.ComputeRollup(entries))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update rollup", goerr.V(model.ObjectiveIDKey, objectiveID))
	}

	metrics.RollupsRecomputed.Inc()
	return updated, nil
}

// RecomputeResult summarizes a RecomputeAssessment run
type RecomputeResult struct {
	EntriesRescored   int
	ObjectivesUpdated int
}

// RecomputeAssessment rescores every entry against the currently bound
// template and recomputes every objective rollup. Running it twice in a row
// changes nothing the second time.
func (uc *RiskEntryUseCase) RecomputeAssessment(ctx context.Context, assessmentID int64) (*RecomputeResult, error) {
	snap, err := loadSnapshot(ctx, uc.repo, assessmentID)
	if err != nil {
		return nil, err
	}

	var changed []*model.RiskEntry
	for _, e := range snap.entries {
		scored := uc.scorer.ScoreEntry(e, snap.template)
		if !model.EqualScore(e.InherentScore, scored.InherentScore) ||
			!model.EqualScore(e.ResidualScore, scored.ResidualScore) {
			changed = append(changed, scored)
		}
	}

	if err := uc.repo.RiskEntry().UpdateMany(ctx, changed); err != nil {
		return nil, goerr.Wrap(err, "failed to update rescored entries", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	objectives, err := uc.repo.Objective().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list objectives", goerr.V(model.AssessmentIDKey, assessmentID))
	}
	for _, o := range objectives {
		if _, err := uc.RecomputeRollup(ctx, o.ID); err != nil {
			return nil, err
		}
	}

	logging.From(ctx).Info("Recomputed assessment",
		"assessment_id", assessmentID,
		"entries_rescored", len(changed),
		"objectives_updated", len(objectives),
	)

	return &RecomputeResult{
		EntriesRescored:   len(changed),
		ObjectivesUpdated: len(objectives),
	}, nil
}

func (uc *RiskEntryUseCase) rollupAffected(ctx context.Context, objectiveIDs ...int64) error {
	seen := make(map[int64]bool, len(objectiveIDs))
	for _, id := range objectiveIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true

		if _, err := uc.RecomputeRollup(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// checkObjective verifies that objectiveID, when set, belongs to the assessment
func (uc *RiskEntryUseCase) checkObjective(ctx context.Context, assessmentID, objectiveID int64) error {
	if objectiveID == 0 {
		return nil
	}

	o, err := uc.repo.Objective().Get(ctx, objectiveID)
	if err != nil && !isNotFound(err) {
		return goerr.Wrap(err, "failed to get objective", goerr.V(model.ObjectiveIDKey, objectiveID))
	}

	verr := &model.ValidationError{}
	switch {
	case o == nil:
		verr.Add("objective_id", "objective %d does not exist", objectiveID)
	case o.AssessmentID != assessmentID:
		verr.Add("objective_id", "objective %d belongs to another assessment", objectiveID)
	}
	if err := verr.OrNil(); err != nil {
		return goerr.Wrap(err, "invalid objective reference", goerr.V(model.ObjectiveIDKey, objectiveID))
	}
	return nil
}
