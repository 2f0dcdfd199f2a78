package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/service/narrative"
	"github.com/secmon-lab/sirico/pkg/utils/async"
)

type NarrativeUseCase struct {
	repo    interfaces.Repository
	service narrative.Service
}

func NewNarrativeUseCase(repo interfaces.Repository, service narrative.Service) *NarrativeUseCase {
	return &NarrativeUseCase{
		repo:    repo,
		service: service,
	}
}

// Enabled reports whether an LLM backed service is configured
func (uc *NarrativeUseCase) Enabled() bool {
	return uc.service != nil
}

// Label returns the short narrative label of a score, e.g. "Level 18, Tinggi"
func (uc *NarrativeUseCase) Label(t *model.RiskMapTemplate, score *int) string {
	return model.ScoreLabel(t, score)
}

// GenerateNarrative summarizes the assessment and stores the report
func (uc *NarrativeUseCase) GenerateNarrative(ctx context.Context, assessmentID int64) (*model.NarrativeReport, error) {
	if !uc.Enabled() {
		return nil, ErrNarrativeDisabled
	}
	return uc.generate(ctx, model.NewNarrativeID(), assessmentID)
}

// GenerateNarrativeAsync checks the assessment exists, then generates the
// report in the background. The returned ID can be fetched once it is stored.
func (uc *NarrativeUseCase) GenerateNarrativeAsync(ctx context.Context, assessmentID int64) (model.NarrativeID, error) {
	if !uc.Enabled() {
		return "", ErrNarrativeDisabled
	}
	if _, err := uc.repo.Assessment().Get(ctx, assessmentID); err != nil {
		return "", goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	id := model.NewNarrativeID()
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := uc.generate(ctx, id, assessmentID)
		return err
	})
	return id, nil
}

func (uc *NarrativeUseCase) GetNarrative(ctx context.Context, id model.NarrativeID) (*model.NarrativeReport, error) {
	report, err := uc.repo.Narrative().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get narrative", goerr.V(model.NarrativeIDKey, id))
	}
	return report, nil
}

func (uc *NarrativeUseCase) ListNarratives(ctx context.Context, assessmentID int64) ([]*model.NarrativeReport, error) {
	reports, err := uc.repo.Narrative().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list narratives", goerr.V(model.AssessmentIDKey, assessmentID))
	}
	return reports, nil
}

func (uc *NarrativeUseCase) generate(ctx context.Context, id model.NarrativeID, assessmentID int64) (*model.NarrativeReport, error) {
	input, err := uc.buildInput(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	result, err := uc.service.Summarize(ctx, *input)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to summarize assessment", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	report := &model.NarrativeReport{
		ID:           id,
		AssessmentID: assessmentID,
		Content:      result.Markdown(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.repo.Narrative().Put(ctx, report); err != nil {
		return nil, goerr.Wrap(err, "failed to store narrative", goerr.V(model.NarrativeIDKey, id))
	}

	return report, nil
}

func (uc *NarrativeUseCase) buildInput(ctx context.Context, assessmentID int64) (*narrative.Input, error) {
	snap, err := loadSnapshot(ctx, uc.repo, assessmentID)
	if err != nil {
		return nil, err
	}

	objectives, err := uc.repo.Objective().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list objectives", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	tpl := snap.template
	input := &narrative.Input{
		AssessmentTitle: snap.assessment.Title,
		AssessmentKind:  snap.assessment.Kind.String(),
	}
	if tpl != nil {
		input.TemplateName = tpl.Name
	}

	names := make(map[int64]string, len(objectives))
	for _, o := range objectives {
		names[o.ID] = o.Name
		input.Objectives = append(input.Objectives, narrative.Objective{
			Name:          o.Name,
			KPI:           o.KPI,
			InherentLabel: uc.Label(tpl, o.InherentRiskScore),
			ResidualLabel: uc.Label(tpl, o.ResidualRiskScore),
		})
	}

	for _, e := range snap.entries {
		input.Entries = append(input.Entries, narrative.Entry{
			Sequence:      e.Sequence,
			Title:         e.Title,
			Cause:         e.Cause,
			Consequence:   e.Consequence,
			Objective:     names[e.ObjectiveID],
			InherentLabel: uc.Label(tpl, e.InherentScore),
			ResidualLabel: uc.Label(tpl, e.ResidualScore),
		})
	}

	return input, nil
}
