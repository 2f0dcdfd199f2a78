package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
	"github.com/secmon-lab/sirico/pkg/utils/metrics"
)

type TemplateUseCase struct {
	repo    interfaces.Repository
	entries *RiskEntryUseCase
}

func NewTemplateUseCase(repo interfaces.Repository, entries *RiskEntryUseCase) *TemplateUseCase {
	return &TemplateUseCase{
		repo:    repo,
		entries: entries,
	}
}

func (uc *TemplateUseCase) GetTemplate(ctx context.Context, id int64) (*model.RiskMapTemplate, error) {
	tpl, err := uc.repo.Template().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get template", goerr.V(model.TemplateIDKey, id))
	}
	return tpl, nil
}

// ListTemplates returns the system defaults followed by the templates of ownerID
func (uc *TemplateUseCase) ListTemplates(ctx context.Context, ownerID string) ([]*model.RiskMapTemplate, error) {
	templates, err := uc.repo.Template().List(ctx, ownerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list templates", goerr.V("owner_id", ownerID))
	}
	return templates, nil
}

// SaveTemplate validates draft and stores it as a private template of ownerID.
// All violations are reported together in one ValidationError.
func (uc *TemplateUseCase) SaveTemplate(ctx context.Context, ownerID string, draft *model.RiskMapTemplate) (int64, error) {
	tpl := draft.Clone()
	tpl.OwnerID = ownerID
	tpl.IsDefault = false

	if err := validateTemplate(tpl); err != nil {
		return 0, err
	}

	created, err := uc.repo.Template().Create(ctx, tpl)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to save template")
	}

	logging.From(ctx).Info("Template saved", "template_id", created.ID, "name", created.Name)
	return created.ID, nil
}

// UpdateTemplate replaces every field and child of the template in one write.
// Ownership and the default flag cannot be changed. Assessments bound to the
// template are rescored afterwards.
func (uc *TemplateUseCase) UpdateTemplate(ctx context.Context, id int64, draft *model.RiskMapTemplate) (*model.RiskMapTemplate, error) {
	existing, err := uc.repo.Template().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get template", goerr.V(model.TemplateIDKey, id))
	}

	tpl := draft.Clone()
	tpl.ID = existing.ID
	tpl.OwnerID = existing.OwnerID
	tpl.IsDefault = existing.IsDefault

	if err := validateTemplate(tpl); err != nil {
		return nil, goerr.Wrap(err, "invalid template", goerr.V(model.TemplateIDKey, id))
	}

	replaced, err := uc.repo.Template().Replace(ctx, tpl)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update template", goerr.V(model.TemplateIDKey, id))
	}

	if err := uc.rescoreBound(ctx, replaced.ID); err != nil {
		return nil, err
	}

	return replaced, nil
}

// DeleteTemplate fails with model.ErrInUse while any assessment references the template
func (uc *TemplateUseCase) DeleteTemplate(ctx context.Context, id int64) error {
	err := uc.repo.Template().Delete(ctx, id)
	if err == nil {
		return nil
	}

	if errors.Is(err, model.ErrInUse) {
		count, countErr := uc.repo.Assessment().CountByTemplate(ctx, id)
		if countErr == nil {
			return goerr.Wrap(err, fmt.Sprintf("template is bound to %d assessment(s)", count),
				goerr.V(model.TemplateIDKey, id),
				goerr.V("assessment_count", count))
		}
		logging.From(ctx).Warn("failed to count assessments of in-use template",
			"template_id", id,
			"error", countErr.Error())
	}
	return goerr.Wrap(err, "failed to delete template", goerr.V(model.TemplateIDKey, id))
}

// Score resolves and classifies one position, against the template when
// templateID is set, otherwise against the plain l*i product
func (uc *TemplateUseCase) Score(ctx context.Context, templateID int64, l *types.Likelihood, i *types.Impact) (ScoreResult, error) {
	verr := &model.ValidationError{}
	if l != nil && l.Validate() != nil {
		verr.Add("likelihood", "likelihood %d is outside 1..5", *l)
	}
	if i != nil && i.Validate() != nil {
		verr.Add("impact", "impact %d is outside 1..5", *i)
	}
	if err := verr.OrNil(); err != nil {
		return ScoreResult{}, goerr.Wrap(err, "invalid score request")
	}

	tpl, err := loadTemplate(ctx, uc.repo, templateID)
	if err != nil {
		return ScoreResult{}, err
	}

	return uc.entries.scorer.Evaluate(tpl, l, i), nil
}

func (uc *TemplateUseCase) rescoreBound(ctx context.Context, templateID int64) error {
	bound, err := uc.repo.Assessment().ListByTemplate(ctx, templateID)
	if err != nil {
		return goerr.Wrap(err, "failed to list bound assessments", goerr.V(model.TemplateIDKey, templateID))
	}

	for _, a := range bound {
		if _, err := uc.entries.RecomputeAssessment(ctx, a.ID); err != nil {
			return goerr.Wrap(err, "failed to rescore bound assessment",
				goerr.V(model.TemplateIDKey, templateID),
				goerr.V(model.AssessmentIDKey, a.ID))
		}
	}
	return nil
}

func validateTemplate(tpl *model.RiskMapTemplate) error {
	if err := tpl.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			metrics.TemplateValidationFailures.Inc()
		}
		return goerr.Wrap(err, "invalid template", goerr.V("name", tpl.Name))
	}
	return nil
}
