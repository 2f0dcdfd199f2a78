package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
)

// AssessmentInput holds the fields needed to open an assessment
type AssessmentInput struct {
	Kind        types.AssessmentKind
	Title       string
	Description string
	OwnerID     string
	TemplateID  int64
}

type AssessmentUseCase struct {
	repo    interfaces.Repository
	entries *RiskEntryUseCase
}

func NewAssessmentUseCase(repo interfaces.Repository, entries *RiskEntryUseCase) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:    repo,
		entries: entries,
	}
}

func (uc *AssessmentUseCase) CreateAssessment(ctx context.Context, input AssessmentInput) (*model.Assessment, error) {
	a := &model.Assessment{
		Kind:        input.Kind,
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		TemplateID:  input.TemplateID,
	}
	if err := a.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid assessment")
	}
	if err := uc.checkTemplate(ctx, a.TemplateID); err != nil {
		return nil, err
	}

	created, err := uc.repo.Assessment().Create(ctx, a)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}
	return created, nil
}

func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, id int64) (*model.Assessment, error) {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, id))
	}
	return a, nil
}

// ListAssessments returns the assessments of ownerID, or all when it is empty
func (uc *AssessmentUseCase) ListAssessments(ctx context.Context, ownerID string) ([]*model.Assessment, error) {
	assessments, err := uc.repo.Assessment().List(ctx, ownerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V("owner_id", ownerID))
	}
	return assessments, nil
}

// RebindTemplate binds another template, or none when templateID is 0, and
// rescores every entry of the assessment against it
func (uc *AssessmentUseCase) RebindTemplate(ctx context.Context, id, templateID int64) (*model.Assessment, *RecomputeResult, error) {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, id))
	}
	if err := uc.checkTemplate(ctx, templateID); err != nil {
		return nil, nil, err
	}

	a.TemplateID = templateID
	updated, err := uc.repo.Assessment().Update(ctx, a)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to update assessment", goerr.V(model.AssessmentIDKey, id))
	}

	result, err := uc.entries.RecomputeAssessment(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return updated, result, nil
}

// DeleteAssessment removes the assessment with its objectives and entries
func (uc *AssessmentUseCase) DeleteAssessment(ctx context.Context, id int64) error {
	if err := uc.repo.Assessment().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V(model.AssessmentIDKey, id))
	}
	return nil
}

func (uc *AssessmentUseCase) checkTemplate(ctx context.Context, templateID int64) error {
	if templateID == 0 {
		return nil
	}

	_, err := uc.repo.Template().Get(ctx, templateID)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return goerr.Wrap(err, "failed to get template", goerr.V(model.TemplateIDKey, templateID))
	}

	verr := &model.ValidationError{}
	verr.Add("template_id", "template %d does not exist", templateID)
	return goerr.Wrap(verr, "invalid template reference", goerr.V(model.TemplateIDKey, templateID))
}
