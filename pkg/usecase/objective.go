package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type ObjectiveUseCase struct {
	repo interfaces.Repository
}

func NewObjectiveUseCase(repo interfaces.Repository) *ObjectiveUseCase {
	return &ObjectiveUseCase{repo: repo}
}

func (uc *ObjectiveUseCase) CreateObjective(ctx context.Context, assessmentID int64, name, kpi string) (*model.Objective, error) {
	o := &model.Objective{
		AssessmentID: assessmentID,
		Name:         name,
		KPI:          kpi,
	}
	if err := o.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid objective")
	}

	created, err := uc.repo.Objective().Create(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create objective", goerr.V(model.AssessmentIDKey, assessmentID))
	}
	return created, nil
}

func (uc *ObjectiveUseCase) GetObjective(ctx context.Context, id int64) (*model.Objective, error) {
	o, err := uc.repo.Objective().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get objective", goerr.V(model.ObjectiveIDKey, id))
	}
	return o, nil
}

func (uc *ObjectiveUseCase) ListObjectives(ctx context.Context, assessmentID int64) ([]*model.Objective, error) {
	if _, err := uc.repo.Assessment().Get(ctx, assessmentID); err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	objectives, err := uc.repo.Objective().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list objectives", goerr.V(model.AssessmentIDKey, assessmentID))
	}
	return objectives, nil
}

// UpdateObjective renames the objective. Rollup scores are derived and are
// never taken from the caller.
func (uc *ObjectiveUseCase) UpdateObjective(ctx context.Context, id int64, name, kpi string) (*model.Objective, error) {
	o := &model.Objective{ID: id, Name: name, KPI: kpi}
	if err := o.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid objective", goerr.V(model.ObjectiveIDKey, id))
	}

	updated, err := uc.repo.Objective().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update objective", goerr.V(model.ObjectiveIDKey, id))
	}
	return updated, nil
}

// DeleteObjective removes the objective and detaches its entries
func (uc *ObjectiveUseCase) DeleteObjective(ctx context.Context, id int64) error {
	if err := uc.repo.Objective().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete objective", goerr.V(model.ObjectiveIDKey, id))
	}
	return nil
}
