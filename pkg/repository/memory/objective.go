package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type objectiveRepository struct {
	store *store
}

func (r *objectiveRepository) Create(ctx context.Context, o *model.Objective) (*model.Objective, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.assessments[o.AssessmentID]; !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, o.AssessmentID))
	}

	now := time.Now().UTC()
	created := o.Clone()
	created.ID = r.store.allocID("objectives")
	created.CreatedAt = now
	created.UpdatedAt = now

	r.store.objectives[created.ID] = created
	return created.Clone(), nil
}

func (r *objectiveRepository) Get(ctx context.Context, id int64) (*model.Objective, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o, exists := r.store.objectives[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "objective not found", goerr.V(model.ObjectiveIDKey, id))
	}
	return o.Clone(), nil
}

func (r *objectiveRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.Objective, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var objectives []*model.Objective
	for _, o := range r.store.objectives {
		if o.AssessmentID == assessmentID {
			objectives = append(objectives, o.Clone())
		}
	}

	sort.Slice(objectives, func(i, j int) bool {
		return objectives[i].ID < objectives[j].ID
	})
	return objectives, nil
}

func (r *objectiveRepository) Update(ctx context.Context, o *model.Objective) (*model.Objective, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, exists := r.store.objectives[o.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "objective not found", goerr.V(model.ObjectiveIDKey, o.ID))
	}

	updated := existing.Clone()
	updated.Name = o.Name
	updated.KPI = o.KPI
	updated.UpdatedAt = time.Now().UTC()

	r.store.objectives[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *objectiveRepository) UpdateRollup(ctx context.Context, id int64, rollup model.Rollup) (*model.Objective, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, exists := r.store.objectives[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "objective not found", goerr.V(model.ObjectiveIDKey, id))
	}

	updated := existing.Clone()
	updated.InherentRiskScore = copyInt(rollup.InherentRiskScore)
	updated.ResidualRiskScore = copyInt(rollup.ResidualRiskScore)
	updated.UpdatedAt = time.Now().UTC()

	r.store.objectives[id] = updated
	return updated.Clone(), nil
}

func (r *objectiveRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.objectives[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "objective not found", goerr.V(model.ObjectiveIDKey, id))
	}

	for _, e := range r.store.entries {
		if e.ObjectiveID == id {
			e.ObjectiveID = 0
		}
	}
	delete(r.store.objectives, id)
	return nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
