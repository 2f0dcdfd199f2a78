package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type assessmentRepository struct {
	store *store
}

func copyAssessment(a *model.Assessment) *model.Assessment {
	c := *a
	return &c
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	created := copyAssessment(a)
	created.ID = r.store.allocID("assessments")
	created.CreatedAt = now
	created.UpdatedAt = now

	r.store.assessments[created.ID] = created
	return copyAssessment(created), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, exists := r.store.assessments[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, id))
	}
	return copyAssessment(a), nil
}

func (r *assessmentRepository) List(ctx context.Context, ownerID string) ([]*model.Assessment, error) {
	return r.list(func(a *model.Assessment) bool {
		return ownerID == "" || a.OwnerID == ownerID
	}), nil
}

func (r *assessmentRepository) ListByTemplate(ctx context.Context, templateID int64) ([]*model.Assessment, error) {
	return r.list(func(a *model.Assessment) bool {
		return a.TemplateID == templateID
	}), nil
}

func (r *assessmentRepository) list(match func(a *model.Assessment) bool) []*model.Assessment {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var assessments []*model.Assessment
	for _, a := range r.store.assessments {
		if match(a) {
			assessments = append(assessments, copyAssessment(a))
		}
	}

	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i].ID < assessments[j].ID
	})
	return assessments
}

func (r *assessmentRepository) Update(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, exists := r.store.assessments[a.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, a.ID))
	}

	updated := copyAssessment(a)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.store.assessments[updated.ID] = updated
	return copyAssessment(updated), nil
}

func (r *assessmentRepository) CountByTemplate(ctx context.Context, templateID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, a := range r.store.assessments {
		if a.TemplateID == templateID {
			count++
		}
	}
	return count, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.assessments[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, id))
	}

	for entryID, e := range r.store.entries {
		if e.AssessmentID == id {
			delete(r.store.entries, entryID)
		}
	}
	for objID, o := range r.store.objectives {
		if o.AssessmentID == id {
			delete(r.store.objectives, objID)
		}
	}
	for narrativeID, n := range r.store.narratives {
		if n.AssessmentID == id {
			delete(r.store.narratives, narrativeID)
		}
	}
	delete(r.store.nextID, fmt.Sprintf("entry_seq_%d", id))
	delete(r.store.assessments, id)
	return nil
}
