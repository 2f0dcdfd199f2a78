package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type riskEntryRepository struct {
	store *store
}

func (r *riskEntryRepository) Create(ctx context.Context, e *model.RiskEntry) (*model.RiskEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.assessments[e.AssessmentID]; !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, e.AssessmentID))
	}

	now := time.Now().UTC()
	created := e.Clone()
	created.ID = r.store.allocID("entries")
	// Sequences only grow, so a deleted entry's number is never handed out again
	created.Sequence = int(r.store.allocID(fmt.Sprintf("entry_seq_%d", e.AssessmentID)))
	created.CreatedAt = now
	created.UpdatedAt = now

	r.store.entries[created.ID] = created
	return created.Clone(), nil
}

func (r *riskEntryRepository) Get(ctx context.Context, id int64) (*model.RiskEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, exists := r.store.entries[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "risk entry not found", goerr.V(model.EntryIDKey, id))
	}
	return e.Clone(), nil
}

func (r *riskEntryRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.RiskEntry, error) {
	return r.list(func(e *model.RiskEntry) bool { return e.AssessmentID == assessmentID }), nil
}

func (r *riskEntryRepository) ListByObjective(ctx context.Context, objectiveID int64) ([]*model.RiskEntry, error) {
	return r.list(func(e *model.RiskEntry) bool { return e.ObjectiveID == objectiveID }), nil
}

func (r *riskEntryRepository) list(match func(e *model.RiskEntry) bool) []*model.RiskEntry {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var entries []*model.RiskEntry
	for _, e := range r.store.entries {
		if match(e) {
			entries = append(entries, e.Clone())
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AssessmentID != entries[j].AssessmentID {
			return entries[i].AssessmentID < entries[j].AssessmentID
		}
		return entries[i].Sequence < entries[j].Sequence
	})
	return entries
}

func (r *riskEntryRepository) Update(ctx context.Context, e *model.RiskEntry) (*model.RiskEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	updated, err := r.replace(e, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (r *riskEntryRepository) UpdateMany(ctx context.Context, entries []*model.RiskEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Check all first so a missing entry leaves nothing half written
	for _, e := range entries {
		if _, exists := r.store.entries[e.ID]; !exists {
			return goerr.Wrap(model.ErrNotFound, "risk entry not found", goerr.V(model.EntryIDKey, e.ID))
		}
	}

	now := time.Now().UTC()
	for _, e := range entries {
		if _, err := r.replace(e, now); err != nil {
			return err
		}
	}
	return nil
}

// replace must be called with the write lock held
func (r *riskEntryRepository) replace(e *model.RiskEntry, now time.Time) (*model.RiskEntry, error) {
	existing, exists := r.store.entries[e.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "risk entry not found", goerr.V(model.EntryIDKey, e.ID))
	}

	updated := e.Clone()
	updated.AssessmentID = existing.AssessmentID
	updated.Sequence = existing.Sequence
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now

	r.store.entries[updated.ID] = updated
	return updated, nil
}

func (r *riskEntryRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.entries[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "risk entry not found", goerr.V(model.EntryIDKey, id))
	}

	delete(r.store.entries, id)
	return nil
}
