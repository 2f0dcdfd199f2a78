package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type narrativeRepository struct {
	store *store
}

func (r *narrativeRepository) Put(ctx context.Context, report *model.NarrativeReport) error {
	if report.ID == "" {
		return goerr.New("narrative ID is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *report
	r.store.narratives[report.ID] = &c
	return nil
}

func (r *narrativeRepository) Get(ctx context.Context, id model.NarrativeID) (*model.NarrativeReport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	report, exists := r.store.narratives[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "narrative not found", goerr.V(model.NarrativeIDKey, id))
	}
	c := *report
	return &c, nil
}

func (r *narrativeRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.NarrativeReport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var reports []*model.NarrativeReport
	for _, report := range r.store.narratives {
		if report.AssessmentID == assessmentID {
			c := *report
			reports = append(reports, &c)
		}
	}

	// Newest first
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}
