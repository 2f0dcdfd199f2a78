package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"golang.org/x/sync/errgroup"
)

// loadTemplate returns the template bound by ID, or nil when none is bound
func loadTemplate(ctx context.Context, repo interfaces.Repository, id int64) (*model.RiskMapTemplate, error) {
	if id == 0 {
		return nil, nil
	}
	tpl, err := repo.Template().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get bound template", goerr.V(model.TemplateIDKey, id))
	}
	return tpl, nil
}

// assessmentSnapshot is an assessment with its bound template and entries
type assessmentSnapshot struct {
	assessment *model.Assessment
	template   *model.RiskMapTemplate
	entries    []*model.RiskEntry
}

// loadSnapshot fetches the template and the entries of an assessment concurrently
func loadSnapshot(ctx context.Context, repo interfaces.Repository, assessmentID int64) (*assessmentSnapshot, error) {
	a, err := repo.Assessment().Get(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	snap := &assessmentSnapshot{assessment: a}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tpl, err := loadTemplate(gCtx, repo, a.TemplateID)
		if err != nil {
			return err
		}
		snap.template = tpl
		return nil
	})

	g.Go(func() error {
		entries, err := repo.RiskEntry().ListByAssessment(gCtx, a.ID)
		if err != nil {
			return goerr.Wrap(err, "failed to list risk entries", goerr.V(model.AssessmentIDKey, a.ID))
		}
		snap.entries = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}
