package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
	"github.com/secmon-lab/sirico/pkg/repository/memory"
	"github.com/secmon-lab/sirico/pkg/usecase"
)

type testEnv struct {
	repo *memory.Memory
	uc   *usecase.UseCases
}

func newTestEnv(t *testing.T, opts ...usecase.Option) *testEnv {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo, opts...)
	_, err := uc.Bootstrap(context.Background())
	gt.NoError(t, err).Required()
	return &testEnv{repo: repo, uc: uc}
}

func (env *testEnv) defaultTemplate(t *testing.T, name string) *model.RiskMapTemplate {
	t.Helper()
	tpl, err := env.repo.Template().GetDefaultByName(context.Background(), name)
	gt.NoError(t, err).Required()
	return tpl
}

func (env *testEnv) newAssessment(t *testing.T, templateID int64) *model.Assessment {
	t.Helper()
	a, err := env.uc.Assessment.CreateAssessment(context.Background(), usecase.AssessmentInput{
		Kind:       types.AssessmentKindRegister,
		Title:      "Risk register 2026",
		OwnerID:    "U001",
		TemplateID: templateID,
	})
	gt.NoError(t, err).Required()
	return a
}

func (env *testEnv) newObjective(t *testing.T, assessmentID int64, name string) *model.Objective {
	t.Helper()
	o, err := env.uc.Objective.CreateObjective(context.Background(), assessmentID, name, "")
	gt.NoError(t, err).Required()
	return o
}

func inherent(objectiveID int64, title string, l, i int) usecase.EntryInput {
	return usecase.EntryInput{
		ObjectiveID:        objectiveID,
		Title:              title,
		InherentLikelihood: types.LikelihoodPtr(l),
		InherentImpact:     types.ImpactPtr(i),
	}
}

func scoreOf(t *testing.T, p *int) int {
	t.Helper()
	gt.Value(t, p).NotNil()
	if p == nil {
		t.FailNow()
	}
	return *p
}
