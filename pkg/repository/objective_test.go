package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

func runObjectiveRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create requires an existing assessment", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Objective().Create(context.Background(), &model.Objective{AssessmentID: 99999, Name: "Orphan"})
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("UpdateRollup persists only scores", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		obj, err := repo.Objective().Create(ctx, &model.Objective{AssessmentID: a.ID, Name: "Revenue", KPI: "Growth 10%"})
		gt.NoError(t, err).Required()
		gt.Value(t, obj.InherentRiskScore).Nil()

		_, err = repo.Objective().UpdateRollup(ctx, obj.ID, model.Rollup{
			InherentRiskScore: model.IntPtr(18),
		})
		gt.NoError(t, err).Required()

		got, err := repo.Objective().Get(ctx, obj.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Revenue")
		gt.Value(t, got.KPI).Equal("Growth 10%")
		gt.Value(t, *got.InherentRiskScore).Equal(18)
		gt.Value(t, got.ResidualRiskScore).Nil()
	})

	t.Run("Update keeps rollup scores", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		obj, err := repo.Objective().Create(ctx, &model.Objective{AssessmentID: a.ID, Name: "Revenue"})
		gt.NoError(t, err).Required()
		_, err = repo.Objective().UpdateRollup(ctx, obj.ID, model.Rollup{InherentRiskScore: model.IntPtr(9)})
		gt.NoError(t, err).Required()

		obj.Name = "Revenue growth"
		obj.InherentRiskScore = nil
		_, err = repo.Objective().Update(ctx, obj)
		gt.NoError(t, err).Required()

		got, err := repo.Objective().Get(ctx, obj.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Revenue growth")
		gt.Value(t, *got.InherentRiskScore).Equal(9)
	})

	t.Run("Delete detaches entries", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		obj, err := repo.Objective().Create(ctx, &model.Objective{AssessmentID: a.ID, Name: "Revenue"})
		gt.NoError(t, err).Required()
		entry, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{
			AssessmentID: a.ID,
			ObjectiveID:  obj.ID,
			Title:        "Price war",
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Objective().Delete(ctx, obj.ID)).Required()

		got, err := repo.RiskEntry().Get(ctx, entry.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ObjectiveID).Equal(int64(0))

		objectives, err := repo.Objective().ListByAssessment(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, objectives).Length(0)
	})
}
