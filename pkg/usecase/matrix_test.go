package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
)

func TestMatrixUseCase_ExportMatrix(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bumn := env.defaultTemplate(t, model.DefaultBUMNTemplateName)
	a := env.newAssessment(t, bumn.ID)

	input := inherent(0, "First", 5, 3)
	input.ResidualLikelihood = types.LikelihoodPtr(2)
	input.ResidualImpact = types.ImpactPtr(2)
	_, err := env.uc.RiskEntry.CreateEntry(ctx, a.ID, input)
	gt.NoError(t, err).Required()
	_, err = env.uc.RiskEntry.CreateEntry(ctx, a.ID, inherent(0, "Second", 5, 3))
	gt.NoError(t, err).Required()

	t.Run("inherent view", func(t *testing.T) {
		m, err := env.uc.Matrix.ExportMatrix(ctx, a.ID, "")
		gt.NoError(t, err).Required()
		gt.Value(t, m.View).Equal(types.ScoreViewInherent)
		gt.Array(t, m.Cells).Length(25)
		gt.Array(t, m.LikelihoodLabels).Length(5)

		cell := m.Cell(5, 3)
		gt.Value(t, cell.Score).Equal(17)
		gt.Value(t, cell.LevelName).Equal("Moderate to High")
		gt.Value(t, cell.EntrySequences).Equal([]int{1, 2})
	})

	t.Run("residual view places only fully assessed entries", func(t *testing.T) {
		m, err := env.uc.Matrix.ExportMatrix(ctx, a.ID, types.ScoreViewResidual)
		gt.NoError(t, err).Required()
		gt.Value(t, m.Cell(2, 2).EntrySequences).Equal([]int{1})
		gt.Array(t, m.Cell(5, 3).EntrySequences).Length(0)
	})

	t.Run("unknown view is rejected", func(t *testing.T) {
		_, err := env.uc.Matrix.ExportMatrix(ctx, a.ID, "target")
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("unknown assessment is not found", func(t *testing.T) {
		_, err := env.uc.Matrix.ExportMatrix(ctx, 99999, "")
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
