package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
)

func TestBuildMatrix(t *testing.T) {
	bumn := findDefault(t, model.DefaultBUMNTemplateName)
	entries := []*model.RiskEntry{
		{Sequence: 3, InherentLikelihood: types.LikelihoodPtr(5), InherentImpact: types.ImpactPtr(3)},
		{Sequence: 1, InherentLikelihood: types.LikelihoodPtr(5), InherentImpact: types.ImpactPtr(3),
			ResidualLikelihood: types.LikelihoodPtr(2), ResidualImpact: types.ImpactPtr(2)},
		{Sequence: 2},
	}

	t.Run("inherent view", func(t *testing.T) {
		m := model.BuildMatrix(bumn, entries, types.ScoreViewInherent)
		gt.Array(t, m.Cells).Length(25)
		gt.Array(t, m.LikelihoodLabels).Length(5)

		cell := m.Cell(5, 3)
		gt.Number(t, cell.Score).Equal(17)
		gt.Value(t, cell.LevelName).Equal("Moderate to High")
		gt.Value(t, cell.Color).Equal("#FFC000")
		gt.Array(t, cell.EntrySequences).Equal([]int{1, 3})

		gt.Array(t, m.Cell(2, 2).EntrySequences).Length(0)
	})

	t.Run("residual view", func(t *testing.T) {
		m := model.BuildMatrix(bumn, entries, types.ScoreViewResidual)
		gt.Array(t, m.Cell(2, 2).EntrySequences).Equal([]int{1})
		gt.Array(t, m.Cell(5, 3).EntrySequences).Length(0)
	})

	t.Run("without template", func(t *testing.T) {
		m := model.BuildMatrix(nil, nil, types.ScoreViewInherent)
		cell := m.Cell(4, 5)
		gt.Number(t, cell.Score).Equal(20)
		gt.Value(t, cell.LevelName).Equal(model.UnclassifiedLabel)
		gt.Value(t, cell.Color).Equal("")
	})
}
