package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

func TestRiskMapTemplate_Validate(t *testing.T) {
	t.Run("default templates are valid", func(t *testing.T) {
		for _, tpl := range model.DefaultTemplates() {
			gt.NoError(t, tpl.Validate())
		}
	})

	t.Run("reports every violation", func(t *testing.T) {
		tpl := &model.RiskMapTemplate{
			Name: "  ",
			LikelihoodLabels: []model.AxisLabel{
				{Level: 0, Label: "zero"},
				{Level: 2, Label: "a"},
				{Level: 2, Label: "b"},
			},
			ImpactLabels: []model.AxisLabel{
				{Level: 6, Label: "six"},
			},
			Levels: []model.LevelDefinition{
				{Name: "Inverted", MinScore: 10, MaxScore: 3},
				{Name: "Bad color", Color: "red", MinScore: 1, MaxScore: 2},
			},
			Cells: []model.ScoreCell{
				{Likelihood: 0, Impact: 9, Score: 1},
				{Likelihood: 3, Impact: 3, Score: 9},
				{Likelihood: 3, Impact: 3, Score: 10},
			},
		}

		err := tpl.Validate()
		gt.Error(t, err).Is(model.ErrValidation)

		var verr *model.ValidationError
		gt.B(t, errors.As(err, &verr)).True()

		fields := make(map[string]bool)
		for _, v := range verr.Violations {
			fields[v.Field] = true
		}
		for _, want := range []string{
			"name",
			"likelihood_labels[0].level",
			"likelihood_labels[2].level",
			"impact_labels[0].level",
			"levels[0]",
			"levels[1].color",
			"cells[0].likelihood",
			"cells[0].impact",
			"cells[2]",
		} {
			if !fields[want] {
				t.Errorf("expected violation for %s, got %v", want, verr.Violations)
			}
		}
		gt.Array(t, verr.Violations).Length(9)
	})

	t.Run("overlapping levels are accepted", func(t *testing.T) {
		tpl := &model.RiskMapTemplate{
			Name: "overlap",
			Levels: []model.LevelDefinition{
				{Name: "A", MinScore: 1, MaxScore: 10},
				{Name: "B", MinScore: 5, MaxScore: 25},
			},
		}
		gt.NoError(t, tpl.Validate())
	})
}

func TestRiskMapTemplate_Clone(t *testing.T) {
	orig := model.DefaultTemplates()[1]
	c := orig.Clone()
	c.Cells[0].Score = 99
	c.Levels[0].Name = "changed"

	gt.Number(t, orig.Cells[0].Score).Equal(1)
	gt.Value(t, orig.Levels[0].Name).Equal("Low")
}

func TestRiskMapTemplate_Labels(t *testing.T) {
	tpl := model.DefaultTemplates()[0]
	gt.Value(t, tpl.LikelihoodLabel(5)).Equal("Sangat Sering")
	gt.Value(t, tpl.ImpactLabel(1)).Equal("Tidak Signifikan")

	var nilTpl *model.RiskMapTemplate
	gt.Value(t, nilTpl.LikelihoodLabel(1)).Equal("")
}
