package model

import "github.com/secmon-lab/sirico/pkg/domain/types"

// Names of the system default templates
const (
	DefaultSIRICOTemplateName = "Default SIRICO Matrix 5x5"
	DefaultBUMNTemplateName   = "Default BUMN"
)

// DefaultTemplates returns fresh copies of the system default templates.
// Bootstrap upserts them by name so seeding can run any number of times.
func DefaultTemplates() []*RiskMapTemplate {
	return []*RiskMapTemplate{
		defaultSIRICOTemplate(),
		defaultBUMNTemplate(),
	}
}

func defaultSIRICOTemplate() *RiskMapTemplate {
	return &RiskMapTemplate{
		Name:        DefaultSIRICOTemplateName,
		Description: "Multiplicative 5x5 matrix (likelihood x impact)",
		IsDefault:   true,
		LikelihoodLabels: []AxisLabel{
			{Level: 1, Label: "Sangat Jarang"},
			{Level: 2, Label: "Jarang"},
			{Level: 3, Label: "Kadang-kadang"},
			{Level: 4, Label: "Sering"},
			{Level: 5, Label: "Sangat Sering"},
		},
		ImpactLabels: []AxisLabel{
			{Level: 1, Label: "Tidak Signifikan"},
			{Level: 2, Label: "Minor"},
			{Level: 3, Label: "Moderat"},
			{Level: 4, Label: "Signifikan"},
			{Level: 5, Label: "Sangat Signifikan"},
		},
		Levels: []LevelDefinition{
			{Name: "Sangat Rendah", Color: "#2E7D32", MinScore: 1, MaxScore: 2},
			{Name: "Rendah", Color: "#8BC34A", MinScore: 3, MaxScore: 6},
			{Name: "Moderat", Color: "#FFEB3B", MinScore: 7, MaxScore: 12},
			{Name: "Tinggi", Color: "#FF9800", MinScore: 13, MaxScore: 19},
			{Name: "Sangat Tinggi", Color: "#D32F2F", MinScore: 20, MaxScore: 25},
		},
	}
}

// bumnMatrix[l-1][i-1] is the score for likelihood l and impact i
var bumnMatrix = [types.MaxLevel][types.MaxLevel]int{
	{1, 5, 10, 15, 20},
	{2, 6, 11, 16, 21},
	{3, 8, 13, 18, 23},
	{4, 9, 14, 19, 24},
	{7, 12, 17, 22, 25},
}

func defaultBUMNTemplate() *RiskMapTemplate {
	cells := make([]ScoreCell, 0, types.MaxLevel*types.MaxLevel)
	for l, row := range bumnMatrix {
		for i, score := range row {
			cells = append(cells, ScoreCell{
				Likelihood: types.Likelihood(l + 1),
				Impact:     types.Impact(i + 1),
				Score:      score,
			})
		}
	}

	return &RiskMapTemplate{
		Name:        DefaultBUMNTemplateName,
		Description: "State-owned enterprise heat map with ranked cell scores",
		IsDefault:   true,
		LikelihoodLabels: []AxisLabel{
			{Level: 1, Label: "Rare"},
			{Level: 2, Label: "Unlikely"},
			{Level: 3, Label: "Possible"},
			{Level: 4, Label: "Likely"},
			{Level: 5, Label: "Almost Certain"},
		},
		ImpactLabels: []AxisLabel{
			{Level: 1, Label: "Insignificant"},
			{Level: 2, Label: "Minor"},
			{Level: 3, Label: "Moderate"},
			{Level: 4, Label: "Significant"},
			{Level: 5, Label: "Catastrophic"},
		},
		Levels: []LevelDefinition{
			{Name: "Low", Color: "#00B050", MinScore: 1, MaxScore: 5},
			{Name: "Low to Moderate", Color: "#92D050", MinScore: 6, MaxScore: 11},
			{Name: "Moderate", Color: "#FFFF00", MinScore: 12, MaxScore: 15},
			{Name: "Moderate to High", Color: "#FFC000", MinScore: 16, MaxScore: 19},
			{Name: "High", Color: "#FF0000", MinScore: 20, MaxScore: 25},
		},
		Cells: cells,
	}
}
