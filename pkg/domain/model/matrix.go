package model

import (
	"sort"

	"github.com/secmon-lab/sirico/pkg/domain/types"
)

// MatrixCell is one position of the rendered risk map
type MatrixCell struct {
	Likelihood     types.Likelihood
	Impact         types.Impact
	Score          int
	LevelName      string // UnclassifiedLabel when no band matches
	Color          string
	EntrySequences []int
}

// Matrix is the 5x5 grid handed to spreadsheet renderers
type Matrix struct {
	TemplateID       int64
	View             types.ScoreView
	LikelihoodLabels []AxisLabel
	ImpactLabels     []AxisLabel
	Cells            []MatrixCell // likelihood-major, both axes ascending
}

// Cell returns the cell at (l, i)
func (m *Matrix) Cell(l types.Likelihood, i types.Impact) *MatrixCell {
	idx := (int(l)-types.MinLevel)*types.MaxLevel + int(i) - types.MinLevel
	if idx < 0 || idx >= len(m.Cells) {
		return nil
	}
	return &m.Cells[idx]
}

// BuildMatrix scores and classifies every (likelihood, impact) position under
// t and places entry sequence numbers at their position for the given view.
// Entries missing either coordinate for the view are not placed.
func BuildMatrix(t *RiskMapTemplate, entries []*RiskEntry, view types.ScoreView) *Matrix {
	m := &Matrix{
		View:  view,
		Cells: make([]MatrixCell, 0, types.MaxLevel*types.MaxLevel),
	}
	if t != nil {
		m.TemplateID = t.ID
		m.LikelihoodLabels = append([]AxisLabel(nil), t.LikelihoodLabels...)
		m.ImpactLabels = append([]AxisLabel(nil), t.ImpactLabels...)
	}

	for l := types.Likelihood(types.MinLevel); l <= types.MaxLevel; l++ {
		for i := types.Impact(types.MinLevel); i <= types.MaxLevel; i++ {
			score := ComputeScore(t, &l, &i)
			cell := MatrixCell{
				Likelihood:     l,
				Impact:         i,
				Score:          *score,
				LevelName:      UnclassifiedLabel,
				EntrySequences: []int{},
			}
			if lv := Classify(t, score); lv != nil {
				cell.LevelName = lv.Name
				cell.Color = lv.Color
			}
			m.Cells = append(m.Cells, cell)
		}
	}

	for _, e := range entries {
		l, i := e.Position(view)
		if l == nil || i == nil || l.Validate() != nil || i.Validate() != nil {
			continue
		}
		cell := m.Cell(*l, *i)
		cell.EntrySequences = append(cell.EntrySequences, e.Sequence)
	}
	for idx := range m.Cells {
		sort.Ints(m.Cells[idx].EntrySequences)
	}

	return m
}
