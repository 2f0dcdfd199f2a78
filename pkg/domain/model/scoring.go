package model

import (
	"fmt"

	"github.com/secmon-lab/sirico/pkg/domain/types"
)

// UnclassifiedLabel is shown for scores without a matching level band
const UnclassifiedLabel = "Unclassified"

// ComputeScore returns the score of (l, i) under t. An explicit score cell wins
// over the default l*i product. A nil likelihood or impact means the risk is
// not assessed yet and yields a nil score. t may be nil.
func ComputeScore(t *RiskMapTemplate, l *types.Likelihood, i *types.Impact) *int {
	if l == nil || i == nil {
		return nil
	}
	if score, ok := t.CellScore(*l, *i); ok {
		return &score
	}
	score := int(*l) * int(*i)
	return &score
}

// Classify returns the first level band of t, in stored order, whose range
// contains score. Overlapping bands are resolved by that order. It returns nil
// when t or score is nil or no band matches.
func Classify(t *RiskMapTemplate, score *int) *LevelDefinition {
	if t == nil || score == nil {
		return nil
	}
	for idx := range t.Levels {
		if t.Levels[idx].Contains(*score) {
			lv := t.Levels[idx]
			return &lv
		}
	}
	return nil
}

// ScoreLabel formats a score and its band as a short label, e.g. "Level 18, Tinggi"
func ScoreLabel(t *RiskMapTemplate, score *int) string {
	if score == nil {
		return UnclassifiedLabel
	}
	name := UnclassifiedLabel
	if lv := Classify(t, score); lv != nil {
		name = lv.Name
	}
	return fmt.Sprintf("Level %d, %s", *score, name)
}
