package usecase

import (
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
	"github.com/secmon-lab/sirico/pkg/utils/metrics"
)

// Scorer is the single place where entry scores are derived. Every entry
// write path receives it at construction.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// ScoreResult is a score with its classification
type ScoreResult struct {
	Score *int
	Level *model.LevelDefinition
	Label string
}

// Evaluate scores and classifies one (likelihood, impact) pair under t
func (s *Scorer) Evaluate(t *model.RiskMapTemplate, l *types.Likelihood, i *types.Impact) ScoreResult {
	score := model.ComputeScore(t, l, i)
	return ScoreResult{
		Score: score,
		Level: model.Classify(t, score),
		Label: model.ScoreLabel(t, score),
	}
}

// ScoreEntry returns a copy of e with both scores recomputed against t
func (s *Scorer) ScoreEntry(e *model.RiskEntry, t *model.RiskMapTemplate) *model.RiskEntry {
	scored := model.ScoreEntry(e, t)
	record(t, types.ScoreViewInherent, scored.InherentScore)
	record(t, types.ScoreViewResidual, scored.ResidualScore)
	return scored
}

func record(t *model.RiskMapTemplate, view types.ScoreView, score *int) {
	result := metrics.ResultUnscored
	if score != nil {
		result = metrics.ResultUnclassified
		if model.Classify(t, score) != nil {
			result = metrics.ResultClassified
		}
	}
	metrics.ScoresComputed.WithLabelValues(string(view), result).Inc()
}
