package types

import "fmt"

// ScoreView selects which side of a risk entry is read: before or after treatment
type ScoreView string

const (
	ScoreViewInherent ScoreView = "inherent"
	ScoreViewResidual ScoreView = "residual"
)

// IsValid checks if the score view is valid
func (v ScoreView) IsValid() bool {
	return v == ScoreViewInherent || v == ScoreViewResidual
}

// Normalize treats empty as ScoreViewInherent
func (v ScoreView) Normalize() ScoreView {
	if v == "" {
		return ScoreViewInherent
	}
	return v
}

// ParseScoreView parses a string into a ScoreView. Empty input yields the inherent view.
func ParseScoreView(s string) (ScoreView, error) {
	view := ScoreView(s).Normalize()
	if !view.IsValid() {
		return "", fmt.Errorf("invalid score view: %s", s)
	}
	return view, nil
}
