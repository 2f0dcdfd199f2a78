package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/secmon-lab/sirico/pkg/domain/types"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// AxisLabel is the human readable name of one level on the likelihood or impact axis
type AxisLabel struct {
	Level int
	Label string
}

// LevelDefinition is a named risk band owning the closed range [MinScore, MaxScore]
type LevelDefinition struct {
	Name     string
	Color    string // "#RRGGBB"
	MinScore int
	MaxScore int
}

// Contains reports whether score falls inside the band
func (d LevelDefinition) Contains(score int) bool {
	return d.MinScore <= score && score <= d.MaxScore
}

// ScoreCell overrides the default likelihood*impact product for one matrix position
type ScoreCell struct {
	Likelihood types.Likelihood
	Impact     types.Impact
	Score      int
}

// RiskMapTemplate bundles axis labels, score overrides and level bands.
// Children are owned by the template and always replaced as a whole.
type RiskMapTemplate struct {
	ID               int64
	Name             string
	Description      string
	Version          int
	IsDefault        bool
	OwnerID          string // empty for system defaults
	LikelihoodLabels []AxisLabel
	ImpactLabels     []AxisLabel
	Levels           []LevelDefinition
	Cells            []ScoreCell
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CellScore returns the explicit score stored for (l, i), if any
func (t *RiskMapTemplate) CellScore(l types.Likelihood, i types.Impact) (int, bool) {
	if t == nil {
		return 0, false
	}
	for _, c := range t.Cells {
		if c.Likelihood == l && c.Impact == i {
			return c.Score, true
		}
	}
	return 0, false
}

// LikelihoodLabel returns the label for a likelihood level, or "" when none is defined
func (t *RiskMapTemplate) LikelihoodLabel(l types.Likelihood) string {
	if t == nil {
		return ""
	}
	return findLabel(t.LikelihoodLabels, int(l))
}

// ImpactLabel returns the label for an impact level, or "" when none is defined
func (t *RiskMapTemplate) ImpactLabel(i types.Impact) string {
	if t == nil {
		return ""
	}
	return findLabel(t.ImpactLabels, int(i))
}

func findLabel(labels []AxisLabel, level int) string {
	for _, l := range labels {
		if l.Level == level {
			return l.Label
		}
	}
	return ""
}

// Validate checks every structural constraint of the template and returns a
// *ValidationError listing all of them. Overlapping level ranges are accepted;
// classification resolves them by stored order.
func (t *RiskMapTemplate) Validate() error {
	verr := &ValidationError{}

	if strings.TrimSpace(t.Name) == "" {
		verr.Add("name", "name is required")
	}

	validateAxisLabels(verr, "likelihood_labels", t.LikelihoodLabels)
	validateAxisLabels(verr, "impact_labels", t.ImpactLabels)

	for idx, lv := range t.Levels {
		field := indexedField("levels", idx)
		if strings.TrimSpace(lv.Name) == "" {
			verr.Add(field+".name", "level name is required")
		}
		if lv.MinScore > lv.MaxScore {
			verr.Add(field, "min_score %d is greater than max_score %d", lv.MinScore, lv.MaxScore)
		}
		if lv.Color != "" && !colorPattern.MatchString(lv.Color) {
			verr.Add(field+".color", "color %q must be #RRGGBB", lv.Color)
		}
	}

	seen := make(map[[2]int]bool)
	for idx, c := range t.Cells {
		field := indexedField("cells", idx)
		if err := c.Likelihood.Validate(); err != nil {
			verr.Add(field+".likelihood", "likelihood %d is outside 1..5", c.Likelihood)
		}
		if err := c.Impact.Validate(); err != nil {
			verr.Add(field+".impact", "impact %d is outside 1..5", c.Impact)
		}
		key := [2]int{int(c.Likelihood), int(c.Impact)}
		if seen[key] {
			verr.Add(field, "duplicate cell for likelihood %d, impact %d", c.Likelihood, c.Impact)
		}
		seen[key] = true
	}

	return verr.OrNil()
}

func validateAxisLabels(verr *ValidationError, name string, labels []AxisLabel) {
	seen := make(map[int]bool)
	for idx, l := range labels {
		field := indexedField(name, idx)
		if l.Level < types.MinLevel || l.Level > types.MaxLevel {
			verr.Add(field+".level", "level %d is outside 1..5", l.Level)
			continue
		}
		if seen[l.Level] {
			verr.Add(field+".level", "duplicate label for level %d", l.Level)
		}
		seen[l.Level] = true
	}
}

func indexedField(name string, idx int) string {
	return name + "[" + strconv.Itoa(idx) + "]"
}

// Clone returns a deep copy of the template
func (t *RiskMapTemplate) Clone() *RiskMapTemplate {
	if t == nil {
		return nil
	}
	c := *t
	c.LikelihoodLabels = append([]AxisLabel(nil), t.LikelihoodLabels...)
	c.ImpactLabels = append([]AxisLabel(nil), t.ImpactLabels...)
	c.Levels = append([]LevelDefinition(nil), t.Levels...)
	c.Cells = append([]ScoreCell(nil), t.Cells...)
	return &c
}
