package model

import (
	"strings"
	"time"
)

// Objective groups risk entries under one organisational objective or KPI.
// The risk scores are denormalized worst-case rollups of its child entries.
type Objective struct {
	ID                int64
	AssessmentID      int64
	Name              string
	KPI               string
	InherentRiskScore *int
	ResidualRiskScore *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the user supplied fields of the objective
func (o *Objective) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(o.Name) == "" {
		verr.Add("name", "name is required")
	}
	return verr.OrNil()
}

// Clone returns a deep copy of the objective
func (o *Objective) Clone() *Objective {
	if o == nil {
		return nil
	}
	c := *o
	c.InherentRiskScore = clonePtr(o.InherentRiskScore)
	c.ResidualRiskScore = clonePtr(o.ResidualRiskScore)
	return &c
}

// Rollup is the aggregated exposure of an objective
type Rollup struct {
	InherentRiskScore *int
	ResidualRiskScore *int
}

// ComputeRollup takes the maximum non-nil inherent and residual scores of
// entries. A side with no scored entry stays nil.
func ComputeRollup(entries []*RiskEntry) Rollup {
	var r Rollup
	for _, e := range entries {
		r.InherentRiskScore = maxScore(r.InherentRiskScore, e.InherentScore)
		r.ResidualRiskScore = maxScore(r.ResidualRiskScore, e.ResidualScore)
	}
	return r
}

func maxScore(current, candidate *int) *int {
	if candidate == nil {
		return current
	}
	if current == nil || *candidate > *current {
		v := *candidate
		return &v
	}
	return current
}
