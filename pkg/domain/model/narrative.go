package model

import (
	"time"

	"github.com/google/uuid"
)

// NarrativeID is a UUID-based identifier for NarrativeReport
type NarrativeID string

// NewNarrativeID generates a new UUID v4 NarrativeID
func NewNarrativeID() NarrativeID {
	return NarrativeID(uuid.New().String())
}

// String returns the string representation of NarrativeID
func (id NarrativeID) String() string {
	return string(id)
}

// NarrativeReport is an AI authored summary of an assessment
type NarrativeReport struct {
	ID           NarrativeID
	AssessmentID int64
	Content      string
	CreatedAt    time.Time
}
