package types

import "fmt"

// AssessmentKind identifies which workflow produced an assessment
type AssessmentKind string

const (
	AssessmentKindBasic    AssessmentKind = "basic"
	AssessmentKindMadya    AssessmentKind = "madya"
	AssessmentKindAI       AssessmentKind = "ai"
	AssessmentKindBPR      AssessmentKind = "bpr"
	AssessmentKindRSCA     AssessmentKind = "rsca"
	AssessmentKindRegister AssessmentKind = "register"
)

// AllAssessmentKinds returns all valid assessment kinds
func AllAssessmentKinds() []AssessmentKind {
	return []AssessmentKind{
		AssessmentKindBasic,
		AssessmentKindMadya,
		AssessmentKindAI,
		AssessmentKindBPR,
		AssessmentKindRSCA,
		AssessmentKindRegister,
	}
}

// IsValid checks if the assessment kind is valid
func (k AssessmentKind) IsValid() bool {
	switch k {
	case AssessmentKindBasic,
		AssessmentKindMadya,
		AssessmentKindAI,
		AssessmentKindBPR,
		AssessmentKindRSCA,
		AssessmentKindRegister:
		return true
	default:
		return false
	}
}

// String returns the string representation of the assessment kind
func (k AssessmentKind) String() string {
	return string(k)
}

// ParseAssessmentKind parses a string into an AssessmentKind
func ParseAssessmentKind(s string) (AssessmentKind, error) {
	kind := AssessmentKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid assessment kind: %s", s)
	}
	return kind, nil
}
