package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Impact is an ordinal severity rating on the 1..5 axis
type Impact int

// Validate checks if the Impact is within the matrix axis
func (i Impact) Validate() error {
	if i < MinLevel || i > MaxLevel {
		return goerr.New("impact must be between 1 and 5", goerr.V("impact", int(i)))
	}
	return nil
}

// Int returns the integer value of the Impact
func (i Impact) Int() int {
	return int(i)
}

// ImpactPtr is a helper for building optional impact inputs
func ImpactPtr(v int) *Impact {
	i := Impact(v)
	return &i
}
