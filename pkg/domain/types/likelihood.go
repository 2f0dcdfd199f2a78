package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// MinLevel and MaxLevel bound both axes of the risk matrix
const (
	MinLevel = 1
	MaxLevel = 5
)

// Likelihood is an ordinal probability rating on the 1..5 axis
type Likelihood int

// Validate checks if the Likelihood is within the matrix axis
func (l Likelihood) Validate() error {
	if l < MinLevel || l > MaxLevel {
		return goerr.New("likelihood must be between 1 and 5", goerr.V("likelihood", int(l)))
	}
	return nil
}

// Int returns the integer value of the Likelihood
func (l Likelihood) Int() int {
	return int(l)
}

// LikelihoodPtr is a helper for building optional likelihood inputs
func LikelihoodPtr(v int) *Likelihood {
	l := Likelihood(v)
	return &l
}
