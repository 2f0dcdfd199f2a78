package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

var (
	// ErrNarrativeDisabled is returned when no LLM is configured
	ErrNarrativeDisabled = goerr.New("narrative generation is not configured")
)

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
