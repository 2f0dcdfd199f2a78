package interfaces

import (
	"context"

	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type NarrativeRepository interface {
	Put(ctx context.Context, report *model.NarrativeReport) error
	Get(ctx context.Context, id model.NarrativeID) (*model.NarrativeReport, error)
	ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.NarrativeReport, error)
}
