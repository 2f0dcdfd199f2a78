package interfaces

import (
	"context"

	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type RiskEntryRepository interface {
	// Create stores the entry and assigns an ID and the next sequence number of its assessment
	Create(ctx context.Context, e *model.RiskEntry) (*model.RiskEntry, error)
	Get(ctx context.Context, id int64) (*model.RiskEntry, error)
	ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.RiskEntry, error)
	ListByObjective(ctx context.Context, objectiveID int64) ([]*model.RiskEntry, error)
	Update(ctx context.Context, e *model.RiskEntry) (*model.RiskEntry, error)

	// UpdateMany writes several entries in one transaction
	UpdateMany(ctx context.Context, entries []*model.RiskEntry) error
	Delete(ctx context.Context, id int64) error
}
