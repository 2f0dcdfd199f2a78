package interfaces

import (
	"context"

	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type ObjectiveRepository interface {
	Create(ctx context.Context, o *model.Objective) (*model.Objective, error)
	Get(ctx context.Context, id int64) (*model.Objective, error)
	ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.Objective, error)
	Update(ctx context.Context, o *model.Objective) (*model.Objective, error)

	// UpdateRollup persists only the derived risk scores of the objective
	UpdateRollup(ctx context.Context, id int64, rollup model.Rollup) (*model.Objective, error)

	// Delete removes the objective and clears the objective of its entries
	Delete(ctx context.Context, id int64) error
}
