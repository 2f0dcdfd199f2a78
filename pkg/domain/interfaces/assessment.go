package interfaces

import (
	"context"

	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type AssessmentRepository interface {
	Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error)
	Get(ctx context.Context, id int64) (*model.Assessment, error)

	// List retrieves assessments owned by ownerID, or all when ownerID is empty
	List(ctx context.Context, ownerID string) ([]*model.Assessment, error)
	Update(ctx context.Context, a *model.Assessment) (*model.Assessment, error)

	// ListByTemplate retrieves assessments bound to the template
	ListByTemplate(ctx context.Context, templateID int64) ([]*model.Assessment, error)

	// CountByTemplate returns how many assessments reference the template
	CountByTemplate(ctx context.Context, templateID int64) (int, error)

	// Delete removes the assessment with all of its objectives and entries
	Delete(ctx context.Context, id int64) error
}
