package interfaces

import (
	"context"

	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type TemplateRepository interface {
	// Create stores a template together with its children and assigns an ID
	Create(ctx context.Context, tpl *model.RiskMapTemplate) (*model.RiskMapTemplate, error)

	// Get retrieves a template by ID
	Get(ctx context.Context, id int64) (*model.RiskMapTemplate, error)

	// GetDefaultByName retrieves a system default template by name. Returns ErrNotFound if absent.
	GetDefaultByName(ctx context.Context, name string) (*model.RiskMapTemplate, error)

	// List retrieves system defaults and templates owned by ownerID
	List(ctx context.Context, ownerID string) ([]*model.RiskMapTemplate, error)

	// Replace atomically replaces all fields and children of an existing template
	// and increments its version
	Replace(ctx context.Context, tpl *model.RiskMapTemplate) (*model.RiskMapTemplate, error)

	// Delete removes a template and its children. It fails with ErrInUse when
	// any assessment still references the template; the check and the delete
	// are atomic.
	Delete(ctx context.Context, id int64) error
}
