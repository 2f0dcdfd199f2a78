package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type templateRepository struct {
	store *store
}

func (r *templateRepository) Create(ctx context.Context, tpl *model.RiskMapTemplate) (*model.RiskMapTemplate, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	created := tpl.Clone()
	created.ID = r.store.allocID("templates")
	created.Version = 1
	created.CreatedAt = now
	created.UpdatedAt = now

	r.store.templates[created.ID] = created
	return created.Clone(), nil
}

func (r *templateRepository) Get(ctx context.Context, id int64) (*model.RiskMapTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tpl, exists := r.store.templates[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "template not found", goerr.V(model.TemplateIDKey, id))
	}

	// Return a copy to prevent external modification
	return tpl.Clone(), nil
}

func (r *templateRepository) GetDefaultByName(ctx context.Context, name string) (*model.RiskMapTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var found *model.RiskMapTemplate
	for _, tpl := range r.store.templates {
		if tpl.IsDefault && tpl.Name == name && (found == nil || tpl.ID < found.ID) {
			found = tpl
		}
	}
	if found == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "default template not found", goerr.V("name", name))
	}
	return found.Clone(), nil
}

func (r *templateRepository) List(ctx context.Context, ownerID string) ([]*model.RiskMapTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	templates := make([]*model.RiskMapTemplate, 0, len(r.store.templates))
	for _, tpl := range r.store.templates {
		if tpl.IsDefault || (ownerID != "" && tpl.OwnerID == ownerID) {
			templates = append(templates, tpl.Clone())
		}
	}

	sortTemplates(templates)
	return templates, nil
}

// sortTemplates orders system defaults first, then by ID
func sortTemplates(templates []*model.RiskMapTemplate) {
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].IsDefault != templates[j].IsDefault {
			return templates[i].IsDefault
		}
		return templates[i].ID < templates[j].ID
	})
}

func (r *templateRepository) Replace(ctx context.Context, tpl *model.RiskMapTemplate) (*model.RiskMapTemplate, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, exists := r.store.templates[tpl.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "template not found", goerr.V(model.TemplateIDKey, tpl.ID))
	}

	replaced := tpl.Clone()
	replaced.Version = existing.Version + 1
	replaced.CreatedAt = existing.CreatedAt
	replaced.UpdatedAt = time.Now().UTC()

	r.store.templates[replaced.ID] = replaced
	return replaced.Clone(), nil
}

func (r *templateRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.templates[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "template not found", goerr.V(model.TemplateIDKey, id))
	}

	refs := 0
	for _, a := range r.store.assessments {
		if a.TemplateID == id {
			refs++
		}
	}
	if refs > 0 {
		return goerr.Wrap(model.ErrInUse, "template is referenced by assessments",
			goerr.V(model.TemplateIDKey, id),
			goerr.V("assessment_count", refs))
	}

	delete(r.store.templates, id)
	return nil
}
