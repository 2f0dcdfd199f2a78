package usecase

import (
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
)

// BootstrapResult lists the system templates by what Bootstrap did with them
type BootstrapResult struct {
	Created   []string
	Updated   []string
	Unchanged []string
}

// Bootstrap upserts the built-in default templates and any configured
// organisation templates as system defaults, matched by name. Running it
// again without changes is a no-op.
func (uc *UseCases) Bootstrap(ctx context.Context) (*BootstrapResult, error) {
	templates := append(model.DefaultTemplates(), uc.extraTemplates...)

	result := &BootstrapResult{}
	for _, draft := range templates {
		tpl := draft.Clone()
		tpl.IsDefault = true
		tpl.OwnerID = ""

		if err := validateTemplate(tpl); err != nil {
			return nil, goerr.Wrap(err, "invalid system template", goerr.V("name", tpl.Name))
		}

		existing, err := uc.repo.Template().GetDefaultByName(ctx, tpl.Name)
		switch {
		case isNotFound(err):
			if _, err := uc.repo.Template().Create(ctx, tpl); err != nil {
				return nil, goerr.Wrap(err, "failed to create system template", goerr.V("name", tpl.Name))
			}
			result.Created = append(result.Created, tpl.Name)

		case err != nil:
			return nil, goerr.Wrap(err, "failed to look up system template", goerr.V("name", tpl.Name))

		case sameTemplateContent(existing, tpl):
			result.Unchanged = append(result.Unchanged, tpl.Name)

		default:
			tpl.ID = existing.ID
			if _, err := uc.Template.UpdateTemplate(ctx, existing.ID, tpl); err != nil {
				return nil, goerr.Wrap(err, "failed to update system template", goerr.V("name", tpl.Name))
			}
			result.Updated = append(result.Updated, tpl.Name)
		}
	}

	logging.From(ctx).Info("System templates bootstrapped",
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
	)
	return result, nil
}

func sameTemplateContent(a, b *model.RiskMapTemplate) bool {
	return a.Description == b.Description &&
		slices.Equal(a.LikelihoodLabels, b.LikelihoodLabels) &&
		slices.Equal(a.ImpactLabels, b.ImpactLabels) &&
		slices.Equal(a.Levels, b.Levels) &&
		slices.Equal(a.Cells, b.Cells)
}
