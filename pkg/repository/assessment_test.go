package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
)

func runAssessmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, &model.Assessment{
			Kind:        types.AssessmentKindMadya,
			Title:       "Madya 2026",
			Description: "Annual review",
			OwnerID:     "U001",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(int64(0))

		got, err := repo.Assessment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Kind).Equal(types.AssessmentKindMadya)
		gt.Value(t, got.Title).Equal("Madya 2026")
		gt.Value(t, got.TemplateID).Equal(int64(0))
	})

	t.Run("List filters by owner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, owner := range []string{"U001", "U002", "U001"} {
			_, err := repo.Assessment().Create(ctx, &model.Assessment{
				Kind:    types.AssessmentKindBasic,
				Title:   "Assessment of " + owner,
				OwnerID: owner,
			})
			gt.NoError(t, err).Required()
		}

		mine, err := repo.Assessment().List(ctx, "U001")
		gt.NoError(t, err).Required()
		gt.Array(t, mine).Length(2)

		all, err := repo.Assessment().List(ctx, "")
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3)
	})

	t.Run("Update rebinds the template", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tpl, err := repo.Template().Create(ctx, newTestTemplate("Org", "U001"))
		gt.NoError(t, err).Required()
		a := createAssessment(t, repo, 0)

		a.TemplateID = tpl.ID
		_, err = repo.Assessment().Update(ctx, a)
		gt.NoError(t, err).Required()

		count, err := repo.Assessment().CountByTemplate(ctx, tpl.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(1)

		bound, err := repo.Assessment().ListByTemplate(ctx, tpl.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, bound).Length(1)
		gt.Value(t, bound[0].ID).Equal(a.ID)
	})

	t.Run("Delete cascades objectives, entries and narratives", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		obj, err := repo.Objective().Create(ctx, &model.Objective{AssessmentID: a.ID, Name: "Revenue"})
		gt.NoError(t, err).Required()
		entry, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{
			AssessmentID: a.ID,
			ObjectiveID:  obj.ID,
			Title:        "Supplier failure",
		})
		gt.NoError(t, err).Required()
		report := &model.NarrativeReport{
			ID:           model.NewNarrativeID(),
			AssessmentID: a.ID,
			Content:      "Supplier failure dominates.",
			CreatedAt:    time.Now().UTC(),
		}
		gt.NoError(t, repo.Narrative().Put(ctx, report)).Required()

		gt.NoError(t, repo.Assessment().Delete(ctx, a.ID)).Required()

		_, err = repo.Assessment().Get(ctx, a.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
		_, err = repo.Objective().Get(ctx, obj.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
		_, err = repo.RiskEntry().Get(ctx, entry.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
		_, err = repo.Narrative().Get(ctx, report.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("Delete of unknown assessment returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Assessment().Delete(context.Background(), 99999)
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
