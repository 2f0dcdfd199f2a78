package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

func runTemplateRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and version 1 with children", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Template().Create(ctx, newTestTemplate("Org matrix", "U001"))
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(int64(0))
		gt.Value(t, created.Version).Equal(1)
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		got, err := repo.Template().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Org matrix")
		gt.Array(t, got.LikelihoodLabels).Length(2)
		gt.Array(t, got.Levels).Length(2)
		gt.Array(t, got.Cells).Length(1)
		gt.Value(t, got.Cells[0].Score).Equal(25)
	})

	t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Template().Get(context.Background(), 99999)
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("List returns defaults first then owner templates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		own, err := repo.Template().Create(ctx, newTestTemplate("Mine", "U001"))
		gt.NoError(t, err).Required()
		_, err = repo.Template().Create(ctx, newTestTemplate("Theirs", "U002"))
		gt.NoError(t, err).Required()

		def := newTestTemplate("System", "")
		def.IsDefault = true
		sys, err := repo.Template().Create(ctx, def)
		gt.NoError(t, err).Required()

		list, err := repo.Template().List(ctx, "U001")
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2)
		gt.Value(t, list[0].ID).Equal(sys.ID)
		gt.Value(t, list[1].ID).Equal(own.ID)
	})

	t.Run("GetDefaultByName finds only defaults", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Template().Create(ctx, newTestTemplate("Shared", "U001"))
		gt.NoError(t, err).Required()

		_, err = repo.Template().GetDefaultByName(ctx, "Shared")
		gt.Error(t, err).Is(model.ErrNotFound)

		def := newTestTemplate("Shared", "")
		def.IsDefault = true
		created, err := repo.Template().Create(ctx, def)
		gt.NoError(t, err).Required()

		got, err := repo.Template().GetDefaultByName(ctx, "Shared")
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
	})

	t.Run("Replace swaps children and bumps version", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Template().Create(ctx, newTestTemplate("Org matrix", "U001"))
		gt.NoError(t, err).Required()

		update := created.Clone()
		update.Name = "Org matrix v2"
		update.Cells = nil
		update.Levels = []model.LevelDefinition{
			{Name: "All", Color: "#CCCCCC", MinScore: 1, MaxScore: 25},
		}

		replaced, err := repo.Template().Replace(ctx, update)
		gt.NoError(t, err).Required()
		gt.Value(t, replaced.Version).Equal(2)

		got, err := repo.Template().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Org matrix v2")
		gt.Value(t, got.Version).Equal(2)
		gt.Array(t, got.Cells).Length(0)
		gt.Array(t, got.Levels).Length(1)
		gt.Value(t, got.CreatedAt.Unix()).Equal(created.CreatedAt.Unix())
	})

	t.Run("Replace of unknown template returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		tpl := newTestTemplate("Ghost", "U001")
		tpl.ID = 99999
		_, err := repo.Template().Replace(context.Background(), tpl)
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("Delete of in-use template returns ErrInUse and keeps it", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Template().Create(ctx, newTestTemplate("Bound", "U001"))
		gt.NoError(t, err).Required()
		createAssessment(t, repo, created.ID)

		err = repo.Template().Delete(ctx, created.ID)
		gt.Error(t, err).Is(model.ErrInUse)

		got, err := repo.Template().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Version).Equal(created.Version)
		gt.Array(t, got.Levels).Length(len(created.Levels))
		gt.Array(t, got.Cells).Length(len(created.Cells))
	})

	t.Run("Delete of unused template removes it", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Template().Create(ctx, newTestTemplate("Unused", "U001"))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Template().Delete(ctx, created.ID)).Required()

		_, err = repo.Template().Get(ctx, created.ID)
		gt.Error(t, err).Is(model.ErrNotFound)

		err = repo.Template().Delete(ctx, created.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
