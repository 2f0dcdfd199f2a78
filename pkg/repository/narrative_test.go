package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

func runNarrativeRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and List newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		now := time.Now().UTC().Truncate(time.Millisecond)

		older := &model.NarrativeReport{ID: model.NewNarrativeID(), AssessmentID: a.ID, Content: "first", CreatedAt: now.Add(-time.Hour)}
		newer := &model.NarrativeReport{ID: model.NewNarrativeID(), AssessmentID: a.ID, Content: "second", CreatedAt: now}
		gt.NoError(t, repo.Narrative().Put(ctx, older)).Required()
		gt.NoError(t, repo.Narrative().Put(ctx, newer)).Required()

		reports, err := repo.Narrative().ListByAssessment(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, reports).Length(2)
		gt.Value(t, reports[0].ID).Equal(newer.ID)

		got, err := repo.Narrative().Get(ctx, older.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Content).Equal("first")
	})

	t.Run("Get of unknown ID returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Narrative().Get(context.Background(), model.NewNarrativeID())
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
