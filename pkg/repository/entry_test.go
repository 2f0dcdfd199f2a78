package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
)

func runRiskEntryRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns sequence per assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a1 := createAssessment(t, repo, 0)
		a2 := createAssessment(t, repo, 0)

		var seqs []int
		for _, aID := range []int64{a1.ID, a1.ID, a2.ID, a1.ID} {
			e, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{AssessmentID: aID, Title: "Risk"})
			gt.NoError(t, err).Required()
			seqs = append(seqs, e.Sequence)
		}
		gt.Value(t, seqs).Equal([]int{1, 2, 1, 3})

		entries, err := repo.RiskEntry().ListByAssessment(ctx, a1.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(3)
		gt.Value(t, entries[0].Sequence).Equal(1)
		gt.Value(t, entries[2].Sequence).Equal(3)
	})

	t.Run("Sequence numbers are not reused after a delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		a := createAssessment(t, repo, 0)

		var last *model.RiskEntry
		for range 3 {
			e, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{AssessmentID: a.ID, Title: "Risk"})
			gt.NoError(t, err).Required()
			last = e
		}
		gt.Value(t, last.Sequence).Equal(3)
		gt.NoError(t, repo.RiskEntry().Delete(ctx, last.ID)).Required()

		next, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{AssessmentID: a.ID, Title: "Risk"})
		gt.NoError(t, err).Required()
		gt.Value(t, next.Sequence).Equal(4)
	})

	t.Run("Create requires an existing assessment", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.RiskEntry().Create(context.Background(), &model.RiskEntry{AssessmentID: 99999, Title: "Orphan"})
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("Scores round trip including nil", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		created, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{
			AssessmentID:       a.ID,
			Title:              "Data leak",
			InherentLikelihood: types.LikelihoodPtr(3),
			InherentImpact:     types.ImpactPtr(4),
			InherentScore:      model.IntPtr(12),
			ResidualLikelihood: types.LikelihoodPtr(2),
		})
		gt.NoError(t, err).Required()

		got, err := repo.RiskEntry().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, *got.InherentLikelihood).Equal(types.Likelihood(3))
		gt.Value(t, *got.InherentImpact).Equal(types.Impact(4))
		gt.Value(t, *got.InherentScore).Equal(12)
		gt.Value(t, *got.ResidualLikelihood).Equal(types.Likelihood(2))
		gt.Value(t, got.ResidualImpact).Nil()
		gt.Value(t, got.ResidualScore).Nil()
	})

	t.Run("Update keeps assessment and sequence", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		other := createAssessment(t, repo, 0)
		created, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{AssessmentID: a.ID, Title: "Risk"})
		gt.NoError(t, err).Required()

		created.Title = "Renamed"
		created.AssessmentID = other.ID
		created.Sequence = 42
		_, err = repo.RiskEntry().Update(ctx, created)
		gt.NoError(t, err).Required()

		got, err := repo.RiskEntry().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Renamed")
		gt.Value(t, got.AssessmentID).Equal(a.ID)
		gt.Value(t, got.Sequence).Equal(1)
	})

	t.Run("UpdateMany writes nothing when one entry is missing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		created, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{AssessmentID: a.ID, Title: "Original"})
		gt.NoError(t, err).Required()

		changed := created.Clone()
		changed.Title = "Changed"
		err = repo.RiskEntry().UpdateMany(ctx, []*model.RiskEntry{
			changed,
			{ID: 99999, AssessmentID: a.ID, Title: "Ghost"},
		})
		gt.Error(t, err).Is(model.ErrNotFound)

		got, err := repo.RiskEntry().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Original")
	})

	t.Run("ListByObjective returns only grouped entries", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		obj, err := repo.Objective().Create(ctx, &model.Objective{AssessmentID: a.ID, Name: "Revenue"})
		gt.NoError(t, err).Required()

		_, err = repo.RiskEntry().Create(ctx, &model.RiskEntry{AssessmentID: a.ID, ObjectiveID: obj.ID, Title: "Grouped"})
		gt.NoError(t, err).Required()
		_, err = repo.RiskEntry().Create(ctx, &model.RiskEntry{AssessmentID: a.ID, Title: "Loose"})
		gt.NoError(t, err).Required()

		entries, err := repo.RiskEntry().ListByObjective(ctx, obj.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.Value(t, entries[0].Title).Equal("Grouped")
	})

	t.Run("Delete removes the entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := createAssessment(t, repo, 0)
		created, err := repo.RiskEntry().Create(ctx, &model.RiskEntry{AssessmentID: a.ID, Title: "Risk"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.RiskEntry().Delete(ctx, created.ID)).Required()
		_, err = repo.RiskEntry().Get(ctx, created.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
