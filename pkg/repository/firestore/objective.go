package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type objectiveDocument struct {
	ID                int64     `firestore:"id"`
	AssessmentID      int64     `firestore:"assessment_id"`
	Name              string    `firestore:"name"`
	KPI               string    `firestore:"kpi"`
	InherentRiskScore *int      `firestore:"inherent_risk_score"`
	ResidualRiskScore *int      `firestore:"residual_risk_score"`
	CreatedAt         time.Time `firestore:"created_at"`
	UpdatedAt         time.Time `firestore:"updated_at"`
}

func toObjectiveDocument(o *model.Objective) *objectiveDocument {
	return &objectiveDocument{
		ID:                o.ID,
		AssessmentID:      o.AssessmentID,
		Name:              o.Name,
		KPI:               o.KPI,
		InherentRiskScore: o.InherentRiskScore,
		ResidualRiskScore: o.ResidualRiskScore,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func docToObjective(doc *firestore.DocumentSnapshot) (*model.Objective, error) {
	var d objectiveDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal objective", goerr.V("doc_id", doc.Ref.ID))
	}
	return &model.Objective{
		ID:                d.ID,
		AssessmentID:      d.AssessmentID,
		Name:              d.Name,
		KPI:               d.KPI,
		InherentRiskScore: d.InherentRiskScore,
		ResidualRiskScore: d.ResidualRiskScore,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}

type objectiveRepository struct {
	*base
}

func (r *objectiveRepository) Create(ctx context.Context, o *model.Objective) (*model.Objective, error) {
	var created *model.Objective
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(r.doc(collectionAssessments, o.AssessmentID)); err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, o.AssessmentID))
			}
			return goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, o.AssessmentID))
		}

		id, err := r.nextValue(tx, "objective_counter")
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		created = o.Clone()
		created.ID = id
		created.CreatedAt = now
		created.UpdatedAt = now

		if err := r.setCounter(tx, "objective_counter", id); err != nil {
			return goerr.Wrap(err, "failed to update objective counter")
		}
		return tx.Set(r.doc(collectionObjectives, id), toObjectiveDocument(created))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create objective")
	}

	return created, nil
}

func (r *objectiveRepository) Get(ctx context.Context, id int64) (*model.Objective, error) {
	doc, err := r.doc(collectionObjectives, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "objective not found", goerr.V(model.ObjectiveIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get objective", goerr.V(model.ObjectiveIDKey, id))
	}

	return docToObjective(doc)
}

func (r *objectiveRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.Objective, error) {
	docs, err := r.collection(collectionObjectives).
		Where("assessment_id", "==", assessmentID).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list objectives", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	objectives := make([]*model.Objective, 0, len(docs))
	for _, doc := range docs {
		o, err := docToObjective(doc)
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}

	sort.Slice(objectives, func(i, j int) bool {
		return objectives[i].ID < objectives[j].ID
	})
	return objectives, nil
}

func (r *objectiveRepository) Update(ctx context.Context, o *model.Objective) (*model.Objective, error) {
	return r.modify(ctx, o.ID, func(existing *model.Objective) {
		existing.Name = o.Name
		existing.KPI = o.KPI
	})
}

func (r *objectiveRepository) UpdateRollup(ctx context.Context, id int64, rollup model.Rollup) (*model.Objective, error) {
	return r.modify(ctx, id, func(existing *model.Objective) {
		existing.InherentRiskScore = rollup.InherentRiskScore
		existing.ResidualRiskScore = rollup.ResidualRiskScore
	})
}

// modify applies fn to the stored objective inside a transaction
func (r *objectiveRepository) modify(ctx context.Context, id int64, fn func(*model.Objective)) (*model.Objective, error) {
	docRef := r.doc(collectionObjectives, id)

	var updated *model.Objective
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "objective not found", goerr.V(model.ObjectiveIDKey, id))
			}
			return goerr.Wrap(err, "failed to get objective", goerr.V(model.ObjectiveIDKey, id))
		}

		updated, err = docToObjective(doc)
		if err != nil {
			return err
		}
		fn(updated)
		updated.UpdatedAt = time.Now().UTC()

		return tx.Set(docRef, toObjectiveDocument(updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update objective", goerr.V(model.ObjectiveIDKey, id))
	}

	return updated, nil
}

func (r *objectiveRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.doc(collectionObjectives, id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "objective not found", goerr.V(model.ObjectiveIDKey, id))
			}
			return goerr.Wrap(err, "failed to get objective", goerr.V(model.ObjectiveIDKey, id))
		}

		entries, err := tx.Documents(r.collection(collectionEntries).Where("objective_id", "==", id)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query risk entries", goerr.V(model.ObjectiveIDKey, id))
		}
		if len(entries)+1 > maxTransactionWrites {
			return goerr.New("objective has too many entries to detach in one transaction",
				goerr.V(model.ObjectiveIDKey, id),
				goerr.V("entry_count", len(entries)))
		}

		for _, doc := range entries {
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "objective_id", Value: int64(0)},
			}); err != nil {
				return err
			}
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete objective", goerr.V(model.ObjectiveIDKey, id))
	}

	return nil
}
