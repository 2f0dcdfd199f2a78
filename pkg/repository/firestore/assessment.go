package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type assessmentDocument struct {
	ID          int64     `firestore:"id"`
	Kind        string    `firestore:"kind"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	OwnerID     string    `firestore:"owner_id"`
	TemplateID  int64     `firestore:"template_id"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toAssessmentDocument(a *model.Assessment) *assessmentDocument {
	return &assessmentDocument{
		ID:          a.ID,
		Kind:        a.Kind.String(),
		Title:       a.Title,
		Description: a.Description,
		OwnerID:     a.OwnerID,
		TemplateID:  a.TemplateID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func docToAssessment(doc *firestore.DocumentSnapshot) (*model.Assessment, error) {
	var d assessmentDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("doc_id", doc.Ref.ID))
	}
	return &model.Assessment{
		ID:          d.ID,
		Kind:        types.AssessmentKind(d.Kind),
		Title:       d.Title,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		TemplateID:  d.TemplateID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type assessmentRepository struct {
	*base
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	var created model.Assessment
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		id, err := r.nextValue(tx, "assessment_counter")
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		created = *a
		created.ID = id
		created.CreatedAt = now
		created.UpdatedAt = now

		if err := r.setCounter(tx, "assessment_counter", id); err != nil {
			return goerr.Wrap(err, "failed to update assessment counter")
		}
		return tx.Set(r.doc(collectionAssessments, id), toAssessmentDocument(&created))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}

	return &created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	doc, err := r.doc(collectionAssessments, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, id))
	}

	return docToAssessment(doc)
}

func (r *assessmentRepository) List(ctx context.Context, ownerID string) ([]*model.Assessment, error) {
	q := r.collection(collectionAssessments).Query
	if ownerID != "" {
		q = q.Where("owner_id", "==", ownerID)
	}
	return r.query(ctx, q)
}

func (r *assessmentRepository) ListByTemplate(ctx context.Context, templateID int64) ([]*model.Assessment, error) {
	return r.query(ctx, r.collection(collectionAssessments).Where("template_id", "==", templateID))
}

func (r *assessmentRepository) query(ctx context.Context, q firestore.Query) ([]*model.Assessment, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var assessments []*model.Assessment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		a, err := docToAssessment(doc)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}

	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i].ID < assessments[j].ID
	})
	return assessments, nil
}

func (r *assessmentRepository) Update(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	docRef := r.doc(collectionAssessments, a.ID)

	var updated model.Assessment
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, a.ID))
			}
			return goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, a.ID))
		}

		existing, err := docToAssessment(doc)
		if err != nil {
			return err
		}

		updated = *a
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, toAssessmentDocument(&updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V(model.AssessmentIDKey, a.ID))
	}

	return &updated, nil
}

func (r *assessmentRepository) CountByTemplate(ctx context.Context, templateID int64) (int, error) {
	docs, err := r.collection(collectionAssessments).
		Where("template_id", "==", templateID).
		Select().
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count assessments", goerr.V(model.TemplateIDKey, templateID))
	}

	return len(docs), nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.doc(collectionAssessments, id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, id))
			}
			return goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, id))
		}

		entries, err := tx.Documents(r.collection(collectionEntries).Where("assessment_id", "==", id)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query risk entries", goerr.V(model.AssessmentIDKey, id))
		}
		objectives, err := tx.Documents(r.collection(collectionObjectives).Where("assessment_id", "==", id)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query objectives", goerr.V(model.AssessmentIDKey, id))
		}

		narratives, err := tx.Documents(r.collection(collectionNarratives).Where("assessment_id", "==", id)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query narratives", goerr.V(model.AssessmentIDKey, id))
		}

		// the counter and the assessment itself are the other two writes
		if len(entries)+len(objectives)+len(narratives)+2 > maxTransactionWrites {
			return goerr.New("assessment is too large to delete in one transaction",
				goerr.V(model.AssessmentIDKey, id),
				goerr.V("entry_count", len(entries)),
				goerr.V("objective_count", len(objectives)),
				goerr.V("narrative_count", len(narratives)))
		}

		for _, doc := range entries {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		for _, doc := range objectives {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		for _, doc := range narratives {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		if err := tx.Delete(r.collection(collectionCounters).Doc(entrySequenceCounter(id))); err != nil {
			return err
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V(model.AssessmentIDKey, id))
	}

	return nil
}
