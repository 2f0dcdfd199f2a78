package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
)

type riskEntryDocument struct {
	ID           int64  `firestore:"id"`
	AssessmentID int64  `firestore:"assessment_id"`
	ObjectiveID  int64  `firestore:"objective_id"`
	Sequence     int    `firestore:"sequence"`
	Title        string `firestore:"title"`
	Description  string `firestore:"description"`
	Cause        string `firestore:"cause"`
	Consequence  string `firestore:"consequence"`

	InherentLikelihood *int `firestore:"inherent_likelihood"`
	InherentImpact     *int `firestore:"inherent_impact"`
	InherentScore      *int `firestore:"inherent_score"`
	ResidualLikelihood *int `firestore:"residual_likelihood"`
	ResidualImpact     *int `firestore:"residual_impact"`
	ResidualScore      *int `firestore:"residual_score"`

	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toRiskEntryDocument(e *model.RiskEntry) *riskEntryDocument {
	return &riskEntryDocument{
		ID:                 e.ID,
		AssessmentID:       e.AssessmentID,
		ObjectiveID:        e.ObjectiveID,
		Sequence:           e.Sequence,
		Title:              e.Title,
		Description:        e.Description,
		Cause:              e.Cause,
		Consequence:        e.Consequence,
		InherentLikelihood: likelihoodToInt(e.InherentLikelihood),
		InherentImpact:     impactToInt(e.InherentImpact),
		InherentScore:      e.InherentScore,
		ResidualLikelihood: likelihoodToInt(e.ResidualLikelihood),
		ResidualImpact:     impactToInt(e.ResidualImpact),
		ResidualScore:      e.ResidualScore,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func docToRiskEntry(doc *firestore.DocumentSnapshot) (*model.RiskEntry, error) {
	var d riskEntryDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk entry", goerr.V("doc_id", doc.Ref.ID))
	}
	return &model.RiskEntry{
		ID:                 d.ID,
		AssessmentID:       d.AssessmentID,
		ObjectiveID:        d.ObjectiveID,
		Sequence:           d.Sequence,
		Title:              d.Title,
		Description:        d.Description,
		Cause:              d.Cause,
		Consequence:        d.Consequence,
		InherentLikelihood: intToLikelihood(d.InherentLikelihood),
		InherentImpact:     intToImpact(d.InherentImpact),
		InherentScore:      d.InherentScore,
		ResidualLikelihood: intToLikelihood(d.ResidualLikelihood),
		ResidualImpact:     intToImpact(d.ResidualImpact),
		ResidualScore:      d.ResidualScore,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

func likelihoodToInt(l *types.Likelihood) *int {
	if l == nil {
		return nil
	}
	v := l.Int()
	return &v
}

func impactToInt(i *types.Impact) *int {
	if i == nil {
		return nil
	}
	v := i.Int()
	return &v
}

func intToLikelihood(v *int) *types.Likelihood {
	if v == nil {
		return nil
	}
	return types.LikelihoodPtr(*v)
}

func intToImpact(v *int) *types.Impact {
	if v == nil {
		return nil
	}
	return types.ImpactPtr(*v)
}

type riskEntryRepository struct {
	*base
}

func (r *riskEntryRepository) Create(ctx context.Context, e *model.RiskEntry) (*model.RiskEntry, error) {
	seqCounter := entrySequenceCounter(e.AssessmentID)

	var created *model.RiskEntry
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(r.doc(collectionAssessments, e.AssessmentID)); err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, e.AssessmentID))
			}
			return goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, e.AssessmentID))
		}

		id, err := r.nextValue(tx, "entry_counter")
		if err != nil {
			return err
		}
		seq, err := r.nextValue(tx, seqCounter)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		created = e.Clone()
		created.ID = id
		created.Sequence = int(seq)
		created.CreatedAt = now
		created.UpdatedAt = now

		if err := r.setCounter(tx, "entry_counter", id); err != nil {
			return goerr.Wrap(err, "failed to update entry counter")
		}
		if err := r.setCounter(tx, seqCounter, seq); err != nil {
			return goerr.Wrap(err, "failed to update entry sequence", goerr.V(model.AssessmentIDKey, e.AssessmentID))
		}
		return tx.Set(r.doc(collectionEntries, id), toRiskEntryDocument(created))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk entry")
	}

	return created, nil
}

func (r *riskEntryRepository) Get(ctx context.Context, id int64) (*model.RiskEntry, error) {
	doc, err := r.doc(collectionEntries, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "risk entry not found", goerr.V(model.EntryIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get risk entry", goerr.V(model.EntryIDKey, id))
	}

	return docToRiskEntry(doc)
}

func (r *riskEntryRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.RiskEntry, error) {
	return r.query(ctx, r.collection(collectionEntries).Where("assessment_id", "==", assessmentID).
		OrderBy("sequence", firestore.Asc))
}

func (r *riskEntryRepository) ListByObjective(ctx context.Context, objectiveID int64) ([]*model.RiskEntry, error) {
	return r.query(ctx, r.collection(collectionEntries).Where("objective_id", "==", objectiveID))
}

func (r *riskEntryRepository) query(ctx context.Context, q firestore.Query) ([]*model.RiskEntry, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query risk entries")
	}

	entries := make([]*model.RiskEntry, 0, len(docs))
	for _, doc := range docs {
		e, err := docToRiskEntry(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AssessmentID != entries[j].AssessmentID {
			return entries[i].AssessmentID < entries[j].AssessmentID
		}
		return entries[i].Sequence < entries[j].Sequence
	})
	return entries, nil
}

func (r *riskEntryRepository) Update(ctx context.Context, e *model.RiskEntry) (*model.RiskEntry, error) {
	var updated *model.RiskEntry
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		results, err := r.replaceAll(tx, []*model.RiskEntry{e})
		if err != nil {
			return err
		}
		updated = results[0]
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk entry", goerr.V(model.EntryIDKey, e.ID))
	}

	return updated, nil
}

func (r *riskEntryRepository) UpdateMany(ctx context.Context, entries []*model.RiskEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if len(entries) > maxTransactionWrites {
		return goerr.New("too many risk entries for one transaction", goerr.V("entry_count", len(entries)))
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := r.replaceAll(tx, entries)
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update risk entries", goerr.V("entry_count", len(entries)))
	}

	return nil
}

// replaceAll reads every entry before writing any, as Firestore requires
func (r *riskEntryRepository) replaceAll(tx *firestore.Transaction, entries []*model.RiskEntry) ([]*model.RiskEntry, error) {
	refs := make([]*firestore.DocumentRef, len(entries))
	for i, e := range entries {
		refs[i] = r.doc(collectionEntries, e.ID)
	}

	docs, err := tx.GetAll(refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk entries")
	}

	now := time.Now().UTC()
	updated := make([]*model.RiskEntry, len(entries))
	for i, doc := range docs {
		if !doc.Exists() {
			return nil, goerr.Wrap(model.ErrNotFound, "risk entry not found", goerr.V(model.EntryIDKey, entries[i].ID))
		}
		existing, err := docToRiskEntry(doc)
		if err != nil {
			return nil, err
		}

		u := entries[i].Clone()
		u.AssessmentID = existing.AssessmentID
		u.Sequence = existing.Sequence
		u.CreatedAt = existing.CreatedAt
		u.UpdatedAt = now
		updated[i] = u
	}

	for i, u := range updated {
		if err := tx.Set(refs[i], toRiskEntryDocument(u)); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (r *riskEntryRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.doc(collectionEntries, id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "risk entry not found", goerr.V(model.EntryIDKey, id))
			}
			return goerr.Wrap(err, "failed to get risk entry", goerr.V(model.EntryIDKey, id))
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete risk entry", goerr.V(model.EntryIDKey, id))
	}

	return nil
}
