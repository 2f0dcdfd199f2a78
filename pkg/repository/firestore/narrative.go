package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

type narrativeDocument struct {
	ID           string    `firestore:"id"`
	AssessmentID int64     `firestore:"assessment_id"`
	Content      string    `firestore:"content"`
	CreatedAt    time.Time `firestore:"created_at"`
}

type narrativeRepository struct {
	*base
}

func (r *narrativeRepository) Put(ctx context.Context, report *model.NarrativeReport) error {
	if report.ID == "" {
		return goerr.New("narrative ID is required")
	}

	doc := &narrativeDocument{
		ID:           report.ID.String(),
		AssessmentID: report.AssessmentID,
		Content:      report.Content,
		CreatedAt:    report.CreatedAt,
	}
	if _, err := r.collection(collectionNarratives).Doc(report.ID.String()).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put narrative", goerr.V(model.NarrativeIDKey, report.ID))
	}

	return nil
}

func (r *narrativeRepository) Get(ctx context.Context, id model.NarrativeID) (*model.NarrativeReport, error) {
	doc, err := r.collection(collectionNarratives).Doc(id.String()).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "narrative not found", goerr.V(model.NarrativeIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get narrative", goerr.V(model.NarrativeIDKey, id))
	}

	return docToNarrative(doc)
}

func (r *narrativeRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.NarrativeReport, error) {
	docs, err := r.collection(collectionNarratives).
		Where("assessment_id", "==", assessmentID).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list narratives", goerr.V(model.AssessmentIDKey, assessmentID))
	}

	reports := make([]*model.NarrativeReport, 0, len(docs))
	for _, doc := range docs {
		report, err := docToNarrative(doc)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func docToNarrative(doc *firestore.DocumentSnapshot) (*model.NarrativeReport, error) {
	var d narrativeDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal narrative", goerr.V("doc_id", doc.Ref.ID))
	}
	return &model.NarrativeReport{
		ID:           model.NarrativeID(d.ID),
		AssessmentID: d.AssessmentID,
		Content:      d.Content,
		CreatedAt:    d.CreatedAt,
	}, nil
}
