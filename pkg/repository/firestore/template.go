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

// Children are embedded in the template document so replacing them is a single write
type templateDocument struct {
	ID               int64                     `firestore:"id"`
	Name             string                    `firestore:"name"`
	Description      string                    `firestore:"description"`
	Version          int                       `firestore:"version"`
	IsDefault        bool                      `firestore:"is_default"`
	OwnerID          string                    `firestore:"owner_id"`
	LikelihoodLabels []axisLabelDocument       `firestore:"likelihood_labels"`
	ImpactLabels     []axisLabelDocument       `firestore:"impact_labels"`
	Levels           []levelDefinitionDocument `firestore:"levels"`
	Cells            []scoreCellDocument       `firestore:"cells"`
	CreatedAt        time.Time                 `firestore:"created_at"`
	UpdatedAt        time.Time                 `firestore:"updated_at"`
}

type axisLabelDocument struct {
	Level int    `firestore:"level"`
	Label string `firestore:"label"`
}

type levelDefinitionDocument struct {
	Name     string `firestore:"name"`
	Color    string `firestore:"color"`
	MinScore int    `firestore:"min_score"`
	MaxScore int    `firestore:"max_score"`
}

type scoreCellDocument struct {
	Likelihood int `firestore:"likelihood"`
	Impact     int `firestore:"impact"`
	Score      int `firestore:"score"`
}

func toTemplateDocument(t *model.RiskMapTemplate) *templateDocument {
	doc := &templateDocument{
		ID:               t.ID,
		Name:             t.Name,
		Description:      t.Description,
		Version:          t.Version,
		IsDefault:        t.IsDefault,
		OwnerID:          t.OwnerID,
		LikelihoodLabels: toAxisLabelDocuments(t.LikelihoodLabels),
		ImpactLabels:     toAxisLabelDocuments(t.ImpactLabels),
		Levels:           make([]levelDefinitionDocument, len(t.Levels)),
		Cells:            make([]scoreCellDocument, len(t.Cells)),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	for i, lv := range t.Levels {
		doc.Levels[i] = levelDefinitionDocument{
			Name:     lv.Name,
			Color:    lv.Color,
			MinScore: lv.MinScore,
			MaxScore: lv.MaxScore,
		}
	}
	for i, c := range t.Cells {
		doc.Cells[i] = scoreCellDocument{
			Likelihood: int(c.Likelihood),
			Impact:     int(c.Impact),
			Score:      c.Score,
		}
	}
	return doc
}

func toAxisLabelDocuments(labels []model.AxisLabel) []axisLabelDocument {
	docs := make([]axisLabelDocument, len(labels))
	for i, l := range labels {
		docs[i] = axisLabelDocument{Level: l.Level, Label: l.Label}
	}
	return docs
}

func fromTemplateDocument(d *templateDocument) *model.RiskMapTemplate {
	t := &model.RiskMapTemplate{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Version:          d.Version,
		IsDefault:        d.IsDefault,
		OwnerID:          d.OwnerID,
		LikelihoodLabels: fromAxisLabelDocuments(d.LikelihoodLabels),
		ImpactLabels:     fromAxisLabelDocuments(d.ImpactLabels),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	for _, lv := range d.Levels {
		t.Levels = append(t.Levels, model.LevelDefinition{
			Name:     lv.Name,
			Color:    lv.Color,
			MinScore: lv.MinScore,
			MaxScore: lv.MaxScore,
		})
	}
	for _, c := range d.Cells {
		t.Cells = append(t.Cells, model.ScoreCell{
			Likelihood: types.Likelihood(c.Likelihood),
			Impact:     types.Impact(c.Impact),
			Score:      c.Score,
		})
	}
	return t
}

func fromAxisLabelDocuments(docs []axisLabelDocument) []model.AxisLabel {
	var labels []model.AxisLabel
	for _, d := range docs {
		labels = append(labels, model.AxisLabel{Level: d.Level, Label: d.Label})
	}
	return labels
}

func docToTemplate(doc *firestore.DocumentSnapshot) (*model.RiskMapTemplate, error) {
	var d templateDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal template", goerr.V("doc_id", doc.Ref.ID))
	}
	return fromTemplateDocument(&d), nil
}

type templateRepository struct {
	*base
}

func (r *templateRepository) Create(ctx context.Context, tpl *model.RiskMapTemplate) (*model.RiskMapTemplate, error) {
	var created *model.RiskMapTemplate
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		id, err := r.nextValue(tx, "template_counter")
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		created = tpl.Clone()
		created.ID = id
		created.Version = 1
		created.CreatedAt = now
		created.UpdatedAt = now

		if err := r.setCounter(tx, "template_counter", id); err != nil {
			return goerr.Wrap(err, "failed to update template counter")
		}
		return tx.Set(r.doc(collectionTemplates, id), toTemplateDocument(created))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create template")
	}

	return created, nil
}

func (r *templateRepository) Get(ctx context.Context, id int64) (*model.RiskMapTemplate, error) {
	doc, err := r.doc(collectionTemplates, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "template not found", goerr.V(model.TemplateIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get template", goerr.V(model.TemplateIDKey, id))
	}

	return docToTemplate(doc)
}

func (r *templateRepository) GetDefaultByName(ctx context.Context, name string) (*model.RiskMapTemplate, error) {
	iter := r.collection(collectionTemplates).
		Where("is_default", "==", true).
		Where("name", "==", name).
		Documents(ctx)
	defer iter.Stop()

	var found *model.RiskMapTemplate
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate templates", goerr.V("name", name))
		}

		tpl, err := docToTemplate(doc)
		if err != nil {
			return nil, err
		}
		if found == nil || tpl.ID < found.ID {
			found = tpl
		}
	}

	if found == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "default template not found", goerr.V("name", name))
	}
	return found, nil
}

func (r *templateRepository) List(ctx context.Context, ownerID string) ([]*model.RiskMapTemplate, error) {
	templates, err := r.query(ctx, r.collection(collectionTemplates).Where("is_default", "==", true))
	if err != nil {
		return nil, err
	}

	if ownerID != "" {
		owned, err := r.query(ctx, r.collection(collectionTemplates).
			Where("is_default", "==", false).
			Where("owner_id", "==", ownerID))
		if err != nil {
			return nil, err
		}
		templates = append(templates, owned...)
	}

	sort.Slice(templates, func(i, j int) bool {
		if templates[i].IsDefault != templates[j].IsDefault {
			return templates[i].IsDefault
		}
		return templates[i].ID < templates[j].ID
	})
	return templates, nil
}

func (r *templateRepository) query(ctx context.Context, q firestore.Query) ([]*model.RiskMapTemplate, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var templates []*model.RiskMapTemplate
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate templates")
		}

		tpl, err := docToTemplate(doc)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

func (r *templateRepository) Replace(ctx context.Context, tpl *model.RiskMapTemplate) (*model.RiskMapTemplate, error) {
	docRef := r.doc(collectionTemplates, tpl.ID)

	var replaced *model.RiskMapTemplate
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "template not found", goerr.V(model.TemplateIDKey, tpl.ID))
			}
			return goerr.Wrap(err, "failed to get template", goerr.V(model.TemplateIDKey, tpl.ID))
		}

		existing, err := docToTemplate(doc)
		if err != nil {
			return err
		}

		replaced = tpl.Clone()
		replaced.Version = existing.Version + 1
		replaced.CreatedAt = existing.CreatedAt
		replaced.UpdatedAt = time.Now().UTC()

		return tx.Set(docRef, toTemplateDocument(replaced))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to replace template", goerr.V(model.TemplateIDKey, tpl.ID))
	}

	return replaced, nil
}

func (r *templateRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.doc(collectionTemplates, id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "template not found", goerr.V(model.TemplateIDKey, id))
			}
			return goerr.Wrap(err, "failed to get template", goerr.V(model.TemplateIDKey, id))
		}

		refs, err := tx.Documents(r.collection(collectionAssessments).
			Where("template_id", "==", id).
			Limit(1)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query assessments", goerr.V(model.TemplateIDKey, id))
		}
		if len(refs) > 0 {
			return goerr.Wrap(model.ErrInUse, "template is referenced by assessments",
				goerr.V(model.TemplateIDKey, id),
				goerr.V(model.AssessmentIDKey, refs[0].Ref.ID))
		}

		return tx.Delete(docRef)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete template", goerr.V(model.TemplateIDKey, id))
	}

	return nil
}
