package http

import (
	"context"
	"net/http"
	"time"

	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/safe"
)

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.EncodeJSON(ctx, w, v)
}

type idResponse struct {
	ID any `json:"id"`
}

type axisLabelResponse struct {
	Level int    `json:"level"`
	Label string `json:"label"`
}

type levelResponse struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	MinScore int    `json:"min_score"`
	MaxScore int    `json:"max_score"`
}

type cellResponse struct {
	Likelihood int `json:"likelihood"`
	Impact     int `json:"impact"`
	Score      int `json:"score"`
}

type templateResponse struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	Version          int                 `json:"version"`
	IsDefault        bool                `json:"is_default"`
	OwnerID          string              `json:"owner_id,omitempty"`
	LikelihoodLabels []axisLabelResponse `json:"likelihood_labels"`
	ImpactLabels     []axisLabelResponse `json:"impact_labels"`
	Levels           []levelResponse     `json:"levels"`
	Cells            []cellResponse      `json:"cells"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func toAxisLabels(labels []model.AxisLabel) []axisLabelResponse {
	resp := make([]axisLabelResponse, len(labels))
	for i, l := range labels {
		resp[i] = axisLabelResponse{Level: l.Level, Label: l.Label}
	}
	return resp
}

func toLevel(lv *model.LevelDefinition) *levelResponse {
	if lv == nil {
		return nil
	}
	return &levelResponse{
		Name:     lv.Name,
		Color:    lv.Color,
		MinScore: lv.MinScore,
		MaxScore: lv.MaxScore,
	}
}

func toTemplate(t *model.RiskMapTemplate) *templateResponse {
	resp := &templateResponse{
		ID:               t.ID,
		Name:             t.Name,
		Description:      t.Description,
		Version:          t.Version,
		IsDefault:        t.IsDefault,
		OwnerID:          t.OwnerID,
		LikelihoodLabels: toAxisLabels(t.LikelihoodLabels),
		ImpactLabels:     toAxisLabels(t.ImpactLabels),
		Levels:           make([]levelResponse, len(t.Levels)),
		Cells:            make([]cellResponse, len(t.Cells)),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	for i := range t.Levels {
		resp.Levels[i] = *toLevel(&t.Levels[i])
	}
	for i, c := range t.Cells {
		resp.Cells[i] = cellResponse{Likelihood: c.Likelihood.Int(), Impact: c.Impact.Int(), Score: c.Score}
	}
	return resp
}

type scoreResponse struct {
	Score *int           `json:"score"`
	Level *levelResponse `json:"level"`
	Label string         `json:"label"`
}

func toScore(r usecase.ScoreResult) *scoreResponse {
	return &scoreResponse{
		Score: r.Score,
		Level: toLevel(r.Level),
		Label: r.Label,
	}
}

type assessmentResponse struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	TemplateID  int64     `json:"template_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAssessment(a *model.Assessment) *assessmentResponse {
	return &assessmentResponse{
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

type recomputeResponse struct {
	EntriesRescored   int `json:"entries_rescored"`
	ObjectivesUpdated int `json:"objectives_updated"`
}

func toRecompute(r *usecase.RecomputeResult) *recomputeResponse {
	return &recomputeResponse{
		EntriesRescored:   r.EntriesRescored,
		ObjectivesUpdated: r.ObjectivesUpdated,
	}
}

type rebindResponse struct {
	Assessment *assessmentResponse `json:"assessment"`
	Recompute  *recomputeResponse  `json:"recompute"`
}

type objectiveResponse struct {
	ID                int64  `json:"id"`
	AssessmentID      int64  `json:"assessment_id"`
	Name              string `json:"name"`
	KPI               string `json:"kpi"`
	InherentRiskScore *int   `json:"inherent_risk_score"`
	ResidualRiskScore *int   `json:"residual_risk_score"`
}

func toObjective(o *model.Objective) *objectiveResponse {
	return &objectiveResponse{
		ID:                o.ID,
		AssessmentID:      o.AssessmentID,
		Name:              o.Name,
		KPI:               o.KPI,
		InherentRiskScore: o.InherentRiskScore,
		ResidualRiskScore: o.ResidualRiskScore,
	}
}

type entryResponse struct {
	ID                 int64     `json:"id"`
	AssessmentID       int64     `json:"assessment_id"`
	ObjectiveID        int64     `json:"objective_id,omitempty"`
	Sequence           int       `json:"sequence"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Cause              string    `json:"cause"`
	Consequence        string    `json:"consequence"`
	InherentLikelihood *int      `json:"inherent_likelihood"`
	InherentImpact     *int      `json:"inherent_impact"`
	InherentScore      *int      `json:"inherent_score"`
	ResidualLikelihood *int      `json:"residual_likelihood"`
	ResidualImpact     *int      `json:"residual_impact"`
	ResidualScore      *int      `json:"residual_score"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func intOf[T ~int](v *T) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func toEntry(e *model.RiskEntry) *entryResponse {
	return &entryResponse{
		ID:                 e.ID,
		AssessmentID:       e.AssessmentID,
		ObjectiveID:        e.ObjectiveID,
		Sequence:           e.Sequence,
		Title:              e.Title,
		Description:        e.Description,
		Cause:              e.Cause,
		Consequence:        e.Consequence,
		InherentLikelihood: intOf(e.InherentLikelihood),
		InherentImpact:     intOf(e.InherentImpact),
		InherentScore:      e.InherentScore,
		ResidualLikelihood: intOf(e.ResidualLikelihood),
		ResidualImpact:     intOf(e.ResidualImpact),
		ResidualScore:      e.ResidualScore,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

type matrixCellResponse struct {
	Likelihood     int    `json:"likelihood"`
	Impact         int    `json:"impact"`
	Score          int    `json:"score"`
	LevelName      string `json:"level_name"`
	Color          string `json:"color"`
	EntrySequences []int  `json:"entry_sequences"`
}

type matrixResponse struct {
	TemplateID       int64                `json:"template_id,omitempty"`
	View             string               `json:"view"`
	LikelihoodLabels []axisLabelResponse  `json:"likelihood_labels"`
	ImpactLabels     []axisLabelResponse  `json:"impact_labels"`
	Cells            []matrixCellResponse `json:"cells"`
}

func toMatrix(m *model.Matrix) *matrixResponse {
	resp := &matrixResponse{
		TemplateID:       m.TemplateID,
		View:             string(m.View),
		LikelihoodLabels: toAxisLabels(m.LikelihoodLabels),
		ImpactLabels:     toAxisLabels(m.ImpactLabels),
		Cells:            make([]matrixCellResponse, len(m.Cells)),
	}
	for i, c := range m.Cells {
		resp.Cells[i] = matrixCellResponse{
			Likelihood:     c.Likelihood.Int(),
			Impact:         c.Impact.Int(),
			Score:          c.Score,
			LevelName:      c.LevelName,
			Color:          c.Color,
			EntrySequences: c.EntrySequences,
		}
	}
	return resp
}

type narrativeResponse struct {
	ID           string    `json:"id"`
	AssessmentID int64     `json:"assessment_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

func toNarrative(n *model.NarrativeReport) *narrativeResponse {
	return &narrativeResponse{
		ID:           n.ID.String(),
		AssessmentID: n.AssessmentID,
		Content:      n.Content,
		CreatedAt:    n.CreatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	resp := make([]R, len(items))
	for i, item := range items {
		resp[i] = fn(item)
	}
	return resp
}
