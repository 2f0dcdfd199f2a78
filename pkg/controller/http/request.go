package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/metrics"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations with the JSON field names clients sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type axisLabelRequest struct {
	Level int    `json:"level"`
	Label string `json:"label" validate:"max=100"`
}

type levelRequest struct {
	Name     string `json:"name" validate:"max=100"`
	Color    string `json:"color"`
	MinScore int    `json:"min_score"`
	MaxScore int    `json:"max_score"`
}

type cellRequest struct {
	Likelihood int `json:"likelihood"`
	Impact     int `json:"impact"`
	Score      int `json:"score" validate:"gte=0"`
}

// templateRequest bounds the payload size. The template rules themselves run
// through validateDomain so that both kinds of violation are reported at once.
type templateRequest struct {
	Name             string             `json:"name" validate:"max=200"`
	Description      string             `json:"description" validate:"max=2000"`
	OwnerID          string             `json:"owner_id" validate:"max=200"`
	LikelihoodLabels []axisLabelRequest `json:"likelihood_labels" validate:"max=5,dive"`
	ImpactLabels     []axisLabelRequest `json:"impact_labels" validate:"max=5,dive"`
	Levels           []levelRequest     `json:"levels" validate:"max=25,dive"`
	Cells            []cellRequest      `json:"cells" validate:"max=25,dive"`
}

func (req *templateRequest) toModel() *model.RiskMapTemplate {
	tpl := &model.RiskMapTemplate{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	}
	for _, l := range req.LikelihoodLabels {
		tpl.LikelihoodLabels = append(tpl.LikelihoodLabels, model.AxisLabel{Level: l.Level, Label: l.Label})
	}
	for _, l := range req.ImpactLabels {
		tpl.ImpactLabels = append(tpl.ImpactLabels, model.AxisLabel{Level: l.Level, Label: l.Label})
	}
	for _, lv := range req.Levels {
		tpl.Levels = append(tpl.Levels, model.LevelDefinition{
			Name:     lv.Name,
			Color:    lv.Color,
			MinScore: lv.MinScore,
			MaxScore: lv.MaxScore,
		})
	}
	for _, c := range req.Cells {
		tpl.Cells = append(tpl.Cells, model.ScoreCell{
			Likelihood: types.Likelihood(c.Likelihood),
			Impact:     types.Impact(c.Impact),
			Score:      c.Score,
		})
	}
	return tpl
}

func (req *templateRequest) validateDomain() error {
	if err := req.toModel().Validate(); err != nil {
		metrics.TemplateValidationFailures.Inc()
		return err
	}
	return nil
}

type scoreRequest struct {
	TemplateID int64 `json:"template_id" validate:"gte=0"`
	Likelihood *int  `json:"likelihood" validate:"omitempty,min=1,max=5"`
	Impact     *int  `json:"impact" validate:"omitempty,min=1,max=5"`
}

type assessmentRequest struct {
	Kind        string `json:"kind" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	OwnerID     string `json:"owner_id" validate:"max=200"`
	TemplateID  int64  `json:"template_id" validate:"gte=0"`
}

func (req *assessmentRequest) toInput() usecase.AssessmentInput {
	return usecase.AssessmentInput{
		Kind:        types.AssessmentKind(req.Kind),
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     req.OwnerID,
		TemplateID:  req.TemplateID,
	}
}

type rebindRequest struct {
	TemplateID int64 `json:"template_id" validate:"gte=0"`
}

type objectiveRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	KPI  string `json:"kpi" validate:"max=500"`
}

type entryRequest struct {
	ObjectiveID        int64  `json:"objective_id" validate:"gte=0"`
	Title              string `json:"title" validate:"required,max=200"`
	Description        string `json:"description" validate:"max=4000"`
	Cause              string `json:"cause" validate:"max=4000"`
	Consequence        string `json:"consequence" validate:"max=4000"`
	InherentLikelihood *int   `json:"inherent_likelihood" validate:"omitempty,min=1,max=5"`
	InherentImpact     *int   `json:"inherent_impact" validate:"omitempty,min=1,max=5"`
	ResidualLikelihood *int   `json:"residual_likelihood" validate:"omitempty,min=1,max=5"`
	ResidualImpact     *int   `json:"residual_impact" validate:"omitempty,min=1,max=5"`
}

func (req *entryRequest) toInput() usecase.EntryInput {
	return usecase.EntryInput{
		ObjectiveID:        req.ObjectiveID,
		Title:              req.Title,
		Description:        req.Description,
		Cause:              req.Cause,
		Consequence:        req.Consequence,
		InherentLikelihood: likelihoodOf(req.InherentLikelihood),
		InherentImpact:     impactOf(req.InherentImpact),
		ResidualLikelihood: likelihoodOf(req.ResidualLikelihood),
		ResidualImpact:     impactOf(req.ResidualImpact),
	}
}

func likelihoodOf(v *int) *types.Likelihood {
	if v == nil {
		return nil
	}
	return types.LikelihoodPtr(*v)
}

func impactOf(v *int) *types.Impact {
	if v == nil {
		return nil
	}
	return types.ImpactPtr(*v)
}

// domainChecker is implemented by requests whose model carries its own
// validation rules. Those violations are reported together with the shape
// violations found by the struct validator.
type domainChecker interface {
	validateDomain() error
}

// decodeRequest reads a JSON body into v and runs the struct validator and,
// when v is a domainChecker, the model rules. Every failure is returned as one
// model.ValidationError.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		verr := &model.ValidationError{}
		verr.Add("body", "malformed JSON: %s", err.Error())
		return goerr.Wrap(verr, "failed to decode request body")
	}

	verr := &model.ValidationError{}
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return goerr.Wrap(err, "failed to validate request")
		}
		for _, fe := range fieldErrs {
			verr.Add(fieldPath(fe.Namespace()), "failed on %q rule", fe.Tag())
		}
	}

	if dc, ok := v.(domainChecker); ok {
		if err := dc.validateDomain(); err != nil {
			var domainErr *model.ValidationError
			if !errors.As(err, &domainErr) {
				return goerr.Wrap(err, "failed to validate request")
			}
			verr.Violations = append(verr.Violations, domainErr.Violations...)
		}
	}

	if err := verr.OrNil(); err != nil {
		return goerr.Wrap(err, "invalid request")
	}
	return nil
}

// fieldPath drops the struct name from a validator namespace such as
// "entryRequest.inherent_likelihood"
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

// pathID parses a positive integer URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		verr := &model.ValidationError{}
		verr.Add(name, "%q is not a valid ID", raw)
		return 0, goerr.Wrap(verr, "invalid path parameter")
	}
	return id, nil
}
