package usecase

import (
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/service/narrative"
)

type UseCases struct {
	repo             interfaces.Repository
	narrativeService narrative.Service
	extraTemplates   []*model.RiskMapTemplate

	Scorer     *Scorer
	Template   *TemplateUseCase
	Assessment *AssessmentUseCase
	Objective  *ObjectiveUseCase
	RiskEntry  *RiskEntryUseCase
	Matrix     *MatrixUseCase
	Narrative  *NarrativeUseCase
}

type Option func(*UseCases)

// WithNarrativeService enables LLM narrative generation
func WithNarrativeService(svc narrative.Service) Option {
	return func(uc *UseCases) {
		uc.narrativeService = svc
	}
}

// WithTemplates adds organisation templates that Bootstrap seeds next to the
// built-in defaults
func WithTemplates(templates []*model.RiskMapTemplate) Option {
	return func(uc *UseCases) {
		uc.extraTemplates = templates
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Scorer = NewScorer()
	uc.RiskEntry = NewRiskEntryUseCase(repo, uc.Scorer)
	uc.Template = NewTemplateUseCase(repo, uc.RiskEntry)
	uc.Assessment = NewAssessmentUseCase(repo, uc.RiskEntry)
	uc.Objective = NewObjectiveUseCase(repo)
	uc.Matrix = NewMatrixUseCase(repo)
	uc.Narrative = NewNarrativeUseCase(repo, uc.narrativeService)

	return uc
}
