package memory

import (
	"sync"

	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/domain/model"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// store holds every table behind one lock so that cascades and reference
// guards spanning several tables are atomic.
type store struct {
	mu          sync.RWMutex
	templates   map[int64]*model.RiskMapTemplate
	assessments map[int64]*model.Assessment
	objectives  map[int64]*model.Objective
	entries     map[int64]*model.RiskEntry
	narratives  map[model.NarrativeID]*model.NarrativeReport
	nextID      map[string]int64
}

func (s *store) allocID(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

type Memory struct {
	template   *templateRepository
	assessment *assessmentRepository
	objective  *objectiveRepository
	entry      *riskEntryRepository
	narrative  *narrativeRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	s := &store{
		templates:   make(map[int64]*model.RiskMapTemplate),
		assessments: make(map[int64]*model.Assessment),
		objectives:  make(map[int64]*model.Objective),
		entries:     make(map[int64]*model.RiskEntry),
		narratives:  make(map[model.NarrativeID]*model.NarrativeReport),
		nextID:      make(map[string]int64),
	}

	return &Memory{
		template:   &templateRepository{store: s},
		assessment: &assessmentRepository{store: s},
		objective:  &objectiveRepository{store: s},
		entry:      &riskEntryRepository{store: s},
		narrative:  &narrativeRepository{store: s},
	}
}

func (m *Memory) Template() interfaces.TemplateRepository {
	return m.template
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) Objective() interfaces.ObjectiveRepository {
	return m.objective
}

func (m *Memory) RiskEntry() interfaces.RiskEntryRepository {
	return m.entry
}

func (m *Memory) Narrative() interfaces.NarrativeRepository {
	return m.narrative
}

func (m *Memory) Close() error {
	return nil
}
