package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Template() TemplateRepository
	Assessment() AssessmentRepository
	Objective() ObjectiveRepository
	RiskEntry() RiskEntryRepository
	Narrative() NarrativeRepository

	Close() error
}
