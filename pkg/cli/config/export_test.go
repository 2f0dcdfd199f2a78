package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string, temperature float64, language string) *Gemini {
	return &Gemini{
		projectID:   projectID,
		location:    location,
		temperature: temperature,
		language:    language,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, collectionPrefix string) *Repository {
	return &Repository{
		backend:          backend,
		projectID:        projectID,
		collectionPrefix: collectionPrefix,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewTemplatesForTest creates a Templates config for testing purposes
func NewTemplatesForTest(path string) *Templates {
	return &Templates{path: path}
}
