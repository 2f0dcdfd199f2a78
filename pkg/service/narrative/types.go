package narrative

import "context"

// Service writes a natural language summary of a scored assessment
type Service interface {
	Summarize(ctx context.Context, input Input) (*Result, error)
}

// Input is the already scored view of one assessment
type Input struct {
	AssessmentTitle string
	AssessmentKind  string
	TemplateName    string
	Objectives      []Objective
	Entries         []Entry
	Language        string // output language, defaults to the language of the entries
}

// Objective is an objective with its rollup labels
type Objective struct {
	Name          string
	KPI           string
	InherentLabel string
	ResidualLabel string
}

// Entry is one risk entry with its labels, e.g. "Level 18, Tinggi"
type Entry struct {
	Sequence      int
	Title         string
	Cause         string
	Consequence   string
	Objective     string
	InherentLabel string
	ResidualLabel string
}

// Result is the generated narrative
type Result struct {
	Summary    string
	Highlights []string
}

// Markdown renders the result as stored report content
func (r *Result) Markdown() string {
	if r == nil {
		return ""
	}
	content := r.Summary
	if len(r.Highlights) > 0 {
		content += "\n"
		for _, h := range r.Highlights {
			content += "\n- " + h
		}
	}
	return content
}

// llmResponse is the structured output from the LLM
type llmResponse struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}
