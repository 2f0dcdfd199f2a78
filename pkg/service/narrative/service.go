package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

type client struct {
	llmClient    gollem.LLMClient
	systemPrompt string
	language     string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithSystemPrompt replaces the built-in system prompt
func WithSystemPrompt(prompt string) Option {
	return func(c *client) {
		c.systemPrompt = prompt
	}
}

// WithLanguage sets the language of summaries whose input does not name one
func WithLanguage(language string) Option {
	return func(c *client) {
		c.language = language
	}
}

// New creates a narrative service backed by the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient:    llmClient,
		systemPrompt: buildSystemPrompt(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) Summarize(ctx context.Context, input Input) (*Result, error) {
	if len(input.Entries) == 0 {
		return &Result{Summary: "No risks have been identified for this assessment."}, nil
	}

	if input.Language == "" {
		input.Language = c.language
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(c.systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(buildUserPrompt(input))})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return nil, goerr.New("empty response from LLM")
	}

	var llmResp llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &llmResp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}
	if strings.TrimSpace(llmResp.Summary) == "" {
		return nil, goerr.New("LLM response has no summary", goerr.V("response", resp.Texts[0]))
	}

	return &Result{
		Summary:    llmResp.Summary,
		Highlights: llmResp.Highlights,
	}, nil
}

func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a risk management analyst writing the executive summary of a risk assessment.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Every risk is already scored. Use the given level labels as they are; never compute or invent scores.\n")
	sb.WriteString("2. Start with the highest residual exposure, then the highest inherent exposure.\n")
	sb.WriteString("3. Mention risks whose residual level is still high after mitigation.\n")
	sb.WriteString("4. A risk labelled Unclassified has not been assessed yet or falls outside every level band. Say so instead of guessing.\n")
	sb.WriteString("5. Keep the summary under 200 words and give at most five highlights.\n")

	return sb.String()
}

func buildUserPrompt(input Input) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Assessment: %s\n\n", input.AssessmentTitle)
	if input.AssessmentKind != "" {
		fmt.Fprintf(&sb, "**Kind:** %s\n", input.AssessmentKind)
	}
	if input.TemplateName != "" {
		fmt.Fprintf(&sb, "**Risk map:** %s\n", input.TemplateName)
	}
	if input.Language != "" {
		fmt.Fprintf(&sb, "**Write in:** %s\n", input.Language)
	}
	sb.WriteString("\n")

	if len(input.Objectives) > 0 {
		sb.WriteString("## Objectives:\n\n")
		for _, o := range input.Objectives {
			fmt.Fprintf(&sb, "- %s", o.Name)
			if o.KPI != "" {
				fmt.Fprintf(&sb, " (KPI: %s)", o.KPI)
			}
			fmt.Fprintf(&sb, ": inherent %s, residual %s\n", o.InherentLabel, o.ResidualLabel)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Risks:\n\n")
	for _, e := range input.Entries {
		fmt.Fprintf(&sb, "### #%d %s\n", e.Sequence, e.Title)
		if e.Objective != "" {
			fmt.Fprintf(&sb, "**Objective:** %s\n", e.Objective)
		}
		if e.Cause != "" {
			fmt.Fprintf(&sb, "**Cause:** %s\n", e.Cause)
		}
		if e.Consequence != "" {
			fmt.Fprintf(&sb, "**Consequence:** %s\n", e.Consequence)
		}
		fmt.Fprintf(&sb, "**Inherent:** %s\n", e.InherentLabel)
		fmt.Fprintf(&sb, "**Residual:** %s\n\n", e.ResidualLabel)
	}

	return sb.String()
}

func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "RiskNarrativeResponse",
		Description: "Executive summary of a risk assessment",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"summary": {
				Type:        gollem.TypeString,
				Description: "Narrative summary of the overall risk exposure",
				Required:    true,
			},
			"highlights": {
				Type:        gollem.TypeArray,
				Description: "Short statements about the most important risks",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
			},
		},
	}
}
