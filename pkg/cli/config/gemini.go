package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/secmon-lab/sirico/pkg/service/narrative"
	"github.com/urfave/cli/v3"
)

const categoryNarrative = "Narrative"

// defaultNarrativeTemperature keeps summaries close to the scored facts
const defaultNarrativeTemperature = 0.2

// Gemini configures the LLM that writes assessment narratives. Narrative
// generation is disabled when no project is set.
type Gemini struct {
	projectID   string
	location    string
	model       string
	temperature float64
	language    string
}

func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project running Gemini; enables narrative summaries",
			Category:    categoryNarrative,
			Sources:     cli.EnvVars("SIRICO_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Vertex AI location of the Gemini endpoint",
			Category:    categoryNarrative,
			Value:       "us-central1",
			Sources:     cli.EnvVars("SIRICO_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model for narrative summaries (library default when empty)",
			Category:    categoryNarrative,
			Sources:     cli.EnvVars("SIRICO_GEMINI_MODEL"),
			Destination: &g.model,
		},
		&cli.FloatFlag{
			Name:        "narrative-temperature",
			Usage:       "Sampling temperature of narrative summaries",
			Category:    categoryNarrative,
			Value:       defaultNarrativeTemperature,
			Sources:     cli.EnvVars("SIRICO_NARRATIVE_TEMPERATURE"),
			Destination: &g.temperature,
		},
		&cli.StringFlag{
			Name:        "narrative-language",
			Usage:       "Language of narrative summaries, e.g. Indonesian (language of the entries when empty)",
			Category:    categoryNarrative,
			Sources:     cli.EnvVars("SIRICO_NARRATIVE_LANGUAGE"),
			Destination: &g.language,
		},
	}
}

// Enabled reports whether narrative generation is configured
func (g *Gemini) Enabled() bool {
	return g.projectID != ""
}

func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.String("model", g.model),
		slog.Float64("temperature", g.temperature),
		slog.String("language", g.language),
	}
}

// Configure returns the Gemini client, or nil when narrative generation is disabled
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if !g.Enabled() {
		return nil, nil
	}
	if g.temperature < 0 || g.temperature > 2 {
		return nil, goerr.New("narrative-temperature must be between 0 and 2",
			goerr.V("temperature", g.temperature))
	}

	opts := []gemini.Option{
		gemini.WithTemperature(float32(g.temperature)),
	}
	if g.model != "" {
		opts = append(opts, gemini.WithModel(g.model))
	}

	client, err := gemini.New(ctx, g.projectID, g.location, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project_id", g.projectID),
			goerr.V("location", g.location))
	}

	return client, nil
}

// NarrativeOptions returns the narrative service options derived from the flags
func (g *Gemini) NarrativeOptions() []narrative.Option {
	var opts []narrative.Option
	if g.language != "" {
		opts = append(opts, narrative.WithLanguage(g.language))
	}
	return opts
}
