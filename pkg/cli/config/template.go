package config

import (
	"errors"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// TemplateFile is the TOML layout of organisation templates seeded as
// system defaults next to the built-in ones
type TemplateFile struct {
	Templates []Template `toml:"template"`
}

type Template struct {
	Name        string      `toml:"name"`
	Description string      `toml:"description"`
	Likelihood  []AxisLabel `toml:"likelihood"`
	Impact      []AxisLabel `toml:"impact"`
	Levels      []Level     `toml:"level"`
	Cells       []Cell      `toml:"cell"`
}

type AxisLabel struct {
	Level int    `toml:"level"`
	Label string `toml:"label"`
}

type Level struct {
	Name     string `toml:"name"`
	Color    string `toml:"color"`
	MinScore int    `toml:"min_score"`
	MaxScore int    `toml:"max_score"`
}

type Cell struct {
	Likelihood int `toml:"likelihood"`
	Impact     int `toml:"impact"`
	Score      int `toml:"score"`
}

// ToModel converts the TOML template into a RiskMapTemplate
func (t *Template) ToModel() *model.RiskMapTemplate {
	tpl := &model.RiskMapTemplate{
		Name:        t.Name,
		Description: t.Description,
	}
	for _, l := range t.Likelihood {
		tpl.LikelihoodLabels = append(tpl.LikelihoodLabels, model.AxisLabel{Level: l.Level, Label: l.Label})
	}
	for _, l := range t.Impact {
		tpl.ImpactLabels = append(tpl.ImpactLabels, model.AxisLabel{Level: l.Level, Label: l.Label})
	}
	for _, lv := range t.Levels {
		tpl.Levels = append(tpl.Levels, model.LevelDefinition{
			Name:     lv.Name,
			Color:    lv.Color,
			MinScore: lv.MinScore,
			MaxScore: lv.MaxScore,
		})
	}
	for _, c := range t.Cells {
		tpl.Cells = append(tpl.Cells, model.ScoreCell{
			Likelihood: types.Likelihood(c.Likelihood),
			Impact:     types.Impact(c.Impact),
			Score:      c.Score,
		})
	}
	return tpl
}

// LoadTemplates reads and validates a template file. Names must be unique
// within the file and must not shadow a built-in default.
func LoadTemplates(path string) ([]*model.RiskMapTemplate, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read template file", goerr.V(TemplatePathKey, path))
	}

	var file TemplateFile
	if err := toml.Unmarshal(data, &file); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, goerr.Wrap(ErrInvalidTemplateFile, decodeErr.Error(),
				goerr.V(TemplatePathKey, path), goerr.V("row", row), goerr.V("column", col))
		}
		return nil, goerr.Wrap(err, "failed to parse template file", goerr.V(TemplatePathKey, path))
	}

	if len(file.Templates) == 0 {
		return nil, goerr.Wrap(ErrInvalidTemplateFile, "no [[template]] defined", goerr.V(TemplatePathKey, path))
	}

	names := make(map[string]bool)
	for _, builtin := range model.DefaultTemplates() {
		names[builtin.Name] = true
	}

	templates := make([]*model.RiskMapTemplate, 0, len(file.Templates))
	for idx, t := range file.Templates {
		tpl := t.ToModel()
		if err := tpl.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid template",
				goerr.V(TemplatePathKey, path), goerr.V(TemplateIndexKey, idx), goerr.V(TemplateNameKey, t.Name))
		}
		if names[tpl.Name] {
			return nil, goerr.Wrap(ErrDuplicateTemplate, "template name already used",
				goerr.V(TemplatePathKey, path), goerr.V(TemplateNameKey, tpl.Name))
		}
		names[tpl.Name] = true
		templates = append(templates, tpl)
	}

	return templates, nil
}

// Templates holds the CLI flag that points at an optional template file
type Templates struct {
	path string
}

func (t *Templates) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "template-file",
			Aliases:     []string{"t"},
			Usage:       "TOML file with organisation risk map templates",
			Sources:     cli.EnvVars("SIRICO_TEMPLATE_FILE"),
			Destination: &t.path,
		},
	}
}

func (t *Templates) Path() string {
	return t.path
}

// Configure loads the template file. It returns nil when no file is set.
func (t *Templates) Configure() ([]*model.RiskMapTemplate, error) {
	if t.path == "" {
		return nil, nil
	}
	return LoadTemplates(t.path)
}
