package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/cli/config"
	"github.com/secmon-lab/sirico/pkg/domain/model"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var templateCfg config.Templates
	var repoCfg config.Repository
	var checkDB bool

	var flags []cli.Flag
	flags = append(flags, templateCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-db",
		Usage:       "Also look for stored scores and rollups that differ from a recompute",
		Sources:     cli.EnvVars("SIRICO_CHECK_DB"),
		Destination: &checkDB,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate template files and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Step 1: built-in defaults and the optional template file
			templates := model.DefaultTemplates()
			if templateCfg.Path() != "" {
				extra, err := templateCfg.Configure()
				if err != nil {
					reportTemplateError(templateCfg.Path(), err)
					return goerr.Wrap(err, "template validation failed")
				}
				templates = append(templates, extra...)
			}
			for _, tpl := range templates {
				if err := tpl.Validate(); err != nil {
					reportTemplateError(tpl.Name, err)
					return goerr.Wrap(err, "template validation failed", goerr.V("name", tpl.Name))
				}
				printer.Success("%s (%d levels, %d cells)", tpl.Name, len(tpl.Levels), len(tpl.Cells))
			}

			// Step 2: stale score check
			if !checkDB {
				logging.Default().Debug("DB consistency check not requested")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			result, err := uc.ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					target := fmt.Sprintf("entry %d", issue.EntryID)
					if issue.ObjectiveID != 0 {
						target = fmt.Sprintf("objective %d", issue.ObjectiveID)
					}
					printer.Fail("assessment %d, %s: %s is %s, expected %s",
						issue.AssessmentID, target, issue.Field, issue.Actual, issue.Expected)
				}
				printer.Info("run POST /api/assessments/{id}/recompute to fix stale scores")
				return fmt.Errorf("DB consistency check found %d issue(s)", len(result.Issues))
			}

			printer.Success("DB consistency check passed (%d assessments)", result.AssessmentsChecked)
			return nil
		},
	}
}

func reportTemplateError(name string, err error) {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		printer.Fail("%s: %s", name, err.Error())
		return
	}
	for _, v := range verr.Violations {
		printer.Fail("%s: %s", name, v.String())
	}
}
