package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/cli/config"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var repoCfg config.Repository
	var templateCfg config.Templates

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, templateCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Create or update the system default templates",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			templates, err := templateCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load template file")
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

			uc := usecase.New(repo, usecase.WithTemplates(templates))
			result, err := uc.Bootstrap(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to seed templates")
			}

			for _, name := range result.Created {
				printer.Success("created  %s", name)
			}
			for _, name := range result.Updated {
				printer.Warn("updated  %s", name)
			}
			for _, name := range result.Unchanged {
				printer.Info("unchanged %s", name)
			}
			return nil
		},
	}
}
