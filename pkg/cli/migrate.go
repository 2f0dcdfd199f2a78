package cli

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/cli/config"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the index migration plan without applying it",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the composite Firestore indexes sirico queries need",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := repoCfg.RequireFirestore(); err != nil {
				return err
			}
			logging.Default().Info("Migrating Firestore indexes", "repository", &repoCfg, "dry_run", dryRun)

			databaseID := repoCfg.DatabaseID()
			if databaseID == "" {
				databaseID = firestore.DefaultDatabaseID
			}

			indexes := getIndexConfig(repoCfg.CollectionName)
			client, err := fireconf.New(ctx, repoCfg.ProjectID(), databaseID, indexes,
				fireconf.WithLogger(logging.Default()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logging.Default().Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				return previewMigration(ctx, client, indexes)
			}

			if err := client.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to apply index migration")
			}
			printer.Success("indexes of %d collections are up to date", len(indexes.Collections))
			return nil
		},
	}
}

// previewMigration prints the index changes Migrate would make
func previewMigration(ctx context.Context, client *fireconf.Client, indexes *fireconf.Config) error {
	names := make([]string, 0, len(indexes.Collections))
	for _, c := range indexes.Collections {
		names = append(names, c.Name)
	}

	current, err := client.Import(ctx, names...)
	if err != nil {
		return goerr.Wrap(err, "failed to import current indexes")
	}
	diff, err := client.DiffConfigs(current)
	if err != nil {
		return goerr.Wrap(err, "failed to diff indexes")
	}

	if len(diff.Collections) == 0 {
		printer.Success("no index changes required")
		return nil
	}
	for _, c := range diff.Collections {
		for _, idx := range c.IndexesToAdd {
			printer.Info("%s: create index %s", c.Name, indexFieldsString(idx))
		}
		for _, idx := range c.IndexesToDelete {
			printer.Warn("%s: delete index %s (destructive)", c.Name, indexFieldsString(idx))
		}
	}
	return nil
}

func indexFieldsString(idx fireconf.Index) string {
	parts := make([]string, 0, len(idx.Fields))
	for _, f := range idx.Fields {
		parts = append(parts, f.Path+" "+string(f.Order))
	}
	return strings.Join(parts, ", ")
}

func ascending(path string) fireconf.IndexField {
	return fireconf.IndexField{Path: path, Order: fireconf.OrderAscending}
}

// getIndexConfig lists the composite indexes behind every ordered or
// multi-field repository query. collection maps a base name to the stored one.
func getIndexConfig(collection func(string) string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				// entries of an assessment in sequence order
				Name: collection("risk_entries"),
				Indexes: []fireconf.Index{
					{Fields: []fireconf.IndexField{ascending("assessment_id"), ascending("sequence")}},
				},
			},
			{
				// newest narrative first
				Name: collection("narratives"),
				Indexes: []fireconf.Index{
					{Fields: []fireconf.IndexField{
						ascending("assessment_id"),
						{Path: "created_at", Order: fireconf.OrderDescending},
					}},
				},
			},
			{
				Name: collection("templates"),
				Indexes: []fireconf.Index{
					{Fields: []fireconf.IndexField{ascending("is_default"), ascending("owner_id")}},
					{Fields: []fireconf.IndexField{ascending("is_default"), ascending("name")}},
				},
			},
		},
	}
}
