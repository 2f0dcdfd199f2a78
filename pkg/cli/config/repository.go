package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"github.com/secmon-lab/sirico/pkg/repository/firestore"
	"github.com/secmon-lab/sirico/pkg/repository/memory"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Repository selects and opens the storage backend
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
}

func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (firestore or memory)",
			Value:       BackendFirestore,
			Sources:     cli.EnvVars("SIRICO_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required with the firestore backend)",
			Sources:     cli.EnvVars("SIRICO_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("SIRICO_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for every Firestore collection, for sharing one database between environments",
			Sources:     cli.EnvVars("SIRICO_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
	}
}

func (r *Repository) Backend() string {
	return r.backend
}

func (r *Repository) ProjectID() string {
	return r.projectID
}

func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionName returns the Firestore collection name with the configured prefix applied
func (r *Repository) CollectionName(name string) string {
	if r.collectionPrefix == "" {
		return name
	}
	return r.collectionPrefix + "_" + name
}

func (r *Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("project_id", r.projectID),
		slog.String("database_id", r.databaseID),
		slog.String("collection_prefix", r.collectionPrefix),
	)
}

// RequireFirestore fails unless the firestore backend is selected with a project
func (r *Repository) RequireFirestore() error {
	if r.backend != BackendFirestore {
		return goerr.New("command requires the firestore backend", goerr.V("backend", r.backend))
	}
	if r.projectID == "" {
		return goerr.New("firestore-project-id is required with the firestore backend")
	}
	return nil
}

// Configure opens the selected backend. The caller must Close the repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFirestore:
		if err := r.RequireFirestore(); err != nil {
			return nil, err
		}

		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository", "repository", r)
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository, data is lost on exit")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
