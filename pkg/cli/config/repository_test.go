package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/sirico/pkg/cli/config"
	"github.com/secmon-lab/sirico/pkg/repository/memory"
)

func TestRepository_Configure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest("memory", "", "").Configure(t.Context())
		gt.NoError(t, err).Required()
		_, ok := repo.(*memory.Memory)
		gt.Bool(t, ok).True()
	})

	t.Run("firestore requires a project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("firestore", "", "").Configure(t.Context())
		gt.Value(t, err).NotNil()
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("postgres", "", "").Configure(t.Context())
		gt.Value(t, err).NotNil()
	})
}

func TestRepository_CollectionName(t *testing.T) {
	gt.Value(t, config.NewRepositoryForTest("firestore", "p", "").CollectionName("templates")).Equal("templates")
	gt.Value(t, config.NewRepositoryForTest("firestore", "p", "dev").CollectionName("templates")).Equal("dev_templates")
}

func TestRepository_RequireFirestore(t *testing.T) {
	gt.NoError(t, config.NewRepositoryForTest("firestore", "p", "").RequireFirestore())
	gt.Error(t, config.NewRepositoryForTest("memory", "", "").RequireFirestore())
	gt.Error(t, config.NewRepositoryForTest("firestore", "", "").RequireFirestore())
}

func TestSentry_Configure(t *testing.T) {
	cfg := &config.Sentry{}
	gt.Bool(t, cfg.Enabled()).False()

	flush, err := cfg.Configure("test")
	gt.NoError(t, err).Required()
	flush()
}
