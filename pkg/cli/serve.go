package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/cli/config"
	httpctrl "github.com/secmon-lab/sirico/pkg/controller/http"
	"github.com/secmon-lab/sirico/pkg/service/narrative"
	"github.com/secmon-lab/sirico/pkg/service/worker"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/async"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var enableMetrics bool
	var reconcileInterval time.Duration
	var repoCfg config.Repository
	var templateCfg config.Templates
	var geminiCfg config.Gemini
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SIRICO_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics at /metrics",
			Value:       true,
			Sources:     cli.EnvVars("SIRICO_METRICS"),
			Destination: &enableMetrics,
		},
		&cli.DurationFlag{
			Name:        "reconcile-interval",
			Usage:       "Interval of the background stale score repair (0 disables it)",
			Sources:     cli.EnvVars("SIRICO_RECONCILE_INTERVAL"),
			Destination: &reconcileInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, templateCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

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

			ucOpts := []usecase.Option{
				usecase.WithTemplates(templates),
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini")
			}
			if llmClient != nil {
				svc, err := narrative.New(llmClient, geminiCfg.NarrativeOptions()...)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize narrative service")
				}
				ucOpts = append(ucOpts, usecase.WithNarrativeService(svc))
				logging.Default().Info("Narrative generation enabled", "gemini", geminiCfg.LogAttrs())
			} else {
				logging.Default().Info("Gemini project not configured, narrative generation disabled")
			}

			uc := usecase.New(repo, ucOpts...)
			if _, err := uc.Bootstrap(ctx); err != nil {
				return goerr.Wrap(err, "failed to bootstrap system templates")
			}

			var reconcileWorker *worker.ReconcileWorker
			if reconcileInterval > 0 {
				reconcileWorker = worker.NewReconcileWorker(uc, reconcileInterval)
				if err := reconcileWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start reconcile worker")
				}
			}

			server := &http.Server{
				Addr: addr,
				Handler: httpctrl.New(uc,
					httpctrl.WithSentry(sentryCfg.Enabled()),
					httpctrl.WithMetrics(enableMetrics),
				),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"metrics", enableMetrics,
					"sentry", sentryCfg.LogAttrs(),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop reconcile worker first
				if reconcileWorker != nil {
					reconcileWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				// Let background narrative generation finish storing its reports
				if err := async.Wait(shutdownCtx); err != nil {
					logging.Default().Warn("Background tasks did not finish before shutdown", "error", err.Error())
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
