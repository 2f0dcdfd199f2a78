package config

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds configuration for error reporting
type Sentry struct {
	DSN         string `masq:"secret"`
	Environment string
}

func (s *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN. Server errors are reported when set",
			Category:    "Error reporting",
			Sources:     cli.EnvVars("SIRICO_SENTRY_DSN"),
			Destination: &s.DSN,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Category:    "Error reporting",
			Value:       "production",
			Sources:     cli.EnvVars("SIRICO_SENTRY_ENV"),
			Destination: &s.Environment,
		},
	}
}

// Enabled reports whether a DSN is configured
func (s *Sentry) Enabled() bool {
	return s.DSN != ""
}

// LogAttrs returns log attributes for the Sentry configuration. The DSN is
// never logged.
func (s *Sentry) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("enabled", s.Enabled()),
		slog.String("environment", s.Environment),
	}
}

// Configure initializes the global Sentry client. The returned function
// flushes buffered events and must be called before exit.
func (s *Sentry) Configure(release string) (func(), error) {
	if !s.Enabled() {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              s.DSN,
		Environment:      s.Environment,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry", goerr.V("environment", s.Environment))
	}

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
