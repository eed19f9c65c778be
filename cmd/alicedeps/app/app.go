// Package app provides the application context and dependency management
// for the alicedeps CLI. It centralizes configuration, logging, and client
// construction so commands only depend on application.Application.
package app

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/alicedeps"
	"github.com/agentstation/alicedeps/internal/cmd/application"
	"github.com/agentstation/alicedeps/pkg/errors"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the alicedeps application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Command output, defaults to the process stdout/stderr
	out    io.Writer
	errOut io.Writer
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and the default config
// file; the --config flag reloads it once flags are parsed.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Preview reports whether the configuration asks for preview runs.
func (a *App) Preview() bool {
	return a.config.Preview
}

// Client returns a new client using the application logger and
// configured preview mode. opts are applied after those defaults.
func (a *App) Client(opts ...alicedeps.Option) (alicedeps.Client, error) {
	base := []alicedeps.Option{
		alicedeps.WithLogger(a.logger),
		alicedeps.WithPreview(a.config.Preview),
	}
	client, err := alicedeps.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	return client, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput redirects command output, useful for testing.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) error {
		a.out = out
		a.errOut = errOut
		return nil
	}
}
