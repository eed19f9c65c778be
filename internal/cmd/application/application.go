// Package application provides the application interface for alicedeps
// commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func(opts ...alicedeps.Option) (alicedeps.Client, error) {
//	        return alicedeps.New(opts...)
//	    },
//	}
//	cmd := update.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/alicedeps"
)

// Application provides what commands need from the application.
// All methods must be safe for concurrent access.
type Application interface {
	// Client returns a new client. The application logger and configured
	// preview mode are applied first, so opts override them.
	Client(opts ...alicedeps.Option) (alicedeps.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Preview reports whether the configuration asks for preview runs.
	Preview() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
