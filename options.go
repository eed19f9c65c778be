package alicedeps

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/alicedeps/pkg/errors"
)

// Option is a function that configures a Client.
type Option func(*config) error

// config holds the client settings.
type config struct {
	preview bool
	logger  *zerolog.Logger
}

func defaultConfig() *config {
	return &config{}
}

// WithPreview configures whether patches are only computed. In preview
// mode the change log is returned and no descriptor is written.
func WithPreview(preview bool) Option {
	return func(c *config) error {
		c.preview = preview
		return nil
	}
}

// WithLogger configures the logger used for every run. Without it the
// logger carried by the context, or the default logger, is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "must not be nil")
		}
		c.logger = logger
		return nil
	}
}
