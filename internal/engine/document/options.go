package document

import "github.com/rs/zerolog"

// Option configures a Model during creation.
type Option func(*Model)

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) {
		m.logger = logger.With().Str("component", "document").Logger()
	}
}

// WithValidation validates every parsed tree before it is used.
func WithValidation(enabled bool) Option {
	return func(m *Model) {
		m.validate = enabled
	}
}
