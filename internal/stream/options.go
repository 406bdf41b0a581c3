package stream

import "github.com/rs/zerolog"

// Option configures a subject or relay.
type Option func(*config)

type config struct {
	name   string
	logger zerolog.Logger
}

func newConfig(kind string, opts []Option) config {
	c := config{
		name:   kind,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	c.logger = c.logger.With().Str("stream", c.name).Logger()
	return c
}

// WithName labels the stream in log lines and StaleAccessError values.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger injects the logger used for subscription lifecycle traces.
// The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
