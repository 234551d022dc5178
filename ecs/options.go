package ecs

import "go.uber.org/zap"

type config struct {
	logger *zap.Logger
}

// Option configures a Manager, World or Scheduler.
type Option func(*config)

// WithLogger routes diagnostic events to the given logger. The default
// discards them.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) config {
	c := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
