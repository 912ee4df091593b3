package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/autowire/alias"
	"github.com/kbukum/autowire/di"
	"github.com/kbukum/autowire/introspect"
	"github.com/kbukum/autowire/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	container       di.Container
	catalog         *introspect.Catalog
	store           alias.Store
	summaryOutput   io.Writer
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, the logger is built from the
// config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration Run and RunTask allow for
// shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithContainer sets the container the app registers into and constructs from.
func WithContainer(c di.Container) Option {
	return func(o *appOptions) {
		o.container = c
	}
}

// WithCatalog sets the catalog of constructible classes.
func WithCatalog(c *introspect.Catalog) Option {
	return func(o *appOptions) {
		o.catalog = c
	}
}

// WithStore overrides the alias store selected by the cache config.
func WithStore(s alias.Store) Option {
	return func(o *appOptions) {
		o.store = s
	}
}

// WithSummaryOutput redirects the startup summary, which goes to stdout by
// default.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOutput = w
	}
}
