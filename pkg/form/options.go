package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/pkg/render"
)

// Options configures a Form binder.
type Options struct {
	Classes render.Classes
	Logger  *zap.Logger
	// ExplicitPairing lets a control carrying data-confirms claim the
	// confirmation slot of the identifier it names.
	ExplicitPairing bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the binder defaults.
func DefaultOptions() Options {
	return Options{
		Classes:         render.DefaultClasses(),
		Logger:          zap.NewNop(),
		ExplicitPairing: true,
	}
}

// NewOptions applies fns on top of the defaults.
func NewOptions(fns ...Option) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	opts.Classes = opts.Classes.Normalize()
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

// WithClasses overrides the presentation classes.
func WithClasses(classes render.Classes) Option {
	return func(o *Options) {
		o.Classes = classes
	}
}

// WithLogger routes binder diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithPositionalPairingOnly disables data-confirms lookups so confirmation
// controls are always paired by position.
func WithPositionalPairingOnly() Option {
	return func(o *Options) {
		o.ExplicitPairing = false
	}
}
