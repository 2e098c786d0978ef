package binding

import (
	"go.uber.org/zap"

	"github.com/eugenenazirov/envbind/pkg/environment"
)

// Option configures Bind and Load.
type Option func(*options)

type options struct {
	validate bool
	prefixes []string
	env      *environment.Snapshot
	logger   *zap.Logger
}

// WithValidation makes binding fail with a ValidationError listing every
// required field that has neither a value nor a default.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validate = enabled
	}
}

// WithPrefixes adds every undeclared variable whose name starts with one of
// prefixes to the result as a raw string.
func WithPrefixes(prefixes ...string) Option {
	return func(o *options) {
		o.prefixes = append(o.prefixes, prefixes...)
	}
}

// WithEnvironment makes Load bind against snap instead of the process
// environment. Bind ignores it.
func WithEnvironment(snap environment.Snapshot) Option {
	return func(o *options) {
		o.env = &snap
	}
}

// WithLogger sets the logger used for bind diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
