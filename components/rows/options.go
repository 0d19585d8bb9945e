package rows

import "net/http"

// GuardFunc rejects a request by returning an error. An HTTPError picks the
// response code, anything else answers 403.
type GuardFunc func(r *http.Request) error

// Options configures the row handler.
type Options struct {
	// RoutePath is the prefix the resource segment follows.
	RoutePath string
	// RowSegment is the path segment after the resource name.
	RowSegment string
	// Guard runs before every lookup when set.
	Guard GuardFunc

	// Source resolves rows; nil serves the embedded fixtures.
	Source Source
}

// OptionFn mutates Options during NewOptions.
type OptionFn func(*Options)

// DefaultOptions serves /api/<resource>/row from the embedded fixtures.
func DefaultOptions() Options {
	return Options{
		RoutePath:  "/api/",
		RowSegment: "row",
	}
}

// NewOptions applies fns over DefaultOptions and restores empty path parts.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/"
	}
	if opts.RowSegment == "" {
		opts.RowSegment = "row"
	}
	return opts
}

// WithRoutePath sets the prefix that precedes the resource segment.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithRowSegment sets the segment that follows the resource name.
func WithRowSegment(segment string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RowSegment = segment
	}
}

// WithGuard installs a request guard.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithSource sets the row source.
func WithSource(src Source) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Source = src
	}
}

// WithRows serves data from a MemorySource.
func WithRows(data map[string][]Row) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Source = NewMemorySource(data)
	}
}
