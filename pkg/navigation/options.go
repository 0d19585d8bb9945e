package navigation

import (
	"slices"

	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/internal/transport"
	"github.com/goliatone/go-craftadmin/pkg/render"
)

// DefaultPageSize is used when the page-size control offers nothing valid.
const DefaultPageSize = 10

// Options configures a Controller.
type Options struct {
	PageSizeID   string
	PageSelectID string
	FirstID      string
	PreviousID   string
	NextID       string
	LastID       string

	// Resource overrides the name derived from the page URL.
	Resource string
	// BaseURL overrides the API origin derived from the page URL.
	BaseURL string
	Fetcher RowFetcher
	// Transport is forwarded to the default HTTP fetcher.
	Transport []transport.Option

	PageSizes       []int
	DefaultPageSize int

	// Sanitize, when set, is applied to every row before it is rendered.
	Sanitize func(string) string

	Classes render.Classes
	Logger  *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the ids used by the admin table pages.
func DefaultOptions() Options {
	return Options{
		PageSizeID:      "pageSize",
		PageSelectID:    "pageSelect",
		FirstID:         "first",
		PreviousID:      "previous",
		NextID:          "next",
		LastID:          "last",
		PageSizes:       []int{5, 10},
		DefaultPageSize: DefaultPageSize,
		Classes:         render.DefaultClasses(),
		Logger:          zap.NewNop(),
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
	opts.PageSizes = slices.DeleteFunc(opts.PageSizes, func(n int) bool { return n <= 0 })
	if len(opts.PageSizes) == 0 {
		opts.PageSizes = []int{5, 10}
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Classes = opts.Classes.Normalize()
	return opts
}

// WithFetcher replaces the HTTP row fetcher.
func WithFetcher(fetcher RowFetcher) Option {
	return func(o *Options) { o.Fetcher = fetcher }
}

// WithResource fixes the resource name instead of reading it from the URL.
func WithResource(resource string) Option {
	return func(o *Options) { o.Resource = resource }
}

// WithBaseURL sets the row API origin.
func WithBaseURL(base string) Option {
	return func(o *Options) { o.BaseURL = base }
}

// WithTransport forwards options to the default HTTP fetcher.
func WithTransport(opts ...transport.Option) Option {
	return func(o *Options) { o.Transport = append(o.Transport, opts...) }
}

// WithPageSizes sets the accepted page sizes. Non-positive sizes are
// dropped.
func WithPageSizes(sizes ...int) Option {
	return func(o *Options) { o.PageSizes = append([]int(nil), sizes...) }
}

// WithDefaultPageSize sets the initial page size.
func WithDefaultPageSize(size int) Option {
	return func(o *Options) { o.DefaultPageSize = size }
}

// WithRowSanitizer cleans row markup with render.SanitizeRow.
func WithRowSanitizer() Option {
	return func(o *Options) { o.Sanitize = render.SanitizeRow }
}

// WithSanitizer installs a custom row sanitiser.
func WithSanitizer(fn func(string) string) Option {
	return func(o *Options) { o.Sanitize = fn }
}

// WithControlIDs overrides the ids of the page-size and page-select
// controls.
func WithControlIDs(pageSize, pageSelect string) Option {
	return func(o *Options) {
		o.PageSizeID = pageSize
		o.PageSelectID = pageSelect
	}
}

// WithButtonIDs overrides the navigation button ids.
func WithButtonIDs(first, previous, next, last string) Option {
	return func(o *Options) {
		o.FirstID = first
		o.PreviousID = previous
		o.NextID = next
		o.LastID = last
	}
}

func WithClasses(classes render.Classes) Option {
	return func(o *Options) { o.Classes = classes }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
