package pipeline

import (
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/render"
)

const tracerName = "github.com/goliatone/go-craftadmin/pkg/pipeline"

// Trigger and restart labels written to the page.
const (
	LabelInProgress = "Updating..."
	LabelRestart    = "Restart update"
	LabelRestartRun = "Restart"
)

// Options configures a Runner.
type Options struct {
	Steps []Step

	// Page, when set, receives progress items and trigger updates.
	Page              *dom.Page
	ContainerSelector string
	TriggerSelector   string
	Classes           render.Classes

	Logger  *zap.Logger
	Metrics *Metrics
	Tracer  trace.Tracer
	// Yield runs between steps.
	Yield func()
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the runner defaults.
func DefaultOptions() Options {
	return Options{
		Steps:             DefaultSteps(),
		ContainerSelector: "#update-progress",
		TriggerSelector:   "#update",
		Classes:           render.DefaultClasses(),
		Logger:            zap.NewNop(),
		Yield:             runtime.Gosched,
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
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Yield == nil {
		opts.Yield = func() {}
	}
	opts.Classes = opts.Classes.Normalize()
	return opts
}

func WithSteps(steps []Step) Option {
	return func(o *Options) { o.Steps = append([]Step(nil), steps...) }
}

// WithPage renders progress into the element matched by container and
// toggles the element matched by trigger.
func WithPage(page *dom.Page, container, trigger string) Option {
	return func(o *Options) {
		o.Page = page
		if container != "" {
			o.ContainerSelector = container
		}
		if trigger != "" {
			o.TriggerSelector = trigger
		}
	}
}

func WithClasses(classes render.Classes) Option {
	return func(o *Options) { o.Classes = classes }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithMetrics(metrics *Metrics) Option {
	return func(o *Options) { o.Metrics = metrics }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Options) { o.Tracer = tracer }
}

func WithYield(fn func()) Option {
	return func(o *Options) { o.Yield = fn }
}
