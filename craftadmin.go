package craftadmin

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/form"
	"github.com/goliatone/go-craftadmin/pkg/navigation"
	"github.com/goliatone/go-craftadmin/pkg/pipeline"
	"github.com/goliatone/go-craftadmin/pkg/render"
	"github.com/goliatone/go-craftadmin/pkg/validator"
)

// DefaultTableSelector locates the paged entity table.
const DefaultTableSelector = "table#entities"

// Entity aliases navigation.Entity for callers wiring their own fetchers.
type Entity = navigation.Entity

// Step aliases pipeline.Step.
type Step = pipeline.Step

// Page is one admin page with its components bound. Navigation is nil when
// the page has no entity table; Updater is nil unless a scraper client was
// supplied.
type Page struct {
	DOM        *dom.Page
	Validator  *validator.Validator
	Navigation *navigation.Controller
	Updater    *pipeline.Runner
}

// Options configures NewPage.
type Options struct {
	TableSelector string
	SkipLoad      bool
	Classes       *render.Classes
	Logger        *zap.Logger

	Validator  []validator.Option
	Navigation []navigation.Option

	Scraper  pipeline.Client
	Pipeline []pipeline.Option
}

// Option mutates Options.
type Option func(*Options)

// WithTableSelector changes the selector of the paged table.
func WithTableSelector(selector string) Option {
	return func(o *Options) { o.TableSelector = selector }
}

// WithoutLoad binds the navigation controller without fetching rows.
func WithoutLoad() Option {
	return func(o *Options) { o.SkipLoad = true }
}

// WithClasses sets the presentation classes used by every component.
func WithClasses(classes render.Classes) Option {
	return func(o *Options) {
		normalized := classes.Normalize()
		o.Classes = &normalized
	}
}

// WithTheme resolves presentation classes from a go-theme manifest.
func WithTheme(manifest *theme.Manifest) Option {
	return WithClasses(render.ClassesFromManifest(manifest))
}

// WithLogger shares logger with every component.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithValidatorOptions(opts ...validator.Option) Option {
	return func(o *Options) { o.Validator = append(o.Validator, opts...) }
}

func WithNavigationOptions(opts ...navigation.Option) Option {
	return func(o *Options) { o.Navigation = append(o.Navigation, opts...) }
}

// WithUpdater attaches an update pipeline driven by client.
func WithUpdater(client pipeline.Client, opts ...pipeline.Option) Option {
	return func(o *Options) {
		o.Scraper = client
		o.Pipeline = append(o.Pipeline, opts...)
	}
}

// NewPage constructs the Validator facade, the Navigation controller and,
// when configured, the update pipeline for page. Rows are loaded unless
// WithoutLoad is given; a failed row fetch is logged and leaves the
// controller in navigation.StateFailed rather than failing construction.
func NewPage(ctx context.Context, page *dom.Page, options ...Option) (*Page, error) {
	if page == nil {
		return nil, errors.New("craftadmin: page is required")
	}
	opts := Options{TableSelector: DefaultTableSelector}
	for _, fn := range options {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	validatorOpts := []validator.Option{validator.WithLogger(opts.Logger)}
	navigationOpts := []navigation.Option{navigation.WithLogger(opts.Logger)}
	pipelineOpts := []pipeline.Option{pipeline.WithLogger(opts.Logger), pipeline.WithPage(page, "", "")}
	if opts.Classes != nil {
		validatorOpts = append(validatorOpts, validator.WithFormOptions(form.WithClasses(*opts.Classes)))
		navigationOpts = append(navigationOpts, navigation.WithClasses(*opts.Classes))
		pipelineOpts = append(pipelineOpts, pipeline.WithClasses(*opts.Classes))
	}

	v, err := validator.New(page, append(validatorOpts, opts.Validator...)...)
	if err != nil {
		return nil, fmt.Errorf("craftadmin: %w", err)
	}
	out := &Page{DOM: page, Validator: v}

	if table := page.Find(opts.TableSelector).First(); table.Length() > 0 {
		nav, err := navigation.New(page, table, append(navigationOpts, opts.Navigation...)...)
		if err != nil {
			return nil, fmt.Errorf("craftadmin: %w", err)
		}
		out.Navigation = nav
		if !opts.SkipLoad {
			if err := nav.Load(ctx); err != nil {
				opts.Logger.Warn("table rows unavailable", zap.Error(err))
			}
		}
	}

	if opts.Scraper != nil {
		runner, err := pipeline.New(opts.Scraper, append(pipelineOpts, opts.Pipeline...)...)
		if err != nil {
			return nil, fmt.Errorf("craftadmin: %w", err)
		}
		out.Updater = runner
	}

	return out, nil
}
