package validator

import (
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/form"
	"github.com/goliatone/go-craftadmin/pkg/input"
)

// ErrNilPage is returned by New when no page is supplied.
var ErrNilPage = errors.New("validator: page is required")

// Validator owns the input catalog for one page and a binder for each of
// its forms.
type Validator struct {
	catalog     *input.Catalog
	identifiers []string
	forms       []*form.Form
	logger      *zap.Logger
}

// Options configures the facade.
type Options struct {
	Catalog     *input.Catalog
	Logger      *zap.Logger
	FormOptions []form.Option
}

// Option mutates Options.
type Option func(*Options)

// WithCatalog replaces the default catalog.
func WithCatalog(catalog *input.Catalog) Option {
	return func(o *Options) {
		o.Catalog = catalog
	}
}

// WithLogger sets the logger shared with every form binder.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithFormOptions forwards options to each form binder.
func WithFormOptions(opts ...form.Option) Option {
	return func(o *Options) {
		o.FormOptions = append(o.FormOptions, opts...)
	}
}

// New builds the catalog, derives the identifier list and binds every
// <form> on page.
func New(page *dom.Page, options ...Option) (*Validator, error) {
	if page == nil || page.Document() == nil {
		return nil, ErrNilPage
	}

	var opts Options
	for _, fn := range options {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Catalog == nil {
		opts.Catalog = input.DefaultCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	v := &Validator{
		catalog:     opts.Catalog,
		identifiers: opts.Catalog.Identifiers(),
		logger:      opts.Logger,
	}

	formOpts := append([]form.Option{form.WithLogger(opts.Logger)}, opts.FormOptions...)
	for _, element := range page.Forms() {
		v.forms = append(v.forms, form.Bind(element, v.identifiers, v.catalog, formOpts...))
	}

	v.logger.Debug("validator bound page forms",
		zap.Int("forms", len(v.forms)),
		zap.Strings("identifiers", v.identifiers),
	)
	return v, nil
}

// Catalog returns the shared catalog.
func (v *Validator) Catalog() *input.Catalog { return v.catalog }

// Identifiers returns the identifier list passed to every binder.
func (v *Validator) Identifiers() []string {
	return append([]string(nil), v.identifiers...)
}

// Forms returns the binders in document order.
func (v *Validator) Forms() []*form.Form {
	return append([]*form.Form(nil), v.forms...)
}

// Form returns the binder for the form with the given name attribute.
func (v *Validator) Form(name string) (*form.Form, bool) {
	for _, f := range v.forms {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Diagnostics collects the binding diagnostics of every form.
func (v *Validator) Diagnostics() []form.Diagnostic {
	var out []form.Diagnostic
	for _, f := range v.forms {
		out = append(out, f.Diagnostics()...)
	}
	return out
}
