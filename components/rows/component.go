package rows

import "net/http"

// Component is a configured row API ready to mount on a mux. When no Source
// is configured it serves the embedded fixtures.
type Component struct {
	opts Options
}

// New builds a Component from the default options plus fns.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns the resolved configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return c.opts
}

// Resources lists the resource names the component can answer for. It
// returns nil when the source cannot enumerate its resources.
func (c *Component) Resources() []string {
	src := c.Options().Source
	if src == nil {
		data, err := DefaultRows()
		if err != nil {
			return nil
		}
		src = NewMemorySource(data)
	}
	lister, ok := src.(interface{ Resources() []string })
	if !ok {
		return nil
	}
	return lister.Resources()
}

// Handler serves the component without mounting it.
func (c *Component) Handler() http.Handler {
	return HandlerWithOptions(c.Options())
}

// RegisterRoutes mounts the component under basePath and returns the
// registered pattern.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}
