package navigation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/render"
)

var (
	ErrNilPage             = errors.New("navigation: page is required")
	ErrNoTable             = errors.New("navigation: table element is required")
	ErrNoResource          = errors.New("navigation: resource name could not be derived from the page url")
	ErrUnsupportedPageSize = errors.New("navigation: unsupported page size")
	ErrNotReady            = errors.New("navigation: rows are not loaded")
	ErrPageOutOfRange      = errors.New("navigation: page index out of range")
	ErrUnknownButton       = errors.New("navigation: unknown button")
)

// State is the controller's lifecycle position.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Controller pages a table's rows. All methods are safe for concurrent use;
// the page itself must not be mutated elsewhere while a method runs.
type Controller struct {
	mu sync.Mutex

	table      *goquery.Selection
	body       *goquery.Selection
	pageSize   *goquery.Selection
	pageSelect *goquery.Selection
	buttons    map[string]*goquery.Selection

	resource string
	fetcher  RowFetcher
	opts     Options
	sizes    []int

	state       State
	err         error
	size        int
	collections []Collection
	current     int
}

// New binds a controller to table inside page. Navigation buttons are
// hidden until rows arrive; call Load to fetch them.
func New(page *dom.Page, table *goquery.Selection, options ...Option) (*Controller, error) {
	if page == nil || page.Document() == nil {
		return nil, ErrNilPage
	}
	if table == nil || table.Length() == 0 {
		return nil, ErrNoTable
	}
	opts := NewOptions(options...)

	resource := strings.Trim(strings.TrimSpace(opts.Resource), "/")
	if resource == "" {
		resource = page.LastPathSegment()
	}
	if resource == "" {
		return nil, ErrNoResource
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		base := opts.BaseURL
		if base == "" {
			base = page.Origin()
		}
		httpFetcher, err := NewHTTPFetcher(base, opts.Transport...)
		if err != nil {
			return nil, err
		}
		fetcher = httpFetcher
	}

	body := table.ChildrenFiltered("tbody").First()
	if body.Length() == 0 {
		table.AppendHtml("<tbody></tbody>")
		body = table.ChildrenFiltered("tbody").First()
	}

	c := &Controller{
		table:      table,
		body:       body,
		pageSize:   page.ByID(opts.PageSizeID),
		pageSelect: page.ByID(opts.PageSelectID),
		buttons: map[string]*goquery.Selection{
			opts.FirstID:    page.ByID(opts.FirstID),
			opts.PreviousID: page.ByID(opts.PreviousID),
			opts.NextID:     page.ByID(opts.NextID),
			opts.LastID:     page.ByID(opts.LastID),
		},
		resource: resource,
		fetcher:  fetcher,
		opts:     opts,
		state:    StateLoading,
	}

	c.sizes = c.acceptedSizes()
	c.size = opts.DefaultPageSize
	if !slices.Contains(c.sizes, c.size) {
		c.size = c.sizes[0]
	}
	dom.SelectOption(c.pageSize, strconv.Itoa(c.size))
	c.applyVisibility(Visibility{})

	return c, nil
}

// acceptedSizes reads the numeric options of the page-size control,
// falling back to the configured sizes.
func (c *Controller) acceptedSizes() []int {
	var sizes []int
	c.pageSize.Find("option").Each(func(_ int, opt *goquery.Selection) {
		raw := opt.AttrOr("value", strings.TrimSpace(opt.Text()))
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n <= 0 || !slices.Contains(c.opts.PageSizes, n) {
			return
		}
		if !slices.Contains(sizes, n) {
			sizes = append(sizes, n)
		}
	})
	if len(sizes) == 0 {
		return append([]int(nil), c.opts.PageSizes...)
	}
	return sizes
}

// Load fetches the rows once and renders the first page. A failed fetch
// leaves the table body empty, hides navigation and moves the controller
// to StateFailed; Load may then be called again.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateReady {
		c.mu.Unlock()
		return nil
	}
	c.state = StateLoading
	c.err = nil
	c.mu.Unlock()

	rows, err := c.fetcher.FetchRows(ctx, c.resource)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateFailed
		c.err = fmt.Errorf("navigation: fetch %s rows: %w", c.resource, err)
		c.collections = nil
		c.current = 0
		c.body.SetHtml("")
		c.pageSelect.SetHtml("")
		c.applyVisibility(Visibility{})
		c.opts.Logger.Warn("row fetch failed",
			zap.String("resource", c.resource),
			zap.Error(err),
		)
		return c.err
	}

	if err := c.repartition(rows); err != nil {
		return err
	}
	c.state = StateReady
	c.opts.Logger.Info("rows loaded",
		zap.String("resource", c.resource),
		zap.Int("rows", len(rows)),
		zap.Int("pages", len(c.collections)),
		zap.Int("page_size", c.size),
	)
	return nil
}

// ChangePageSize repartitions the rows already held in memory and returns
// to the first page. Nothing is fetched. Before rows arrive the size is
// only recorded.
func (c *Controller) ChangePageSize(size int) error {
	if !slices.Contains(c.sizes, size) {
		return fmt.Errorf("%w: %d", ErrUnsupportedPageSize, size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.size = size
	dom.SelectOption(c.pageSize, strconv.Itoa(size))
	if c.state != StateReady {
		return nil
	}
	return c.repartition(Flatten(c.collections))
}

// PageSizeChanged handles a change event on the page-size control.
func (c *Controller) PageSizeChanged() error {
	raw := strings.TrimSpace(dom.Value(c.pageSize))
	size, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedPageSize, raw)
	}
	return c.ChangePageSize(size)
}

// PageSelected handles a change event on the page-select control.
func (c *Controller) PageSelected() error {
	raw := strings.TrimSpace(dom.Value(c.pageSelect))
	index, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrPageOutOfRange, raw)
	}
	return c.JumpToPage(index)
}

// Click handles a click on the navigation button with the given id.
func (c *Controller) Click(id string) error {
	switch id {
	case c.opts.FirstID:
		return c.First()
	case c.opts.PreviousID:
		return c.Previous()
	case c.opts.NextID:
		return c.Next()
	case c.opts.LastID:
		return c.Last()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownButton, id)
	}
}

func (c *Controller) First() error {
	return c.move(func(int, int) int { return 0 })
}

func (c *Controller) Previous() error {
	return c.move(func(current, _ int) int { return max(current-1, 0) })
}

func (c *Controller) Next() error {
	return c.move(func(current, count int) int { return min(current+1, count-1) })
}

func (c *Controller) Last() error {
	return c.move(func(_, count int) int { return count - 1 })
}

// JumpToPage shows the page at the 0-based index.
func (c *Controller) JumpToPage(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotReady
	}
	if index < 0 || index >= len(c.collections) {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, index, len(c.collections))
	}
	c.show(index)
	return nil
}

func (c *Controller) move(target func(current, count int) int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotReady
	}
	c.show(target(c.current, len(c.collections)))
	return nil
}

func (c *Controller) repartition(rows []Entity) error {
	collections, err := Partition(rows, c.size)
	if err != nil {
		return err
	}
	c.collections = collections
	c.rebuildPageSelect()
	c.show(0)
	return nil
}

func (c *Controller) show(index int) {
	c.current = index
	dom.SelectOption(c.pageSelect, strconv.Itoa(index))
	c.renderRows()
	c.applyVisibility(VisibilityAt(index, len(c.collections)))
}

func (c *Controller) renderRows() {
	var b strings.Builder
	for _, entity := range c.collections[c.current].entities {
		markup := entity.HTMLString
		if c.opts.Sanitize != nil {
			markup = c.opts.Sanitize(markup)
		}
		b.WriteString(markup)
	}
	c.body.SetHtml(b.String())
}

func (c *Controller) rebuildPageSelect() {
	options := make([]render.Option, 0, len(c.collections))
	for i, collection := range c.collections {
		options = append(options, render.Option{
			Value:    strconv.Itoa(i),
			Label:    collection.Label(),
			Selected: i == 0,
		})
	}
	markup, err := render.SelectOptions(options)
	if err != nil {
		c.opts.Logger.Error("render page select", zap.Error(err))
		return
	}
	c.pageSelect.SetHtml(markup)
}

func (c *Controller) applyVisibility(v Visibility) {
	invisible := c.opts.Classes.Invisible
	dom.SetClass(c.buttons[c.opts.FirstID], invisible, !v.First)
	dom.SetClass(c.buttons[c.opts.PreviousID], invisible, !v.Previous)
	dom.SetClass(c.buttons[c.opts.NextID], invisible, !v.Next)
	dom.SetClass(c.buttons[c.opts.LastID], invisible, !v.Last)
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the last fetch error, if the controller is in StateFailed.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Resource returns the row resource name.
func (c *Controller) Resource() string { return c.resource }

// PageSizes returns the accepted page sizes.
func (c *Controller) PageSizes() []int { return append([]int(nil), c.sizes...) }

// PageSize returns the current page size.
func (c *Controller) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// PageCount returns the number of collections.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.collections)
}

// CurrentIndex returns the 0-based index of the page shown.
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CurrentRows returns the rows of the page shown.
func (c *Controller) CurrentRows() []Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current >= len(c.collections) {
		return nil
	}
	return c.collections[c.current].Entities()
}

// Collections returns every page.
func (c *Controller) Collections() []Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Collection(nil), c.collections...)
}

// Visibility returns the button policy for the current page.
func (c *Controller) Visibility() Visibility {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return Visibility{}
	}
	return VisibilityAt(c.current, len(c.collections))
}

// Labels returns the page-select labels in order.
func (c *Controller) Labels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.collections))
	for _, collection := range c.collections {
		out = append(out, collection.Label())
	}
	return out
}
