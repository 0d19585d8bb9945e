package dom

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrNilReader is returned when Parse receives a nil reader.
	ErrNilReader = errors.New("dom: reader is required")
	// ErrNotFound is returned by lookups that require a matching element.
	ErrNotFound = errors.New("dom: element not found")
)

// Page wraps a parsed HTML document together with the URL it was served
// from. Components bind to elements inside the page and mutate it in place;
// a Page is not safe for concurrent mutation.
type Page struct {
	doc *goquery.Document
	url *url.URL
}

// Option configures a Page during parsing.
type Option func(*Page) error

// WithURL records the location the page was loaded from. Components derive
// resource names and API origins from it.
func WithURL(raw string) Option {
	return func(p *Page) error {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil
		}
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return fmt.Errorf("dom: parse page url: %w", err)
		}
		p.url = parsed
		return nil
	}
}

// Parse reads an HTML document from r.
func Parse(r io.Reader, options ...Option) (*Page, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	page := &Page{doc: doc}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(page); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// ParseString is a convenience wrapper around Parse for in-memory markup.
func ParseString(markup string, options ...Option) (*Page, error) {
	return Parse(strings.NewReader(markup), options...)
}

// MustParseString panics if the markup cannot be parsed. Useful for tests.
func MustParseString(markup string, options ...Option) *Page {
	page, err := ParseString(markup, options...)
	if err != nil {
		panic(err)
	}
	return page
}

// Document exposes the underlying goquery document.
func (p *Page) Document() *goquery.Document {
	if p == nil {
		return nil
	}
	return p.doc
}

// URL returns a copy of the page location, or nil when unknown.
func (p *Page) URL() *url.URL {
	if p == nil || p.url == nil {
		return nil
	}
	clone := *p.url
	return &clone
}

// Find runs a CSS selector against the whole document.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// ByID returns the element carrying id, or an empty selection.
func (p *Page) ByID(id string) *goquery.Selection {
	id = strings.TrimSpace(id)
	if id == "" {
		return &goquery.Selection{}
	}
	return p.doc.Find("[id]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		value, _ := sel.Attr("id")
		return value == id
	}).First()
}

// Forms returns every <form> element in document order, one selection each.
func (p *Page) Forms() []*goquery.Selection {
	var forms []*goquery.Selection
	p.doc.Find("form").Each(func(_ int, sel *goquery.Selection) {
		forms = append(forms, sel)
	})
	return forms
}

// Control finds the first form control whose name attribute equals name.
func (p *Page) Control(name string) (*goquery.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty control name", ErrNotFound)
	}
	var match *goquery.Selection
	p.doc.Find("input, select, textarea").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if attr, ok := sel.Attr("name"); ok && attr == name {
			match = sel
			return false
		}
		return true
	})
	if match == nil {
		return nil, fmt.Errorf("%w: control %q", ErrNotFound, name)
	}
	return match, nil
}

// SetValue simulates a user typing into the named control.
func (p *Page) SetValue(name, value string) error {
	control, err := p.Control(name)
	if err != nil {
		return err
	}
	SetValue(control, value)
	return nil
}

// LastPathSegment returns the final non-empty segment of the page URL path.
func (p *Page) LastPathSegment() string {
	if p == nil || p.url == nil {
		return ""
	}
	segments := strings.FieldsFunc(p.url.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// Origin returns scheme://host of the page URL, or "" when unknown.
func (p *Page) Origin() string {
	if p == nil || p.url == nil || p.url.Host == "" {
		return ""
	}
	scheme := p.url.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + p.url.Host
}

// HTML serialises the current state of the document.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}
