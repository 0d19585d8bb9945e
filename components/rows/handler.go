package rows

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions serves GET <RoutePath><resource>/<RowSegment> as a JSON
// array of rows in ascending id order. Without a Source the embedded
// fixtures are served.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		resource, ok := resourceFromPath(r.URL.Path, opts)
		if !ok {
			http.NotFound(w, r)
			return
		}

		src := opts.Source
		if src == nil {
			data, err := DefaultRows()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			src = NewMemorySource(data)
		}

		rows, err := src.Rows(r.Context(), resource)
		if err != nil {
			if errors.Is(err, ErrUnknownResource) {
				http.NotFound(w, r)
				return
			}
			code := http.StatusInternalServerError
			var httpErr HTTPError
			if errors.As(err, &httpErr) && httpErr != nil {
				code = httpErr.StatusCode()
			}
			http.Error(w, http.StatusText(code), code)
			return
		}
		if rows == nil {
			rows = []Row{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(rows)
	})
}

func resourceFromPath(path string, opts Options) (string, bool) {
	prefix := "/" + strings.Trim(opts.RoutePath, "/") + "/"
	if prefix == "//" {
		prefix = "/"
	}
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return "", false
	}
	rest = strings.TrimSuffix(rest, "/")
	resource, segment, ok := strings.Cut(rest, "/")
	if !ok || resource == "" || segment != opts.RowSegment {
		return "", false
	}
	return resource, true
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
