package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracerName is the instrumentation scope used when no tracer is supplied.
const TracerName = "github.com/goliatone/go-craftadmin/internal/transport"

// ErrEmptyBaseURL is returned when a client is built without a base URL.
var ErrEmptyBaseURL = errors.New("transport: base url is required")

// StatusError carries the HTTP status of a failed remote call.
type StatusError struct {
	Code   int
	Method string
	URL    string
	Err    error
}

func (e StatusError) Error() string {
	status := http.StatusText(e.StatusCode())
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %d %s: %v", e.Method, e.URL, e.StatusCode(), status, e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode(), status)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Options configures New.
type Options struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration
	// NoCache sends Cache-Control/Pragma headers that bypass caches.
	NoCache    bool
	UserAgent  string
	Tracer     trace.Tracer
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Option mutates Options.
type Option func(*Options)

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.Timeout = timeout }
}

func WithNoCache() Option {
	return func(o *Options) { o.NoCache = true }
}

func WithUserAgent(agent string) Option {
	return func(o *Options) { o.UserAgent = agent }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Options) { o.Tracer = tracer }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithHTTPClient swaps the underlying *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) { o.HTTPClient = client }
}

// New builds an instrumented resty client rooted at baseURL.
func New(baseURL string, opts ...Option) (*resty.Client, error) {
	o := Options{BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(TracerName)
	}

	var client *resty.Client
	if o.HTTPClient != nil {
		client = resty.NewWithClient(o.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(o.BaseURL)
	client.SetHeader("Accept", "application/json")
	if o.UserAgent != "" {
		client.SetHeader("User-Agent", o.UserAgent)
	}
	if o.NoCache {
		client.SetHeader("Cache-Control", "no-cache")
		client.SetHeader("Pragma", "no-cache")
	}
	if o.Timeout > 0 {
		client.SetTimeout(o.Timeout)
	}

	Instrument(client, o.Tracer, o.Logger)
	return client, nil
}

// Instrument wraps every request in a span and logs completions at debug
// level.
func Instrument(client *resty.Client, tracer trace.Tracer, logger *zap.Logger) {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx, _ := tracer.Start(req.Context(), "http "+req.Method,
			trace.WithSpanKind(trace.SpanKindClient),
		)
		req.SetContext(ctx)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		span := trace.SpanFromContext(res.Request.Context())
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", res.Request.Method),
			attribute.String("http.url", res.Request.URL),
			attribute.Int("http.status_code", res.StatusCode()),
		)
		if res.IsError() {
			span.SetStatus(codes.Error, res.Status())
		}

		logger.Debug("request completed",
			zap.String("method", res.Request.Method),
			zap.String("url", res.Request.URL),
			zap.Int("status", res.StatusCode()),
			zap.Duration("elapsed", res.Time()),
		)
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		span := trace.SpanFromContext(req.Context())
		defer span.End()

		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")

		logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.Error(err),
		)
	})
}

// Check turns a transport error or a non-2xx response into an error.
func Check(res *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if res == nil {
		return errors.New("transport: no response")
	}
	if res.IsError() || res.StatusCode() < 200 || res.StatusCode() > 299 {
		return StatusError{
			Code:   res.StatusCode(),
			Method: res.Request.Method,
			URL:    res.Request.URL,
		}
	}
	return nil
}
