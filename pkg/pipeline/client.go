package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/goliatone/go-craftadmin/internal/transport"
)

// Client executes one step against the scraper service.
type Client interface {
	Execute(ctx context.Context, step Step) (ElapsedTime, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, step Step) (ElapsedTime, error)

func (fn ClientFunc) Execute(ctx context.Context, step Step) (ElapsedTime, error) {
	return fn(ctx, step)
}

type stepResponse struct {
	ResponseTime *ElapsedTime `json:"response_time"`
}

// HTTPClient issues an uncached GET to <base><step.RelativeLink>.
type HTTPClient struct {
	client *resty.Client
}

// NewHTTPClient builds a scraper client rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...transport.Option) (*HTTPClient, error) {
	opts = append([]transport.Option{transport.WithNoCache()}, opts...)
	client, err := transport.New(baseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &HTTPClient{client: client}, nil
}

// Execute implements Client. Any transport error, non-2xx status or body
// without response_time is a failure.
func (c *HTTPClient) Execute(ctx context.Context, step Step) (ElapsedTime, error) {
	res, err := c.client.R().SetContext(ctx).Get(step.RelativeLink)
	if err := transport.Check(res, err); err != nil {
		return ElapsedTime{}, err
	}

	var body stepResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return ElapsedTime{}, fmt.Errorf("pipeline: decode %s response: %w", step.ID, err)
	}
	if body.ResponseTime == nil {
		return ElapsedTime{}, fmt.Errorf("pipeline: %s response has no response_time", step.ID)
	}
	return *body.ResponseTime, nil
}
