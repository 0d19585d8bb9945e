package navigation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/goliatone/go-craftadmin/internal/transport"
)

// RowPath is the row API route relative to the API origin.
const RowPath = "/api/{resource}/row"

// RowFetcher loads every row of a resource.
type RowFetcher interface {
	FetchRows(ctx context.Context, resource string) ([]Entity, error)
}

// RowFetcherFunc adapts a function to RowFetcher.
type RowFetcherFunc func(ctx context.Context, resource string) ([]Entity, error)

func (fn RowFetcherFunc) FetchRows(ctx context.Context, resource string) ([]Entity, error) {
	return fn(ctx, resource)
}

// HTTPFetcher reads rows from GET <base>/api/<resource>/row.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher builds a fetcher rooted at baseURL.
func NewHTTPFetcher(baseURL string, opts ...transport.Option) (*HTTPFetcher, error) {
	client, err := transport.New(baseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("navigation: %w", err)
	}
	return &HTTPFetcher{client: client}, nil
}

// FetchRows implements RowFetcher.
func (f *HTTPFetcher) FetchRows(ctx context.Context, resource string) ([]Entity, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetPathParam("resource", resource).
		Get(RowPath)
	if err := transport.Check(res, err); err != nil {
		return nil, err
	}

	var rows []Entity
	if err := json.Unmarshal(res.Body(), &rows); err != nil {
		return nil, fmt.Errorf("navigation: decode %s rows: %w", resource, err)
	}
	return rows, nil
}
