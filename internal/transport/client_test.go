package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-craftadmin/internal/transport"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := transport.New("  ")
	assert.ErrorIs(t, err, transport.ErrEmptyBaseURL)
}

func TestNew_NoCacheHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := transport.New(srv.URL+"/", transport.WithNoCache(), transport.WithUserAgent("craftadmin-test"))
	require.NoError(t, err)

	res, err := client.R().SetContext(context.Background()).Get("/ping")
	require.NoError(t, transport.Check(res, err))

	assert.Equal(t, "no-cache", got.Get("Cache-Control"))
	assert.Equal(t, "no-cache", got.Get("Pragma"))
	assert.Equal(t, "craftadmin-test", got.Get("User-Agent"))
}

func TestCheck_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := transport.New(srv.URL)
	require.NoError(t, err)

	res, err := client.R().SetContext(context.Background()).Get("/vendors")
	err = transport.Check(res, err)

	var statusErr transport.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode())
	assert.Equal(t, http.MethodGet, statusErr.Method)
	assert.Contains(t, err.Error(), "502")
}
