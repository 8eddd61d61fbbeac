package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("https://example.com/api/openapi.yaml", NormalizeURL("HTTPS://Example.com:443/api//openapi.yaml#top"))
	assert.Equal("http://example.com/openapi.json", NormalizeURL("http://example.com:80/openapi.json"))
	assert.True(IsURL("https://example.com/a.yaml"))
	assert.False(IsURL("testdata/one_route_int.json"))
}

func TestFetch(t *testing.T) {
	assert := assert.New(t)

	body, err := os.ReadFile("testdata/one_route_date.yaml")
	require.NoError(t, err)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// first attempt fails, the retry succeeds
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(nil, WithRetryWait(time.Millisecond, time.Millisecond))
	doc, err := f.Fetch(context.Background(), srv.URL+"/openapi.yaml")
	require.NoError(t, err)
	assert.Equal("3.1.0", doc.OpenAPI)
	assert.Equal(int32(2), hits.Load())
}

func TestFetchErrors(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.yaml":
			http.NotFound(w, r)
		case "/swagger.yaml":
			w.Write([]byte("swagger: \"2.0\"\n"))
		}
	}))
	defer srv.Close()

	f := NewFetcher(nil, WithMaxRetries(0))

	_, err := f.Fetch(context.Background(), srv.URL+"/missing.yaml")
	assert.ErrorContains(err, "unexpected status 404")

	_, err = f.Fetch(context.Background(), srv.URL+"/swagger.yaml")
	assert.ErrorContains(err, "missing \"openapi\"")
}
