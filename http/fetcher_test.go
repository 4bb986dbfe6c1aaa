package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/docwatch"
	dochttp "github.com/fwojciec/docwatch/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns markup on 200", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body><a href=\"/statute.pdf\">Statute</a></body></html>"))
		}))
		defer srv.Close()

		f := dochttp.NewFetcher()
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Contains(t, result.HTML, "statute.pdf")
	})

	t.Run("reports non-2xx as http_status failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		f := dochttp.NewFetcher()
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, docwatch.ReasonHTTPStatus, result.FailureReason)
		assert.Equal(t, http.StatusNotFound, result.StatusCode)
	})

	t.Run("reports connection failure as network_error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening anymore

		f := dochttp.NewFetcher()
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, docwatch.ReasonNetworkError, result.FailureReason)
	})

	t.Run("reports slow server as timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		f := dochttp.NewFetcher(dochttp.WithTimeout(20 * time.Millisecond))
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, docwatch.ReasonTimeout, result.FailureReason)
	})

	t.Run("returns error on invalid URL", func(t *testing.T) {
		t.Parallel()

		f := dochttp.NewFetcher()
		defer f.Close()

		_, err := f.Fetch(context.Background(), "://not-a-url")
		require.Error(t, err)
		assert.Equal(t, docwatch.EINVALID, docwatch.ErrorCode(err))
	})

	t.Run("returns error on canceled context", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer srv.Close()

		f := dochttp.NewFetcher()
		defer f.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.Fetch(ctx, srv.URL)
		require.Error(t, err)
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		t.Parallel()

		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		f := dochttp.NewFetcher(dochttp.WithUserAgent("docwatch/1.0"))
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "docwatch/1.0", got)
	})
}
