package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_RunEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<h2>Stadgar</h2>
			<ul><li><a href="/files/stadgar.pdf">Stadgar</a></li></ul>
			<h2>Regler</h2>
			<ul><li><a href="/files/regelbok.pdf">Regelbok v2.1</a> (2024-03-01)</li></ul>
		</body></html>`))
	}))
	t.Cleanup(srv.Close)

	m := newTestMain(t)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(ctx, []string{"run", "--source", srv.URL + "/dokument"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "success: 2 created, 0 updated, 0 unchanged")

	stdout = &bytes.Buffer{}
	err = m.Run(ctx, []string{"docs"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "Stadgar")
	assert.Contains(t, output, "Regelbok v2.1")
	assert.Contains(t, output, "2 documents")

	stdout = &bytes.Buffer{}
	err = m.Run(ctx, []string{"status"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Tracked documents: 2")

	// A repeat run changes nothing.
	stdout = &bytes.Buffer{}
	err = m.Run(ctx, []string{"run", "--source", srv.URL + "/dokument"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "success: 0 created, 0 updated, 2 unchanged")
}

func TestMain_RunFiltersDocsByType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<h2>Stadgar</h2>
			<ul><li><a href="/files/stadgar.pdf">Stadgar</a></li></ul>
			<h2>Blanketter</h2>
			<ul><li><a href="/files/ansokan.pdf">Ansökan</a></li></ul>
		</body></html>`))
	}))
	t.Cleanup(srv.Close)

	m := newTestMain(t)

	err := m.Run(ctx, []string{"run", "--source", srv.URL + "/dokument"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	stdout := &bytes.Buffer{}
	err = m.Run(ctx, []string{"docs", "--type", "statute"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Stadgar")
	assert.NotContains(t, stdout.String(), "Ansökan")
	assert.Contains(t, stdout.String(), "1 documents")
}
