package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ro/public/soc/", r.URL.Path)
		io.WriteString(w, `<select id="optSelectTerm"><option value="24W">Winter 2024</option><option value="24S">Spring 2024</option></select>`)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scrape:\n  base_url: "+server.URL+"\n"), 0644))

	cmd := newCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", path})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "24W\tWinter 2024\n24S\tSpring 2024\n", out.String())
}
