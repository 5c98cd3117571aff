package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := NewResource(thisFile, nil)
	require.NoError(t, err)
	defer res.Close()

	assert.False(t, res.IsRemote())
	assert.Equal(t, "go", res.Ext())
}

func TestMissingLocalResource(t *testing.T) {
	_, err := NewResource(filepath.Join(t.TempDir(), "missing.png"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHttpResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	res, err := NewResource(fetchUrl, nil)
	require.NoError(t, err)
	defer res.Close()
	assert.True(t, res.IsRemote())

	fetchUrl = server.URL + "/file-not-found.png"
	expError := fmt.Sprintf("resource: could not fetch '%s': status %d", fetchUrl, 404)
	_, err = NewResource(fetchUrl, nil)
	require.Error(t, err)
	assert.Equal(t, expError, err.Error())
}

func TestRelativeHttpResources(t *testing.T) {
	serverHits := 0
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		switch r.URL.Path {
		case "/presets/full.toml", "/presets/stars.png":
			w.Write([]byte("OK"))
		default:
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	res1, err := NewResource(server.URL+"/presets/full.toml", nil)
	require.NoError(t, err)
	defer res1.Close()

	res2, err := NewResource("stars.png", res1)
	require.NoError(t, err)
	defer res2.Close()

	data, err := io.ReadAll(res2)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(data))
	assert.Equal(t, 2, serverHits)
	assert.Equal(t, server.URL+"/presets/stars.png", res2.Path())
}

func TestRelativeLocalResources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preset.toml"), []byte("[log]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sky.png"), []byte("png"), 0o644))

	res1, err := NewResource(filepath.Join(dir, "preset.toml"), nil)
	require.NoError(t, err)
	defer res1.Close()

	res2, err := NewResource("sky.png", res1)
	require.NoError(t, err)
	defer res2.Close()

	data, err := io.ReadAll(res2)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "png", res2.Ext())
}

func TestUnsupportedResourceScheme(t *testing.T) {
	_, err := NewResource("gopher://digging.go", nil)
	require.Error(t, err)
	assert.Equal(t, "resource: unsupported scheme 'gopher'", err.Error())
}

func TestResourceConnectionRefusedError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewResource(addr+"/foo.png", nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "could not fetch"), err.Error())
}

func TestResourceFromStream(t *testing.T) {
	res := NewResourceFromStream("embedded.png", strings.NewReader("payload"))
	defer res.Close()

	data, err := io.ReadAll(res)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, "png", res.Ext())
	assert.False(t, res.IsRemote())
}
