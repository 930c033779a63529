package tldlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleList = `# Version 2026082400, Last Updated Mon Aug 24 07:07:01 2026 UTC
COM
IO
XN--P1AI

DEV
`

func TestParse(t *testing.T) {
	tlds := Parse(sampleList)
	assert.Equal(t, []string{"com", "io", "xn--p1ai", "dev"}, tlds)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("# only a comment\n"))
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleList))
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	tlds, err := Fetch(context.Background(), Options{CacheDir: cacheDir, URL: srv.URL})
	require.NoError(t, err)
	assert.Contains(t, tlds, "com")

	raw, err := os.ReadFile(filepath.Join(cacheDir, cacheFileName))
	require.NoError(t, err)
	assert.Equal(t, sampleList, string(raw))
}

func TestFetchUsesFreshCache(t *testing.T) {
	cacheDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, cacheFileName), []byte("CACHED\n"), 0o644))

	tlds, err := Fetch(context.Background(), Options{
		CacheDir: cacheDir,
		URL:      "http://127.0.0.1:1/unreachable",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cached"}, tlds)
}

func TestFetchForceRefreshBypassesCache(t *testing.T) {
	cacheDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, cacheFileName), []byte("CACHED\n"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("FRESH\n"))
	}))
	defer srv.Close()

	tlds, err := Fetch(context.Background(), Options{CacheDir: cacheDir, URL: srv.URL, ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, tlds)
}

func TestFetchStaleCacheRefetches(t *testing.T) {
	cacheDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, cacheFileName), []byte("CACHED\n"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("FRESH\n"))
	}))
	defer srv.Close()

	tlds, err := Fetch(context.Background(), Options{
		CacheDir: cacheDir,
		URL:      srv.URL,
		Now:      func() time.Time { return time.Now().Add(25 * time.Hour) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, tlds)
}

func TestFetchErrorWithoutCache(t *testing.T) {
	_, err := Fetch(context.Background(), Options{
		CacheDir: t.TempDir(),
		URL:      "http://127.0.0.1:1/unreachable",
	})
	assert.Error(t, err)
}
