// Package tldlist fetches and caches the IANA top-level domain list.
package tldlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceURL is the IANA-published list of all delegated TLDs.
const SourceURL = "https://data.iana.org/TLD/tlds-alpha-by-domain.txt"

const (
	cacheFileName = "tlds.txt"
	cacheMaxAge   = 24 * time.Hour
	fetchLimit    = 1 << 20
)

// Options configures a Fetch.
type Options struct {
	// CacheDir holds the raw list between runs.
	CacheDir string
	// ForceRefresh bypasses the cache.
	ForceRefresh bool
	// URL of the list, SourceURL when empty.
	URL string
	// Client used for the fetch; a default client when nil.
	Client *http.Client
	// Now is injectable for cache-freshness tests.
	Now func() time.Time
}

// Fetch returns the lowercase TLD list, preferring a cache entry younger
// than 24 hours.
func Fetch(ctx context.Context, opts Options) ([]string, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cachePath := filepath.Join(opts.CacheDir, cacheFileName)

	if !opts.ForceRefresh {
		if raw, ok := freshCache(cachePath, now()); ok {
			return Parse(string(raw)), nil
		}
	}

	raw, err := fetch(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.CacheDir != "" {
		if err := os.MkdirAll(opts.CacheDir, 0o755); err == nil {
			_ = os.WriteFile(cachePath, raw, 0o644)
		}
	}

	return Parse(string(raw)), nil
}

// Parse extracts lowercase TLDs from the IANA list text, skipping comment
// and blank lines. IDN entries stay in their punycode form (xn--...).
func Parse(text string) []string {
	var tlds []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tlds = append(tlds, strings.ToLower(line))
	}
	return tlds
}

func freshCache(path string, now time.Time) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil || now.Sub(info.ModTime()) >= cacheMaxAge {
		return nil, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func fetch(ctx context.Context, opts Options) ([]byte, error) {
	url := opts.URL
	if url == "" {
		url = SourceURL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build tld list request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tld list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch tld list: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, fetchLimit))
	if err != nil {
		return nil, fmt.Errorf("read tld list: %w", err)
	}
	return raw, nil
}
