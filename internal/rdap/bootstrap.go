// Package rdap confirms DNS-flagged candidates against the registries'
// RDAP services, discovered through the IANA bootstrap directory.
package rdap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BootstrapURL is the IANA registry-of-registries document for DNS RDAP.
const BootstrapURL = "https://data.iana.org/rdap/dns.json"

// ErrNoBootstrap means the bootstrap directory could not be fetched and no
// fresh cache exists. Callers may fall back to DNS-only results.
var ErrNoBootstrap = errors.New("rdap bootstrap directory unavailable")

const (
	bootstrapCacheFile   = "rdap_bootstrap.json"
	bootstrapCacheMaxAge = 24 * time.Hour
	bootstrapFetchLimit  = 8 << 20 // the live document is well under 1MB
)

// Directory maps a lowercase TLD to the base URL of its RDAP authority.
// Read-only once loaded; safe for unsynchronized concurrent reads.
type Directory map[string]string

// BaseURL returns the RDAP base URL for a domain's TLD.
func (d Directory) BaseURL(domain string) (string, bool) {
	url, ok := d[TLD(domain)]
	return url, ok
}

// TLD extracts the last label of a domain, lowercased.
func TLD(domain string) string {
	if i := strings.LastIndex(domain, "."); i >= 0 {
		return strings.ToLower(domain[i+1:])
	}
	return strings.ToLower(domain)
}

// bootstrapDocument mirrors the IANA bootstrap JSON: each service entry is
// a pair of [tldList, urlList].
type bootstrapDocument struct {
	Services [][][]string `json:"services"`
}

// ParseDirectory flattens a raw bootstrap document into a Directory. For
// each service the first HTTPS URL wins, else the first URL; URLs are
// normalized to end with a slash.
func ParseDirectory(raw []byte) (Directory, error) {
	var doc bootstrapDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rdap bootstrap: %w", err)
	}

	dir := make(Directory)
	for _, svc := range doc.Services {
		if len(svc) < 2 || len(svc[1]) == 0 {
			continue
		}
		tlds, urls := svc[0], svc[1]

		url := urls[0]
		for _, u := range urls {
			if strings.HasPrefix(u, "https://") {
				url = u
				break
			}
		}
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}

		for _, tld := range tlds {
			dir[strings.ToLower(tld)] = url
		}
	}
	return dir, nil
}

// LoadOptions configures bootstrap directory loading.
type LoadOptions struct {
	// CacheDir holds the raw bootstrap document between runs.
	CacheDir string
	// URL of the bootstrap document, BootstrapURL when empty.
	URL string
	// Client used for the fetch; a default client when nil.
	Client *http.Client
	// Now is injectable for cache-freshness tests.
	Now func() time.Time
}

// Load returns the TLD directory, preferring a cache entry younger than 24
// hours. A fetch failure with no fresh cache is fatal; callers may choose
// to continue with DNS-only results.
func Load(ctx context.Context, opts LoadOptions) (Directory, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cachePath := filepath.Join(opts.CacheDir, bootstrapCacheFile)

	if raw, ok := freshCache(cachePath, now()); ok {
		if dir, err := ParseDirectory(raw); err == nil {
			return dir, nil
		}
		// Corrupt cache falls through to a refetch.
	}

	raw, err := fetchBootstrap(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoBootstrap, err)
	}

	if opts.CacheDir != "" {
		if err := os.MkdirAll(opts.CacheDir, 0o755); err == nil {
			_ = os.WriteFile(cachePath, raw, 0o644)
		}
	}

	return ParseDirectory(raw)
}

func freshCache(path string, now time.Time) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil || now.Sub(info.ModTime()) >= bootstrapCacheMaxAge {
		return nil, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func fetchBootstrap(ctx context.Context, opts LoadOptions) ([]byte, error) {
	url := opts.URL
	if url == "" {
		url = BootstrapURL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build bootstrap request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rdap bootstrap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rdap bootstrap: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, bootstrapFetchLimit))
	if err != nil {
		return nil, fmt.Errorf("read rdap bootstrap: %w", err)
	}
	return raw, nil
}
