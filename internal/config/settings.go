// Package config carries runtime settings and the optional search profile
// file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/domainscout-dev/domainscout/internal/dnsprobe"
	"github.com/domainscout-dev/domainscout/internal/rdap"
)

// Settings aggregates runtime knobs for a search run. Zero values mean
// "use the default"; ApplyDefaults resolves them.
type Settings struct {
	// Concurrency caps simultaneous DNS lookups.
	Concurrency int
	// RateLimit caps RDAP queries per second.
	RateLimit int
	// DNSTimeout bounds one DNS query.
	DNSTimeout time.Duration
	// CacheDir holds the TLD list and RDAP bootstrap caches.
	CacheDir string
}

// ApplyDefaults resolves zero values.
func (s *Settings) ApplyDefaults() {
	if s.Concurrency <= 0 {
		s.Concurrency = dnsprobe.DefaultConcurrency
	}
	if s.RateLimit <= 0 {
		s.RateLimit = rdap.DefaultRateLimit
	}
	if s.DNSTimeout <= 0 {
		s.DNSTimeout = dnsprobe.DefaultTimeout
	}
	if s.CacheDir == "" {
		s.CacheDir = DefaultCacheDir()
	}
}

// DefaultCacheDir is the per-user cache location, honoring XDG_CACHE_HOME
// through os.UserCacheDir.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "domainscout")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "domainscout")
	}
	return filepath.Join(home, ".cache", "domainscout")
}
