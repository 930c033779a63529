package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainscout-dev/domainscout/internal/dnsprobe"
	"github.com/domainscout-dev/domainscout/internal/rdap"
)

func TestResolveSettingsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	settings := resolveSettings()

	assert.Equal(t, dnsprobe.DefaultConcurrency, settings.Concurrency)
	assert.Equal(t, rdap.DefaultRateLimit, settings.RateLimit)
	assert.Equal(t, dnsprobe.DefaultTimeout, settings.DNSTimeout)
	assert.NotEmpty(t, settings.CacheDir)
}

func TestResolveSettingsViperOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("concurrency", 8)
	viper.Set("rate_limit", 3)
	viper.Set("dns_timeout", "2s")
	viper.Set("cache_dir", "/tmp/domainscout-test")

	settings := resolveSettings()

	assert.Equal(t, 8, settings.Concurrency)
	assert.Equal(t, 3, settings.RateLimit)
	assert.Equal(t, 2*time.Second, settings.DNSTimeout)
	assert.Equal(t, "/tmp/domainscout-test", settings.CacheDir)
}

func TestBuildSpecFlagOverrides(t *testing.T) {
	t.Cleanup(func() {
		concurrency, rateLimit, dnsTimeout = 0, 0, 0
		viper.Reset()
	})
	concurrency = 5
	rateLimit = 2
	dnsTimeout = 3 * time.Second

	spec, err := buildSpec(searchCmd, []string{"example"})
	require.NoError(t, err)

	assert.Equal(t, "example", spec.term)
	assert.Equal(t, 5, spec.settings.Concurrency)
	assert.Equal(t, 2, spec.settings.RateLimit)
	assert.Equal(t, 3*time.Second, spec.settings.DNSTimeout)
}
