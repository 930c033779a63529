package main

import (
	"os"

	"github.com/spf13/viper"

	"github.com/domainscout-dev/domainscout/internal/config"
)

// resolveSettings builds runtime settings from the config file and
// environment. Command flags layer on top in the commands themselves.
func resolveSettings() config.Settings {
	settings := config.Settings{
		Concurrency: viper.GetInt("concurrency"),
		RateLimit:   viper.GetInt("rate_limit"),
		DNSTimeout:  viper.GetDuration("dns_timeout"),
		CacheDir:    viper.GetString("cache_dir"),
	}
	settings.ApplyDefaults()
	return settings
}

// isInteractive checks if we're reading from an interactive terminal.
func isInteractive() bool {
	return isCharDevice(os.Stdin)
}

func isCharDevice(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
