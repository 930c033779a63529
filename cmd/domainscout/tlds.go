package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/domainscout-dev/domainscout/internal/tldlist"
)

var tldsRefresh bool

// tldsCmd lists the IANA TLD list the search commands run against.
var tldsCmd = &cobra.Command{
	Use:   "tlds",
	Short: "List all TLDs from the IANA registry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings := resolveSettings()

		tlds, err := tldlist.Fetch(cmd.Context(), tldlist.Options{
			CacheDir:     settings.CacheDir,
			ForceRefresh: tldsRefresh,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch TLD list: %w", err)
		}

		for _, tld := range tlds {
			fmt.Println(tld)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d TLDs\n", len(tlds))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tldsCmd)
	tldsCmd.Flags().BoolVar(&tldsRefresh, "refresh", false, "bypass the local cache and re-download the list")
}
