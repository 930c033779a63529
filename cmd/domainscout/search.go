package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/domainscout-dev/domainscout/internal/check"
	"github.com/domainscout-dev/domainscout/internal/config"
	"github.com/domainscout-dev/domainscout/internal/dnsprobe"
	"github.com/domainscout-dev/domainscout/internal/hackgen"
	"github.com/domainscout-dev/domainscout/internal/output"
	"github.com/domainscout-dev/domainscout/internal/rdap"
	"github.com/domainscout-dev/domainscout/internal/tldlist"
)

// confirmThreshold is the candidate count above which an interactive run
// asks before probing.
const confirmThreshold = 1000

var (
	profilePath string
	tldFilter   []string
	concurrency int
	rateLimit   int
	dnsTimeout  time.Duration
	skipRDAP    bool
	outFile     string
	format      string
	filterExpr  string
	assumeYes   bool
)

// searchCmd represents the search command.
var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search for available domains for a term",
	Long: `Search checks term.tld across every TLD plus domain hacks spelled by
splitting the term, then classifies each candidate as registered, possibly
available, or unknown. Candidates that look available from DNS are confirmed
against the registry's RDAP service.

Filtering:
  --filter 'status == "possibly available"'   Keep matching rows only
  --filter 'type == "hack"'                   Domain hacks only
  Fields: domain, status, type, visual, method`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&profilePath, "profile", "", "search profile YAML (term and options)")
	searchCmd.Flags().StringSliceVar(&tldFilter, "tld", nil, "restrict to specific TLDs (comma-separated)")
	searchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "max concurrent DNS lookups (default 50)")
	searchCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "max RDAP queries per second (default 10)")
	searchCmd.Flags().DurationVar(&dnsTimeout, "dns-timeout", 0, "timeout per DNS query (default 5s)")
	searchCmd.Flags().BoolVar(&skipRDAP, "skip-rdap", false, "skip RDAP verification (faster but less accurate)")
	searchCmd.Flags().StringVarP(&outFile, "output", "o", "", "export results to a file (.json, .jsonl, .csv, .yaml)")
	searchCmd.Flags().StringVar(&format, "format", "table", "stdout format: table, json, jsonl, csv, yaml")
	searchCmd.Flags().StringVar(&filterExpr, "filter", "", `row filter expression (e.g. "status == 'possibly available'")`)
	searchCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt on large scans")
}

// rowEnv is the expression environment one result row exposes to --filter.
type rowEnv struct {
	Domain string `expr:"domain"`
	Status string `expr:"status"`
	Kind   string `expr:"type"`
	Visual string `expr:"visual"`
	Method string `expr:"method"`
}

// searchSpec is the fully merged input for one run: profile values
// overridden by explicit flags.
type searchSpec struct {
	term     string
	tlds     []string
	skipRDAP bool
	outFile  string
	format   string
	filter   string
	settings config.Settings
}

func runSearch(cmd *cobra.Command, args []string) error {
	spec, err := buildSpec(cmd, args)
	if err != nil {
		return err
	}

	program, err := compileFilter(spec.filter)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	tlds, err := tldlist.Fetch(ctx, tldlist.Options{CacheDir: spec.settings.CacheDir})
	if err != nil {
		return fmt.Errorf("failed to fetch TLD list: %w", err)
	}
	slog.Debug("tld list loaded", "count", len(tlds))

	if len(spec.tlds) > 0 {
		tlds, err = restrictTLDs(spec.tlds, tlds)
		if err != nil {
			return err
		}
	}

	domains, meta := buildCandidates(spec.term, tlds)
	if len(domains) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No domains to check.")
		return nil
	}

	if !confirmScan(len(domains)) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
		return nil
	}

	slog.Info("checking domains", "candidates", len(domains), "tlds", len(tlds), "concurrency", spec.settings.Concurrency)

	progress := newProgress(cmd.ErrOrStderr(), "checking", len(domains))
	results, err := dnsprobe.Probe(ctx, domains, dnsprobe.Options{
		Concurrency: spec.settings.Concurrency,
		Timeout:     spec.settings.DNSTimeout,
		OnResult:    func(check.Result) { progress.tick() },
	})
	progress.done()
	if err != nil {
		return fmt.Errorf("DNS probe failed: %w", err)
	}

	if !spec.skipRDAP {
		results = verifyResults(ctx, cmd, spec, results, meta)
	}

	results = applyFilter(program, results, meta)

	report := &output.Report{
		Results:   results,
		Meta:      meta,
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
	}

	formatter, err := output.NewFormatter(spec.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := formatter.Format(report); err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}

	if spec.outFile != "" {
		if err := exportReport(report, spec.outFile); err != nil {
			return err
		}
		slog.Info("results exported", "file", spec.outFile)
	}

	return nil
}

// verifyResults runs the RDAP stage. A bootstrap failure degrades to the
// DNS-only results instead of failing the run.
func verifyResults(ctx context.Context, cmd *cobra.Command, spec *searchSpec, results []check.Result, meta check.MetaMap) []check.Result {
	pending := 0
	for _, r := range results {
		if r.Status == check.StatusPossiblyAvailable {
			pending++
		}
	}
	if pending == 0 {
		return results
	}

	slog.Info("verifying via RDAP", "candidates", pending, "rate_limit", spec.settings.RateLimit)

	progress := newProgress(cmd.ErrOrStderr(), "verifying", pending)
	verified, err := rdap.Verify(ctx, results, rdap.Options{
		RateLimit: spec.settings.RateLimit,
		CacheDir:  spec.settings.CacheDir,
		OnOutcome: func(o rdap.Outcome) {
			progress.tick()
			// The sink serializes these callbacks, so the meta map is
			// safe to update here.
			m := meta[o.Domain]
			m.Method = check.MethodRDAP
			meta[o.Domain] = m
		},
	})
	progress.done()
	if err != nil {
		slog.Warn("RDAP verification unavailable, keeping DNS-only results", "error", err)
		return results
	}
	return verified
}

// buildSpec merges profile values and flags; explicit flags win.
func buildSpec(cmd *cobra.Command, args []string) (*searchSpec, error) {
	spec := &searchSpec{
		format:   format,
		settings: resolveSettings(),
	}

	if profilePath != "" {
		profile, err := config.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		slog.Debug("profile loaded", "name", profile.Metadata.Name, "version", profile.Metadata.Version)

		spec.term = profile.Search.Term
		spec.tlds = profile.Search.TLDs
		spec.skipRDAP = profile.Search.SkipRDAP
		spec.outFile = profile.Output.File
		spec.filter = profile.Output.Filter
		if profile.Output.Format != "" {
			spec.format = profile.Output.Format
		}
		if profile.Search.Concurrency > 0 {
			spec.settings.Concurrency = profile.Search.Concurrency
		}
		if profile.Search.RateLimit > 0 {
			spec.settings.RateLimit = profile.Search.RateLimit
		}
	}

	if len(args) > 0 {
		spec.term = args[0]
	}
	if spec.term == "" {
		return nil, fmt.Errorf("no search term: pass one as an argument or set search.term in a profile")
	}

	if cmd.Flags().Changed("tld") {
		spec.tlds = tldFilter
	}
	if cmd.Flags().Changed("skip-rdap") {
		spec.skipRDAP = skipRDAP
	}
	if cmd.Flags().Changed("output") {
		spec.outFile = outFile
	}
	if cmd.Flags().Changed("format") {
		spec.format = format
	}
	if cmd.Flags().Changed("filter") {
		spec.filter = filterExpr
	}
	if concurrency > 0 {
		spec.settings.Concurrency = concurrency
	}
	if rateLimit > 0 {
		spec.settings.RateLimit = rateLimit
	}
	if dnsTimeout > 0 {
		spec.settings.DNSTimeout = dnsTimeout
	}

	return spec, nil
}

// compileFilter compiles the --filter expression once at startup.
func compileFilter(filter string) (*vm.Program, error) {
	if filter == "" {
		return nil, nil
	}
	program, err := expr.Compile(filter, expr.Env(rowEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid --filter expression: %w\nExample: status == 'possibly available' && type == 'hack'", err)
	}
	return program, nil
}

// applyFilter keeps the rows the compiled expression accepts. Rows the
// expression fails on are kept; a filter should never silently drop data.
func applyFilter(program *vm.Program, results []check.Result, meta check.MetaMap) []check.Result {
	if program == nil {
		return results
	}

	kept := make([]check.Result, 0, len(results))
	for _, r := range results {
		m := meta[r.Domain]
		method := m.Method
		if method == "" {
			method = check.MethodDNS
		}
		kind := m.Kind
		if kind == "" {
			kind = check.KindExact
		}
		out, err := expr.Run(program, rowEnv{
			Domain: r.Domain,
			Status: string(r.Status),
			Kind:   string(kind),
			Visual: m.Visual,
			Method: string(method),
		})
		if err != nil {
			slog.Warn("filter expression failed for row", "domain", r.Domain, "error", err)
			kept = append(kept, r)
			continue
		}
		if keep, ok := out.(bool); !ok || keep {
			kept = append(kept, r)
		}
	}
	return kept
}

// restrictTLDs intersects the requested TLDs with the IANA list, warning
// about unknown ones.
func restrictTLDs(requested, known []string) ([]string, error) {
	knownSet := make(map[string]bool, len(known))
	for _, tld := range known {
		knownSet[tld] = true
	}

	var valid, invalid []string
	for _, tld := range requested {
		tld = normalizeTLD(tld)
		if knownSet[tld] {
			valid = append(valid, tld)
		} else {
			invalid = append(invalid, tld)
		}
	}

	if len(invalid) > 0 {
		slog.Warn("skipping TLDs not in the IANA list", "tlds", invalid)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid TLDs specified")
	}
	return valid, nil
}

// buildCandidates assembles the deduplicated candidate list: exact
// term.tld first, then domain hacks.
func buildCandidates(term string, tlds []string) ([]string, check.MetaMap) {
	var domains []string
	meta := make(check.MetaMap)

	for _, tld := range tlds {
		domain := term + "." + tld
		if _, ok := meta[domain]; ok {
			continue
		}
		domains = append(domains, domain)
		meta[domain] = check.Meta{Kind: check.KindExact, Method: check.MethodDNS}
	}

	for _, hack := range hackgen.Generate(term, tlds) {
		if _, ok := meta[hack.Domain]; ok {
			continue
		}
		domains = append(domains, hack.Domain)
		meta[hack.Domain] = check.Meta{Kind: check.KindHack, Visual: hack.Visual, Method: check.MethodDNS}
	}

	return domains, meta
}

// confirmScan asks before large interactive scans. Non-interactive runs
// and --yes proceed without asking.
func confirmScan(total int) bool {
	if total <= confirmThreshold || assumeYes || !isInteractive() {
		return true
	}

	proceed := true
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Probe %d candidate domains?", total)).
			Description("This fires one DNS query per candidate (two for quiet zones).").
			Value(&proceed),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return proceed
}

func exportReport(report *output.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	formatter, err := output.ForPath(path, file)
	if err != nil {
		return err
	}
	return formatter.Format(report)
}
