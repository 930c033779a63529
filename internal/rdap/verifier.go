package rdap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/domainscout-dev/domainscout/internal/check"
)

// DefaultQueryTimeout bounds a single RDAP query.
const DefaultQueryTimeout = 10 * time.Second

const responseBodyLimit = 4 << 20

// Classification is the registry-level reading of one RDAP query. It only
// exists to drive the observability callback; it collapses into a
// check.Status for the final output.
type Classification string

const (
	ClassRegistered  Classification = "registered"
	ClassAvailable   Classification = "available"
	ClassReserved    Classification = "reserved"
	ClassNoAuthority Classification = "no_authority"
	ClassError       Classification = "error"
)

// Outcome is the transient per-query record handed to OnOutcome.
type Outcome struct {
	Domain         string
	Classification Classification
	Status         check.Status
}

// Options configures a Verify call.
type Options struct {
	// RateLimit caps outbound queries per second across all workers.
	RateLimit int
	// Directory, when non-nil, skips bootstrap loading entirely.
	Directory Directory
	// LoadDirectory overrides how the bootstrap directory is obtained.
	// Defaults to Load with CacheDir.
	LoadDirectory func(context.Context) (Directory, error)
	// CacheDir for the default bootstrap loader.
	CacheDir string
	// Client issues RDAP queries; a default client when nil.
	Client *http.Client
	// OnOutcome fires once per domain actually queried, after its
	// classification is known. Invocations are serialized.
	OnOutcome func(Outcome)
}

// Verify confirms the possibly-available subset of results against each
// TLD's RDAP authority. Every other result passes through verbatim; the
// output always contains exactly one result per input domain.
func Verify(ctx context.Context, results []check.Result, opts Options) ([]check.Result, error) {
	var available, other []check.Result
	for _, r := range results {
		if r.Status == check.StatusPossiblyAvailable {
			available = append(available, r)
		} else {
			other = append(other, r)
		}
	}
	if len(available) == 0 {
		return results, nil
	}

	dir, err := directory(ctx, opts)
	if err != nil {
		return nil, err
	}

	type target struct {
		result  check.Result
		baseURL string
	}
	var hasAuthority []target
	var noAuthority []check.Result
	for _, r := range available {
		if url, ok := dir.BaseURL(r.Domain); ok {
			hasAuthority = append(hasAuthority, target{result: r, baseURL: url})
		} else {
			// No RDAP service for this TLD: the DNS-only status stands.
			noAuthority = append(noAuthority, r)
		}
	}
	if len(hasAuthority) == 0 {
		return results, nil
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	limiter := NewLimiter(opts.RateLimit)
	sink := check.NewSink(opts.OnOutcome)

	verified := make([]check.Result, len(hasAuthority))
	g, gctx := errgroup.WithContext(ctx)
	for i, tgt := range hasAuthority {
		g.Go(func() error {
			outcome, queried := query(gctx, client, limiter, tgt.baseURL, tgt.result.Domain)
			verified[i] = check.Result{Domain: outcome.Domain, Status: outcome.Status}
			if queried {
				sink.Emit(outcome)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]check.Result, 0, len(results))
	out = append(out, other...)
	out = append(out, noAuthority...)
	out = append(out, verified...)
	return out, nil
}

func directory(ctx context.Context, opts Options) (Directory, error) {
	if opts.Directory != nil {
		return opts.Directory, nil
	}
	if opts.LoadDirectory != nil {
		return opts.LoadDirectory(ctx)
	}
	return Load(ctx, LoadOptions{CacheDir: opts.CacheDir})
}

// query issues one rate-limited RDAP lookup and classifies the response.
// The second return is false when the domain was never queried at all
// (context cancelled before a rate token arrived), so callers skip the
// per-query callback for it.
func query(ctx context.Context, client *http.Client, limiter *Limiter, baseURL, domain string) (Outcome, bool) {
	if err := limiter.Acquire(ctx); err != nil {
		return outcomeFor(domain, ClassError), false
	}

	qctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	url := fmt.Sprintf("%sdomain/%s", baseURL, domain)
	req, err := http.NewRequestWithContext(qctx, http.MethodGet, url, nil)
	if err != nil {
		return outcomeFor(domain, ClassError), true
	}

	resp, err := client.Do(req)
	if err != nil {
		return outcomeFor(domain, ClassError), true
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return outcomeFor(domain, classifyBody(resp.Body)), true
	case http.StatusNotFound:
		return outcomeFor(domain, ClassAvailable), true
	default:
		return outcomeFor(domain, ClassError), true
	}
}

// classifyBody inspects the status array of an RDAP 200 response. Any entry
// containing "reserved" wins; otherwise a 200 is always evidence of
// existence in the registry, even with an empty or absent status array.
func classifyBody(body io.Reader) Classification {
	raw, err := io.ReadAll(io.LimitReader(body, responseBodyLimit))
	if err != nil {
		return ClassError
	}

	var payload struct {
		Status []string `json:"status"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ClassError
	}

	for _, s := range payload.Status {
		if strings.Contains(strings.ToLower(s), "reserved") {
			return ClassReserved
		}
	}
	return ClassRegistered
}

// statusFor maps a registry classification onto the shared status model.
func statusFor(c Classification) check.Status {
	switch c {
	case ClassAvailable:
		return check.StatusPossiblyAvailable
	case ClassRegistered, ClassReserved:
		return check.StatusRegistered
	default:
		return check.StatusUnknown
	}
}

func outcomeFor(domain string, c Classification) Outcome {
	return Outcome{Domain: domain, Classification: c, Status: statusFor(c)}
}
