package dnsprobe

import (
	"context"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/domainscout-dev/domainscout/internal/check"
)

// DefaultConcurrency bounds simultaneously in-flight lookups.
const DefaultConcurrency = 50

// Options configures a probe run.
type Options struct {
	// Resolver to query. Nil builds a SystemResolver on first use.
	Resolver Resolver
	// Concurrency caps in-flight lookups. Values below 1 fall back to
	// DefaultConcurrency.
	Concurrency int
	// Timeout per DNS query, only used when Resolver is nil.
	Timeout time.Duration
	// OnResult fires exactly once per domain, right after that domain's
	// classification is finalized. Invocations are serialized.
	OnResult func(check.Result)
}

// Probe classifies each candidate domain as registered, possibly available,
// or unknown. The output contains exactly one result per input domain in no
// particular order; callers needing stable order re-sort.
func Probe(ctx context.Context, domains []string, opts Options) ([]check.Result, error) {
	if len(domains) == 0 {
		return []check.Result{}, nil
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewSystemResolver(opts.Timeout)
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	sink := check.NewSink(opts.OnResult)
	sem := semaphore.NewWeighted(int64(concurrency))
	results := make([]check.Result, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	for i, domain := range domains {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				// Cancellation mid-batch: the domain still gets a result
				// so cardinality is preserved.
				results[i] = check.Result{Domain: domain, Status: check.StatusUnknown}
				sink.Emit(results[i])
				return nil
			}
			defer sem.Release(1)

			results[i] = check.Result{Domain: domain, Status: classify(gctx, resolver, domain)}
			sink.Emit(results[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// classify runs the NS→SOA ladder for one domain.
//
// NS absence alone is not proof of non-registration: some zones answer SOA
// but not NS under certain delegation states, so a negative NS answer falls
// through to SOA. A timeout or fault at either step short-circuits to
// unknown; a hung resolver is transient infrastructure trouble, not
// evidence about the domain.
func classify(ctx context.Context, r Resolver, domain string) check.Status {
	switch r.Lookup(ctx, domain, dns.TypeNS) {
	case OutcomeRecords:
		return check.StatusRegistered
	case OutcomeNegative:
		// fall through to SOA
	default:
		return check.StatusUnknown
	}

	switch r.Lookup(ctx, domain, dns.TypeSOA) {
	case OutcomeRecords:
		return check.StatusRegistered
	case OutcomeNegative:
		return check.StatusPossiblyAvailable
	default:
		return check.StatusUnknown
	}
}
