// Package dnsprobe classifies candidate domains by probing for NS and SOA
// records under a bounded-concurrency fan-out.
package dnsprobe

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/miekg/dns"
)

// DefaultTimeout bounds a single DNS query.
const DefaultTimeout = 5 * time.Second

const resolvConfPath = "/etc/resolv.conf"

// Outcome is the condensed result of one DNS query.
type Outcome int

const (
	// OutcomeRecords means the answer contained records of the queried type.
	OutcomeRecords Outcome = iota
	// OutcomeNegative means a definitive "not there": NXDOMAIN, an empty
	// answer, or no nameserver willing to answer.
	OutcomeNegative
	// OutcomeTimeout means the query exceeded its deadline.
	OutcomeTimeout
	// OutcomeFault covers every other failure.
	OutcomeFault
)

// Resolver issues a single DNS query for one record type.
type Resolver interface {
	Lookup(ctx context.Context, domain string, qtype uint16) Outcome
}

// SystemResolver queries the nameservers from the host's resolver
// configuration, falling back to TCP when answers come back truncated.
type SystemResolver struct {
	servers []string
	udp     *dns.Client
	tcp     *dns.Client
}

// NewSystemResolver builds a resolver from /etc/resolv.conf. When the file
// is unreadable it falls back to the local stub resolver on 127.0.0.1.
func NewSystemResolver(timeout time.Duration) *SystemResolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	servers := []string{net.JoinHostPort("127.0.0.1", "53")}
	if conf, err := dns.ClientConfigFromFile(resolvConfPath); err == nil && len(conf.Servers) > 0 {
		servers = servers[:0]
		for _, s := range conf.Servers {
			servers = append(servers, net.JoinHostPort(s, conf.Port))
		}
	}

	return &SystemResolver{
		servers: servers,
		udp:     &dns.Client{Timeout: timeout},
		tcp:     &dns.Client{Net: "tcp", Timeout: timeout},
	}
}

// Lookup implements Resolver.
func (r *SystemResolver) Lookup(ctx context.Context, domain string, qtype uint16) Outcome {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		resp, _, err := r.udp.ExchangeContext(ctx, msg, server)
		if err == nil && resp != nil && resp.Truncated {
			resp, _, err = r.tcp.ExchangeContext(ctx, msg, server)
		}
		if err != nil {
			lastErr = err
			if isTimeout(err) {
				return OutcomeTimeout
			}
			// Try the next configured server before giving up.
			continue
		}
		return classifyResponse(resp, qtype)
	}

	if lastErr != nil {
		return OutcomeFault
	}
	return OutcomeFault
}

func classifyResponse(resp *dns.Msg, qtype uint16) Outcome {
	switch resp.Rcode {
	case dns.RcodeSuccess:
		for _, rr := range resp.Answer {
			if rr.Header().Rrtype == qtype {
				return OutcomeRecords
			}
		}
		return OutcomeNegative
	case dns.RcodeNameError:
		return OutcomeNegative
	case dns.RcodeServerFailure, dns.RcodeRefused:
		// All we know is that no authoritative answer exists; treated the
		// same as an empty answer so the caller can fall through to SOA.
		return OutcomeNegative
	default:
		return OutcomeFault
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
