// Package check holds the shared result model produced by the DNS prober
// and refined by the RDAP verifier.
package check

import "fmt"

// Status classifies a domain's registration state.
type Status string

const (
	// StatusRegistered indicates the domain exists in DNS or a registry.
	StatusRegistered Status = "registered"
	// StatusPossiblyAvailable indicates DNS silence. It is an invitation
	// for RDAP confirmation, not a terminal claim.
	StatusPossiblyAvailable Status = "possibly available"
	// StatusUnknown indicates the check could not classify the domain.
	StatusUnknown Status = "unknown"
)

// Validate returns an error if the status value is invalid.
func (s Status) Validate() error {
	switch s {
	case StatusRegistered, StatusPossiblyAvailable, StatusUnknown:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", s)
	}
}

// Result is the classification of one candidate domain. Results are
// replaced by value, never mutated in place.
type Result struct {
	Domain string `json:"domain"`
	Status Status `json:"status"`
}

// Method records which stage produced a domain's final status.
type Method string

const (
	MethodDNS  Method = "DNS"
	MethodRDAP Method = "RDAP"
)

// Kind distinguishes plain term.tld candidates from domain hacks.
type Kind string

const (
	KindExact Kind = "exact"
	KindHack  Kind = "hack"
)

// Meta carries per-domain presentation metadata alongside results.
type Meta struct {
	Kind   Kind
	Visual string
	Method Method
}

// MetaMap indexes Meta by domain name.
type MetaMap map[string]Meta
