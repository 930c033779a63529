// Package output renders classified search results as a terminal table and
// exports them to JSON, JSONL, CSV, or YAML.
package output

import (
	"sort"
	"time"

	"github.com/domainscout-dev/domainscout/internal/check"
)

// Report bundles a finished run's results with presentation metadata.
type Report struct {
	Results   []check.Result
	Meta      check.MetaMap
	RunID     string
	Timestamp time.Time
}

// Record is one export row. Field set mirrors the renderer contract:
// domain, status, check method, candidate type, ISO-8601 timestamp, plus
// the run identity.
type Record struct {
	Domain      string `json:"domain" yaml:"domain" csv:"domain"`
	Status      string `json:"status" yaml:"status" csv:"status"`
	CheckMethod string `json:"check_method" yaml:"check_method" csv:"check_method"`
	Type        string `json:"type" yaml:"type" csv:"type"`
	Timestamp   string `json:"timestamp" yaml:"timestamp" csv:"timestamp"`
	RunID       string `json:"run_id" yaml:"run_id" csv:"run_id"`
}

// Summary counts results per status.
type Summary struct {
	Total      int
	Available  int
	Unknown    int
	Registered int
}

// displayRank orders statuses for presentation: available first, then
// unknown, then registered. This coupling lives here on purpose; the
// status type itself carries no ordering.
func displayRank(s check.Status) int {
	switch s {
	case check.StatusPossiblyAvailable:
		return 0
	case check.StatusUnknown:
		return 1
	default:
		return 2
	}
}

// Sorted returns the results ordered by status rank, then alphabetically.
func (r *Report) Sorted() []check.Result {
	out := make([]check.Result, len(r.Results))
	copy(out, r.Results)
	sort.Slice(out, func(i, j int) bool {
		ri, rj := displayRank(out[i].Status), displayRank(out[j].Status)
		if ri != rj {
			return ri < rj
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

// Records builds the sorted export rows.
func (r *Report) Records() []Record {
	ts := r.Timestamp.UTC().Format(time.RFC3339)
	records := make([]Record, 0, len(r.Results))
	for _, res := range r.Sorted() {
		meta := r.Meta[res.Domain]
		method := meta.Method
		if method == "" {
			method = check.MethodDNS
		}
		kind := meta.Kind
		if kind == "" {
			kind = check.KindExact
		}
		records = append(records, Record{
			Domain:      res.Domain,
			Status:      string(res.Status),
			CheckMethod: string(method),
			Type:        string(kind),
			Timestamp:   ts,
			RunID:       r.RunID,
		})
	}
	return records
}

// Summarize tallies results per status.
func (r *Report) Summarize() Summary {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Status {
		case check.StatusPossiblyAvailable:
			s.Available++
		case check.StatusRegistered:
			s.Registered++
		default:
			s.Unknown++
		}
	}
	return s
}

// HasHacks reports whether any candidate in the report is a domain hack,
// which decides whether the table shows type and visual columns.
func (r *Report) HasHacks() bool {
	for _, m := range r.Meta {
		if m.Kind == check.KindHack {
			return true
		}
	}
	return false
}
