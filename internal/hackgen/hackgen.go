// Package hackgen generates domain hacks: splits of a word where the TLD
// spells the tail of it, so the name visually reads as the word.
package hackgen

import (
	"sort"
	"strings"
)

// Hack pairs a candidate domain with its visual reading.
type Hack struct {
	Domain string
	Visual string
}

// SuffixHacks finds TLDs matching the end of the word. "kostick" with the
// "ck" TLD yields "kosti.ck", reading as "kostick".
func SuffixHacks(word string, tlds []string) []Hack {
	word = strings.ToLower(word)
	var hacks []Hack
	for _, tld := range tlds {
		if len(tld) >= len(word) || !strings.HasSuffix(word, tld) {
			continue
		}
		prefix := word[:len(word)-len(tld)]
		if prefix == "" {
			continue
		}
		hacks = append(hacks, Hack{
			Domain: prefix + "." + tld,
			Visual: prefix + tld,
		})
	}
	return hacks
}

// InteriorHacks finds TLDs occurring inside the word, excluding suffix
// positions (those belong to SuffixHacks). "sasha" with the "sh" TLD
// yields "sa.sh", reading as "sash". Deduplicated by domain.
func InteriorHacks(word string, tlds []string) []Hack {
	word = strings.ToLower(word)
	var hacks []Hack
	seen := make(map[string]bool)
	for _, tld := range tlds {
		if tld == "" {
			continue
		}
		start := 0
		for {
			pos := strings.Index(word[start:], tld)
			if pos < 0 {
				break
			}
			pos += start
			start = pos + 1

			if pos+len(tld) == len(word) {
				continue // suffix match
			}
			if pos == 0 {
				continue // needs at least one char before the dot
			}

			prefix := word[:pos]
			domain := prefix + "." + tld
			if seen[domain] {
				continue
			}
			seen[domain] = true
			hacks = append(hacks, Hack{Domain: domain, Visual: prefix + tld})
		}
	}
	return hacks
}

// Generate combines suffix and interior hacks, deduplicated by domain and
// sorted by domain name.
func Generate(word string, tlds []string) []Hack {
	seen := make(map[string]bool)
	var combined []Hack
	for _, h := range append(SuffixHacks(word, tlds), InteriorHacks(word, tlds)...) {
		if seen[h.Domain] {
			continue
		}
		seen[h.Domain] = true
		combined = append(combined, h)
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].Domain < combined[j].Domain
	})
	return combined
}
