package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// progress is a single-line stderr counter. Callbacks from the probe and
// verify stages are already serialized, so tick needs no lock of its own.
// The carriage-return rewriting only happens on a terminal; piped stderr
// stays clean for log output.
type progress struct {
	w       io.Writer
	label   string
	total   int
	seen    int
	enabled bool
}

func newProgress(w io.Writer, label string, total int) *progress {
	return &progress{w: w, label: label, total: total, enabled: isTerminalWriter(w)}
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isCharDevice(f)
}

func (p *progress) tick() {
	p.seen++
	if !p.enabled {
		return
	}
	fmt.Fprintf(p.w, "\r%s %d/%d", p.label, p.seen, p.total)
}

func (p *progress) done() {
	if !p.enabled || p.seen == 0 {
		return
	}
	width := len(p.label) + len(fmt.Sprintf(" %d/%d", p.total, p.total))
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", width))
}

// normalizeTLD strips a leading dot and lowercases, so "--tld .IO" and
// "--tld io" mean the same thing.
func normalizeTLD(tld string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tld), "."))
}
