package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressSilentWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer

	// A plain buffer is not a character device, so nothing is written.
	p := newProgress(&buf, "checking", 3)
	p.tick()
	p.tick()
	p.done()

	assert.Empty(t, buf.String())
	assert.Equal(t, 2, p.seen)
}

func TestProgressRewritesLineWhenEnabled(t *testing.T) {
	var buf bytes.Buffer

	p := &progress{w: &buf, label: "checking", total: 2, enabled: true}
	p.tick()
	p.tick()
	p.done()

	out := buf.String()
	assert.Contains(t, out, "\rchecking 1/2")
	assert.Contains(t, out, "\rchecking 2/2")
	// done clears the line.
	assert.Contains(t, out, "\r")
}
