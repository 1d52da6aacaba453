package app

import (
	"bytes"
	"strings"
	"sync"

	"fyne.io/fyne/v2/data/binding"
)

// logCapture mirrors the last lines written through the shared logger into
// the log pane binding. A write without a trailing newline is held until the
// line is completed by a later write.
type logCapture struct {
	mu      sync.Mutex
	target  binding.String
	keep    int
	lines   []string
	partial []byte
}

func newLogCapture(target binding.String, keep int) *logCapture {
	if keep <= 0 {
		keep = 1
	}
	return &logCapture{target: target, keep: keep}
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partial = append(c.partial, p...)
	added := false
	for {
		i := bytes.IndexByte(c.partial, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(c.partial[:i]), "\r")
		c.partial = c.partial[i+1:]
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.lines = append(c.lines, line)
		added = true
	}
	if !added {
		return len(p), nil
	}
	if over := len(c.lines) - c.keep; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
	_ = c.target.Set(strings.Join(c.lines, "\n"))
	return len(p), nil
}
