package gradle

import (
	"strings"
	"sync"
)

// lineTail is an io.Writer that keeps only the last N lines written to it,
// so a representative snippet of a failed build's stderr can be attached to
// the failure summary without retaining the whole log in memory.
type lineTail struct {
	maxLines int

	mu      sync.Mutex
	partial string
	lines   []string
	dropped bool
}

func newLineTail(maxLines int) *lineTail {
	return &lineTail{maxLines: maxLines}
}

func (t *lineTail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	text := t.partial + string(p)
	parts := strings.Split(text, "\n")
	t.partial = parts[len(parts)-1]

	for _, line := range parts[:len(parts)-1] {
		t.lines = append(t.lines, line)
	}
	if len(t.lines) > t.maxLines {
		t.lines = t.lines[len(t.lines)-t.maxLines:]
		t.dropped = true
	}
	return len(p), nil
}

// Summary flattens the retained tail into a single diagnostic string.
func (t *lineTail) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	if t.partial != "" {
		lines = append(append([]string{}, lines...), t.partial)
	}

	var kept []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return "no diagnostic output"
	}

	out := strings.Join(kept, " | ")
	if t.dropped {
		out = "... " + out
	}
	return out
}
