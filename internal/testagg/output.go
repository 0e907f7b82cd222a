package testagg

import (
	"strings"
	"sync"

	"github.com/IlyaGulya/gradle-mcp-server/pkg/logging"
)

// OutputAssociator buffers raw output lines per in-flight atomic test.
// Output events arrive on handles nested below the test handle, so each
// event is attributed to the nearest registered test ancestor. Lines are
// kept raw here; noise filtering and truncation happen at finalize time
// when the full set is known.
type OutputAssociator struct {
	registry *Registry
	buffers  sync.Map // test handle ID -> *outputBuffer
}

// outputBuffer is a per-test growable line buffer with its own lock, so
// concurrent output for unrelated tests never contends.
type outputBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *outputBuffer) append(lines []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, lines...)
}

func (b *outputBuffer) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.lines
	b.lines = nil
	return out
}

func NewOutputAssociator(registry *Registry) *OutputAssociator {
	return &OutputAssociator{registry: registry}
}

// OnOutput attributes the event's text to its owning test. Output with no
// registered test ancestor is dropped with a diagnostic trace; that is not
// an error.
func (a *OutputAssociator) OnOutput(ev OutputEvent) {
	owner := a.registry.NearestTestHandle(ev.Handle)
	if owner == "" {
		logging.Debug("TestAgg", "Dropping output with no test ancestor (handle %s): %q", ev.Handle.ID, ev.Text)
		return
	}

	tag := "[" + string(ev.Stream) + "]"
	raw := strings.Split(strings.TrimSuffix(ev.Text, "\n"), "\n")
	tagged := make([]string, len(raw))
	for i, line := range raw {
		tagged[i] = tag + " " + line
	}

	buf, _ := a.buffers.LoadOrStore(owner, &outputBuffer{})
	buf.(*outputBuffer).append(tagged)
}

// Take removes and returns the buffered lines for a test handle. Called when
// the test's finish event is processed.
func (a *OutputAssociator) Take(testID string) []string {
	v, ok := a.buffers.LoadAndDelete(testID)
	if !ok {
		return nil
	}
	return v.(*outputBuffer).drain()
}

// DrainRemaining hands any leftover buffers (output that arrived after its
// test's finish was processed) to their nodes. Only called from the
// single-threaded finalize pass.
func (a *OutputAssociator) DrainRemaining() {
	a.buffers.Range(func(k, v interface{}) bool {
		id := k.(string)
		if node, ok := a.registry.Lookup(id); ok {
			node.attachRawOutput(v.(*outputBuffer).drain())
		}
		a.buffers.Delete(id)
		return true
	})
}
