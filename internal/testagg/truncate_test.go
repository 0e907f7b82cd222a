package testagg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}

func TestTruncateLines_HeadAndTail(t *testing.T) {
	lines := makeLines(10)

	out := TruncateLines(lines, 4)

	require.Len(t, out, 5) // head + marker + tail
	assert.Equal(t, []string{
		"line 1",
		"line 2",
		"... (6 lines truncated) ...",
		"line 9",
		"line 10",
	}, out)
}

func TestTruncateLines_OddLimitSplit(t *testing.T) {
	lines := makeLines(20)

	out := TruncateLines(lines, 5)

	// head = 5/2 = 2, tail = 3, omitted = 20-2-3 = 15
	require.Len(t, out, 6)
	assert.Equal(t, "line 1", out[0])
	assert.Equal(t, "line 2", out[1])
	assert.Equal(t, "... (15 lines truncated) ...", out[2])
	assert.Equal(t, "line 18", out[3])
	assert.Equal(t, "line 20", out[5])
}

func TestTruncateLines_MarkerCountProperty(t *testing.T) {
	for _, n := range []int{3, 7, 10, 51, 200} {
		for _, limit := range []int{2, 3, 4, 9, 50} {
			if n <= limit {
				continue
			}
			out := TruncateLines(makeLines(n), limit)
			require.Len(t, out, limit+1, "n=%d limit=%d", n, limit)
			assert.Equal(t, fmt.Sprintf("... (%d lines truncated) ...", n-limit), out[limit/2], "n=%d limit=%d", n, limit)
		}
	}
}

func TestTruncateLines_Identity(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		limit int
	}{
		{"unlimited zero", 10, 0},
		{"unlimited negative", 10, -5},
		{"under limit", 3, 10},
		{"exactly at limit", 10, 10},
		{"empty input", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := makeLines(tt.n)
			assert.Equal(t, lines, TruncateLines(lines, tt.limit))
		})
	}
}

func TestTruncateLines_LimitOne(t *testing.T) {
	out := TruncateLines(makeLines(7), 1)

	require.Len(t, out, 1)
	assert.Equal(t, "... (7 lines truncated) ...", out[0])
}
