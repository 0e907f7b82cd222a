package gradle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTail_KeepsOnlyTail(t *testing.T) {
	tail := newLineTail(3)
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(tail, "line %d\n", i)
	}

	assert.Equal(t, "... line 8 | line 9 | line 10", tail.Summary())
}

func TestLineTail_PartialWrites(t *testing.T) {
	tail := newLineTail(5)
	tail.Write([]byte("first ha"))
	tail.Write([]byte("lf\nsecond\n"))

	assert.Equal(t, "first half | second", tail.Summary())
}

func TestLineTail_Empty(t *testing.T) {
	tail := newLineTail(5)

	assert.Equal(t, "no diagnostic output", tail.Summary())
}

func TestLineTail_UnterminatedLastLine(t *testing.T) {
	tail := newLineTail(5)
	tail.Write([]byte("no newline at end"))

	assert.Equal(t, "no newline at end", tail.Summary())
}
