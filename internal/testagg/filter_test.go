package testagg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterNoise_DropsKnownChatter(t *testing.T) {
	lines := []string{
		"[stdout] ok",
		"[stdout] ",
		"[stdout] > Task :app:test",
		"[stdout] 5 actionable tasks: 3 executed, 2 up-to-date",
		"[stderr] Downloading https://repo.maven.apache.org/maven2/junit/junit-4.13.2.jar",
		"[stderr] failure detail",
		"[stdout] UP-TO-DATE",
	}

	kept, categories := FilterNoise(lines)

	assert.Equal(t, []string{"[stdout] ok", "[stderr] failure detail"}, kept)
	assert.ElementsMatch(t, []string{
		"blank lines",
		"task progress",
		"build cache statistics",
		"dependency downloads",
		"cache hit markers",
	}, categories)
}

func TestFilterNoise_PreservesOrder(t *testing.T) {
	lines := []string{
		"[stdout] first",
		"[stdout] > Task :compileJava",
		"[stdout] second",
		"[stderr] third",
	}

	kept, _ := FilterNoise(lines)

	assert.Equal(t, []string{"[stdout] first", "[stdout] second", "[stderr] third"}, kept)
}

func TestFilterNoise_StripsANSIBeforeMatching(t *testing.T) {
	// Colored task progress must not slip past the patterns.
	lines := []string{"\x1b[1m[stdout] > Task :app:test\x1b[0m"}

	kept, categories := FilterNoise(lines)

	assert.Empty(t, kept)
	assert.Equal(t, []string{"task progress"}, categories)
}

func TestFilterNoise_NoMatches(t *testing.T) {
	lines := []string{"[stdout] plain output"}

	kept, categories := FilterNoise(lines)

	assert.Equal(t, lines, kept)
	assert.Empty(t, categories)
}
