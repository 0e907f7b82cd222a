package testagg

import (
	"regexp"

	"github.com/acarl005/stripansi"
)

// noiseRule classifies one category of non-informative build chatter. Rules
// match against whole stream-tagged lines, in order; a matching line is
// dropped entirely.
type noiseRule struct {
	category string
	pattern  *regexp.Regexp
}

// noiseRules is the fixed rule set. Gradle interleaves its own progress and
// statistics chatter with test output, so captured streams need scrubbing
// before they are worth returning to a machine consumer.
var noiseRules = []noiseRule{
	{"blank lines", regexp.MustCompile(`^\[std(?:out|err)\]\s*$`)},
	{"task progress", regexp.MustCompile(`^\[std(?:out|err)\] > Task :`)},
	{"dependency downloads", regexp.MustCompile(`^\[std(?:out|err)\] Download(?:ing|ed)? https?://`)},
	{"build cache statistics", regexp.MustCompile(`^\[stdout\] \d+ actionable tasks?: .*$`)},
	{"cache hit markers", regexp.MustCompile(`^\[std(?:out|err)\] (?:FROM-CACHE|UP-TO-DATE|NO-SOURCE|CACHED)$`)},
	{"test worker lifecycle", regexp.MustCompile(`^\[std(?:out|err)\] Gradle Test (?:Executor|Run) .*(?:STARTED|PASSED|FAILED|SKIPPED)?$`)},
	{"deprecation notices", regexp.MustCompile(`^\[stderr\] Note: .* (?:uses or overrides a deprecated API|uses unchecked or unsafe operations)\.$`)},
	{"classpath inheritance notices", regexp.MustCompile(`^\[std(?:out|err)\] .*class(?:path)? (?:is|will be) inherited.*$`)},
}

// FilterNoise drops lines matching any noise rule, preserving the order of
// the survivors, and reports which categories actually fired. ANSI escape
// sequences are stripped before matching so colored Gradle output does not
// slip past the patterns.
func FilterNoise(lines []string) (kept []string, categories []string) {
	seen := make(map[string]bool)
	for _, line := range lines {
		plain := stripansi.Strip(line)
		matched := false
		for _, rule := range noiseRules {
			if rule.pattern.MatchString(plain) {
				matched = true
				if !seen[rule.category] {
					seen[rule.category] = true
					categories = append(categories, rule.category)
				}
				break
			}
		}
		if !matched {
			kept = append(kept, plain)
		}
	}
	return kept, categories
}
