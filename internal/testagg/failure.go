package testagg

import "strings"

// UnknownFailureReason is reported when a failed test carries no failure
// records at all.
const UnknownFailureReason = "unknown failure reason"

const (
	maxFailureMessageLen = 2048
	maxDescriptionLines  = 5
)

// failureKeywords rank a failure record as the primary one. Matched
// case-insensitively as substrings of the record's message or description.
var failureKeywords = []string{
	"assert",
	"expected",
	"comparison",
	"exception",
	"error",
}

// ClassifyFailure selects the most relevant failure record for one test and
// formats it. Records mentioning an assertion, comparison or exception win;
// otherwise the first record is used.
func ClassifyFailure(failures []Failure) string {
	if len(failures) == 0 {
		return UnknownFailureReason
	}

	chosen := failures[0]
	for _, f := range failures {
		if containsFailureKeyword(f.Message) || containsFailureKeyword(f.Description) {
			chosen = f
			break
		}
	}
	return formatFailure(chosen)
}

func containsFailureKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range failureKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// formatFailure renders the chosen record: the message's first line (with an
// ellipsis marker if it had more), plus up to maxDescriptionLines indented
// description lines when the description adds information the message does
// not already contain.
func formatFailure(f Failure) string {
	message := strings.TrimSpace(f.Message)
	description := strings.TrimSpace(f.Description)

	if message == "" {
		if description == "" {
			return UnknownFailureReason
		}
		// Promote the description when the record carries no message.
		message = description
		description = ""
	}

	var b strings.Builder
	first, hadMore := firstLine(message)
	b.WriteString(first)
	if hadMore {
		b.WriteString(" ...")
	}

	if description != "" && !messageCovers(message, description) {
		descLines := nonBlankLines(description)
		for i, line := range descLines {
			if i == maxDescriptionLines {
				b.WriteString("\n    ...")
				break
			}
			b.WriteString("\n    ")
			b.WriteString(line)
		}
	}

	out := b.String()
	if len(out) > maxFailureMessageLen {
		out = out[:maxFailureMessageLen]
	}
	return out
}

// messageCovers reports whether the description's normalized leading line is
// already contained in the message, in which case appending it adds nothing.
func messageCovers(message, description string) bool {
	prefix, _ := firstLine(description)
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return true
	}
	return strings.Contains(strings.ToLower(message), prefix)
}

func firstLine(s string) (line string, hadMore bool) {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx]), true
	}
	return s, false
}

func nonBlankLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
