package testagg

import "fmt"

// TruncateLines bounds a line sequence to at most limit lines, keeping the
// head and tail and inserting a marker stating how many lines were omitted.
// A limit of zero or less means unlimited. When truncation applies the
// result has exactly limit+1 elements: head, marker, tail.
func TruncateLines(lines []string, limit int) []string {
	if limit <= 0 || len(lines) <= limit {
		return lines
	}
	if limit == 1 {
		return []string{truncationMarker(len(lines))}
	}

	head := limit / 2
	tail := limit - head
	out := make([]string, 0, limit+1)
	out = append(out, lines[:head]...)
	out = append(out, truncationMarker(len(lines)-head-tail))
	out = append(out, lines[len(lines)-tail:]...)
	return out
}

func truncationMarker(omitted int) string {
	return fmt.Sprintf("... (%d lines truncated) ...", omitted)
}
