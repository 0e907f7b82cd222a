package testagg

// maxCauseDepth bounds the cause-chain walk. Serialized failure chains come
// from outside the process and cannot be trusted to terminate.
const maxCauseDepth = 20

// informativeFailureTypes name the build tool's specific failure classes.
// Finding one of these ends the walk immediately.
var informativeFailureTypes = map[string]bool{
	"org.gradle.api.tasks.VerificationException":                        true,
	"org.gradle.api.internal.tasks.testing.TestSuiteExecutionException": true,
	"org.gradle.process.internal.ExecException":                         true,
	"org.gradle.api.UncheckedIOException":                               true,
	"java.lang.OutOfMemoryError":                                        true,
}

// wrapperFailureTypes name the generic envelopes the build tool wraps real
// causes in. They are never selected as the answer (unless the whole chain
// consists of nothing else, in which case the original input is returned).
var wrapperFailureTypes = map[string]bool{
	"org.gradle.tooling.BuildException":                     true,
	"org.gradle.tooling.GradleConnectionException":          true,
	"org.gradle.api.GradleException":                        true,
	"org.gradle.api.tasks.TaskExecutionException":           true,
	"org.gradle.internal.exceptions.LocationAwareException": true,
	"org.gradle.execution.MultipleBuildFailures":            true,
	"java.lang.RuntimeException":                            true,
	"java.lang.Exception":                                   true,
	"java.lang.Throwable":                                   true,
}

// ResolveSignificantCause walks a run-level failure's cause chain looking
// for the most specific, informative cause. The walk keeps an identity set
// and a depth bound: a revisited link or an over-deep chain ends the walk
// with the best answer found so far, never a loop or a crash.
func ResolveSignificantCause(failure *BuildFailure) *BuildFailure {
	if failure == nil {
		return nil
	}

	best := failure
	visited := make(map[*BuildFailure]bool)

	current := failure
	for depth := 0; current != nil; depth++ {
		if visited[current] || depth > maxCauseDepth {
			return best
		}
		visited[current] = true

		if informativeFailureTypes[current.ClassName] {
			return current
		}
		if !wrapperFailureTypes[current.ClassName] {
			// Specific enough to report, but a better cause may be
			// nested deeper.
			best = current
		}
		current = current.Cause
	}
	return best
}
