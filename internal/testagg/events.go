package testagg

import "context"

// Handle identifies one operation instance in the build's event stream.
// It is opaque to the aggregator: the ID is used only as a map key, and
// Parent only for upward lookups. The handle graph is assumed acyclic.
type Handle struct {
	ID     string
	Parent *Handle
}

// StreamKind tags which process stream an output event was captured from.
type StreamKind string

const (
	StreamStdout StreamKind = "stdout"
	StreamStderr StreamKind = "stderr"
)

// KindMetadata carries the event source's classification hints for a started
// operation. JvmKind is the build tool's own kind marker ("ATOMIC" for a
// single test method, "SUITE" for a composite), ClassName/MethodName identify
// JVM test operations when present.
type KindMetadata struct {
	JvmKind    string
	ClassName  string
	MethodName string
}

// StartEvent announces that an operation began.
type StartEvent struct {
	Handle      *Handle
	DisplayName string
	Metadata    KindMetadata
}

// FinishEvent announces that an operation completed. Outcome is the event
// source's verdict; Failures holds zero or more failure records (a test may
// report an assertion failure plus a cleanup exception).
type FinishEvent struct {
	Handle   *Handle
	Outcome  Outcome
	Failures []Failure
}

// OutputEvent carries text captured from a test's stdout or stderr. The
// handle is never a test handle itself; it is nested somewhere below one.
type OutputEvent struct {
	Handle *Handle
	Stream StreamKind
	Text   string
}

// Failure is one failure record reported for a finished test.
type Failure struct {
	Message     string
	Description string
}

// BuildFailure is one link of the run-level failure cause chain reported
// when the build as a whole fails. Unlike the handle graph, cause chains
// come from an external serialized form and may contain cycles.
type BuildFailure struct {
	ClassName string
	Message   string
	Cause     *BuildFailure
}

// EventListener receives the three event kinds. Callbacks may be invoked
// concurrently from multiple producer goroutines; a handle's own start is
// delivered before its own finish, nothing else is ordered.
type EventListener interface {
	OnStart(ev StartEvent)
	OnFinish(ev FinishEvent)
	OnOutput(ev OutputEvent)
}

// RunResult is the build's own verdict, available only after the invocation
// returns. Failure carries the triggering cause chain when Success is false,
// if the event source was able to report one.
type RunResult struct {
	Success bool
	Failure *BuildFailure
}

// EventSource drives one synchronous build invocation, delivering events to
// the listener while it runs. A non-nil error means the invocation itself
// failed (process or connection trouble) and no result tree should be
// produced.
type EventSource interface {
	Run(ctx context.Context, listener EventListener) (RunResult, error)
}
