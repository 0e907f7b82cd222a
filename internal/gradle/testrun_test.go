package gradle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlyaGulya/gradle-mcp-server/internal/testagg"
)

// recordingListener captures translated events for inspection.
type recordingListener struct {
	starts   []testagg.StartEvent
	finishes []testagg.FinishEvent
	outputs  []testagg.OutputEvent
}

func (r *recordingListener) OnStart(ev testagg.StartEvent)   { r.starts = append(r.starts, ev) }
func (r *recordingListener) OnFinish(ev testagg.FinishEvent) { r.finishes = append(r.finishes, ev) }
func (r *recordingListener) OnOutput(ev testagg.OutputEvent) { r.outputs = append(r.outputs, ev) }

func TestEventStream_StartTranslation(t *testing.T) {
	l := &recordingListener{}
	s := newEventStream(l)

	s.consumeLine(`GRADLE-MCP-EVENT: {"type":"start","id":"root","displayName":"Gradle Test Run :test","jvmKind":"SUITE"}`)
	s.consumeLine(`GRADLE-MCP-EVENT: {"type":"start","id":"root/com.Foo:bar","parentId":"root","displayName":"bar","jvmKind":"ATOMIC","className":"com.Foo","methodName":"bar"}`)

	require.Len(t, l.starts, 2)
	assert.Equal(t, "root", l.starts[0].Handle.ID)
	assert.Nil(t, l.starts[0].Handle.Parent)

	child := l.starts[1]
	assert.Equal(t, "bar", child.DisplayName)
	assert.Equal(t, "ATOMIC", child.Metadata.JvmKind)
	require.NotNil(t, child.Handle.Parent)
	assert.Same(t, l.starts[0].Handle, child.Handle.Parent)
}

func TestEventStream_FinishTranslation(t *testing.T) {
	l := &recordingListener{}
	s := newEventStream(l)

	s.consumeLine(`GRADLE-MCP-EVENT: {"type":"finish","id":"t","outcome":"failed","failures":[{"message":"assertion failed","description":"org.opentest4j.AssertionFailedError"}]}`)

	require.Len(t, l.finishes, 1)
	fin := l.finishes[0]
	assert.Equal(t, testagg.OutcomeFailed, fin.Outcome)
	require.Len(t, fin.Failures, 1)
	assert.Equal(t, "assertion failed", fin.Failures[0].Message)
}

func TestEventStream_OutputNestedBelowTest(t *testing.T) {
	l := &recordingListener{}
	s := newEventStream(l)

	s.consumeLine(`GRADLE-MCP-EVENT: {"type":"start","id":"t","displayName":"t","jvmKind":"ATOMIC"}`)
	s.consumeLine(`GRADLE-MCP-EVENT: {"type":"output","id":"t","stream":"stderr","text":"oops"}`)

	require.Len(t, l.outputs, 1)
	out := l.outputs[0]
	assert.Equal(t, testagg.StreamStderr, out.Stream)
	assert.Equal(t, "oops", out.Text)
	// The output handle is a child of the test handle, never the test
	// handle itself.
	require.NotNil(t, out.Handle.Parent)
	assert.Equal(t, "t", out.Handle.Parent.ID)
}

func TestEventStream_BuildFailureChain(t *testing.T) {
	l := &recordingListener{}
	s := newEventStream(l)

	s.consumeLine(`GRADLE-MCP-EVENT: {"type":"buildFailure","failure":{"className":"org.gradle.tooling.BuildException","message":"outer","cause":{"className":"java.lang.IllegalStateException","message":"inner"}}}`)

	require.NotNil(t, s.buildFailure)
	assert.Equal(t, "org.gradle.tooling.BuildException", s.buildFailure.ClassName)
	require.NotNil(t, s.buildFailure.Cause)
	assert.Equal(t, "inner", s.buildFailure.Cause.Message)
}

func TestEventStream_IgnoresNonEventLines(t *testing.T) {
	l := &recordingListener{}
	s := newEventStream(l)

	s.consumeLine("> Task :app:test")
	s.consumeLine("BUILD SUCCESSFUL in 2s")
	s.consumeLine(`GRADLE-MCP-EVENT: not json at all`)

	assert.Empty(t, l.starts)
	assert.Empty(t, l.finishes)
	assert.Empty(t, l.outputs)
}

func TestEventStream_HandleGraphSharedAcrossEvents(t *testing.T) {
	l := &recordingListener{}
	s := newEventStream(l)

	// Finish arrives first; the start afterwards must resolve to the same
	// handle, with the parent link filled in.
	s.consumeLine(`GRADLE-MCP-EVENT: {"type":"finish","id":"x","outcome":"passed"}`)
	s.consumeLine(`GRADLE-MCP-EVENT: {"type":"start","id":"x","parentId":"p","displayName":"x","jvmKind":"ATOMIC"}`)

	require.Len(t, l.finishes, 1)
	require.Len(t, l.starts, 1)
	assert.Same(t, l.finishes[0].Handle, l.starts[0].Handle)
	require.NotNil(t, l.starts[0].Handle.Parent)
	assert.Equal(t, "p", l.starts[0].Handle.Parent.ID)
}

func TestMapOutcome(t *testing.T) {
	tests := []struct {
		in   string
		want testagg.Outcome
	}{
		{"passed", testagg.OutcomePassed},
		{"failed", testagg.OutcomeFailed},
		{"skipped", testagg.OutcomeSkipped},
		{"anything else", testagg.OutcomeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapOutcome(tt.in))
	}
}
