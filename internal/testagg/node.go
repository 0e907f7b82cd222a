package testagg

import "sync"

// Kind classifies a node in the result tree.
type Kind string

const (
	KindSuite Kind = "suite"
	KindClass Kind = "class"
	KindTest  Kind = "test"
)

// Outcome is the terminal state of a node. It stays unknown until the
// node's finish event is processed.
type Outcome string

const (
	OutcomeUnknown Outcome = "unknown"
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// TestNode is one node of the result tree (suite, class or test). Nodes are
// created as events arrive, mutated until the build completes, then frozen
// by the finalize pass. Exported fields form the serialized result.
type TestNode struct {
	DisplayName    string      `json:"displayName"`
	Kind           Kind        `json:"kind"`
	Outcome        Outcome     `json:"outcome"`
	FailureMessage string      `json:"failureMessage,omitempty"`
	OutputLines    []string    `json:"outputLines,omitempty"`
	Children       []*TestNode `json:"children,omitempty"`

	// mu serializes child appends and outcome writes for this node only,
	// so unrelated branches of the tree never contend.
	mu sync.Mutex

	// linked records whether the node has been attached to a parent's
	// Children or to the root set.
	linked bool

	// placeholder marks nodes created defensively by an out-of-order
	// finish or output event, before their start event arrived.
	placeholder bool

	// rawOutput holds the unfiltered stream-tagged lines moved out of the
	// output buffer at finish time. Cleared by the finalize pass.
	rawOutput []string
}

func newNode(displayName string, kind Kind) *TestNode {
	return &TestNode{
		DisplayName: displayName,
		Kind:        kind,
		Outcome:     OutcomeUnknown,
	}
}

// appendChild adds a child under this node's lock.
func (n *TestNode) appendChild(child *TestNode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Children = append(n.Children, child)
}

// setOutcome performs the one-shot unknown -> terminal transition. A second
// finish for the same handle is ignored.
func (n *TestNode) setOutcome(outcome Outcome, failureMessage string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Outcome != OutcomeUnknown {
		return
	}
	n.Outcome = outcome
	if outcome == OutcomeFailed {
		n.FailureMessage = failureMessage
	}
}

// attachRawOutput stores buffered lines on the node for the finalize pass.
func (n *TestNode) attachRawOutput(lines []string) {
	if len(lines) == 0 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rawOutput = append(n.rawOutput, lines...)
}

// adopt fills in the identity of a placeholder node once its start event
// finally arrives.
func (n *TestNode) adopt(displayName string, kind Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.placeholder {
		return
	}
	n.DisplayName = displayName
	n.Kind = kind
	n.placeholder = false
}

// inferKind decides a node's kind once, at construction, from the event
// source's metadata. Ambiguous inputs default to suite.
func inferKind(md KindMetadata) Kind {
	switch {
	case md.JvmKind == "ATOMIC":
		return KindTest
	case md.ClassName != "" && md.MethodName != "":
		return KindTest
	case md.ClassName != "":
		return KindClass
	default:
		return KindSuite
	}
}
