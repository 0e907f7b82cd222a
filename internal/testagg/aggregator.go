package testagg

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/IlyaGulya/gradle-mcp-server/pkg/logging"
)

// Options configure one aggregation run.
type Options struct {
	// IncludeOutputForPassed retains captured output for passing tests too.
	// By default only failed tests carry output, which bounds the response
	// around the dominant case.
	IncludeOutputForPassed bool

	// MaxOutputLines is the per-test line limit applied after noise
	// filtering. Zero or negative means unlimited.
	MaxOutputLines int

	// SelectionFilters echoes which test-selection filters were requested.
	// Used only for note generation; the filtering itself belongs to the
	// build invocation.
	SelectionFilters []string

	// StrippedArguments lists noisy invocation arguments that were removed
	// before the build ran, for note generation.
	StrippedArguments []string
}

// Result is the finalized outcome of one aggregation run.
type Result struct {
	Roots          []*TestNode `json:"tests"`
	OverallSuccess bool        `json:"overallSuccess"`
	Notes          string      `json:"notes"`
}

// BuildInvocationError reports that the build invocation itself failed
// (process or connection trouble) before a result tree could be produced.
type BuildInvocationError struct {
	Summary string
	Err     error
}

func (e *BuildInvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Summary, e.Err)
	}
	return e.Summary
}

func (e *BuildInvocationError) Unwrap() error { return e.Err }

// Aggregator consumes one build's test lifecycle event stream and
// reconstructs the result tree. Event callbacks are safe for concurrent
// invocation; Finalize must only be called after the event source returned
// and no producers remain.
type Aggregator struct {
	runID    string
	opts     Options
	registry *Registry
	output   *OutputAssociator
}

func New(opts Options) *Aggregator {
	registry := NewRegistry()
	return &Aggregator{
		runID:    uuid.NewString(),
		opts:     opts,
		registry: registry,
		output:   NewOutputAssociator(registry),
	}
}

// OnStart registers the started operation and links it into the tree.
func (a *Aggregator) OnStart(ev StartEvent) {
	defer a.recoverEvent("start")
	if ev.Handle == nil {
		logging.Warn("TestAgg", "Skipping start event without handle (run %s)", a.runID)
		return
	}
	a.registry.OnStart(ev)
}

// OnFinish records the outcome and, for atomic tests, claims the buffered
// output so late events for other tests cannot bleed into it.
func (a *Aggregator) OnFinish(ev FinishEvent) {
	defer a.recoverEvent("finish")
	if ev.Handle == nil {
		logging.Warn("TestAgg", "Skipping finish event without handle (run %s)", a.runID)
		return
	}

	var failureMessage string
	if ev.Outcome == OutcomeFailed {
		failureMessage = ClassifyFailure(ev.Failures)
	}

	node := a.registry.OnFinish(ev, failureMessage)
	if node.Kind == KindTest {
		node.attachRawOutput(a.output.Take(ev.Handle.ID))
	}
}

// OnOutput hands the event to the output associator.
func (a *Aggregator) OnOutput(ev OutputEvent) {
	defer a.recoverEvent("output")
	if ev.Handle == nil {
		logging.Warn("TestAgg", "Skipping output event without handle (run %s)", a.runID)
		return
	}
	a.output.OnOutput(ev)
}

// recoverEvent contains a malformed event to that event alone. One bad
// event must never lose the rest of the tree.
func (a *Aggregator) recoverEvent(kind string) {
	if r := recover(); r != nil {
		logging.Error("TestAgg", fmt.Errorf("%v", r), "Recovered while processing %s event (run %s)", kind, a.runID)
	}
}

// Finalize runs single-threaded after the build completed: applies the
// output retention policy, clears transient buffers, sorts the tree and
// assembles the diagnostic notes.
func (a *Aggregator) Finalize(run RunResult) *Result {
	a.output.DrainRemaining()

	appliedCategories := make([]string, 0)
	seenCategory := make(map[string]bool)

	a.registry.Each(func(id string, node *TestNode) {
		raw := node.rawOutput
		node.rawOutput = nil

		retain := node.Outcome == OutcomeFailed || a.opts.IncludeOutputForPassed
		if !retain || len(raw) == 0 {
			node.OutputLines = nil
			return
		}

		filtered, categories := FilterNoise(raw)
		for _, c := range categories {
			if !seenCategory[c] {
				seenCategory[c] = true
				appliedCategories = append(appliedCategories, c)
			}
		}
		node.OutputLines = TruncateLines(filtered, a.opts.MaxOutputLines)
	})

	roots := a.registry.Roots()
	sortTree(roots)

	hasFailed := false
	for _, root := range roots {
		if treeHasFailure(root) {
			hasFailed = true
			break
		}
	}

	sort.Strings(appliedCategories)
	result := &Result{
		Roots: roots,
		// The tree is trusted over the build's own success flag when the
		// tree shows a failure the build did not admit to.
		OverallSuccess: run.Success && !hasFailed,
		Notes:          a.buildNotes(run, hasFailed, appliedCategories),
	}

	logging.Debug("TestAgg", "Finalized run %s: %d roots, overall success %t", a.runID, len(roots), result.OverallSuccess)
	return result
}

// sortTree re-sorts every child list and the root set by display name. The
// sort is stable, so siblings sharing a display name keep insertion order;
// ordering among such duplicates is a known limitation.
func sortTree(nodes []*TestNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].DisplayName < nodes[j].DisplayName
	})
	for _, n := range nodes {
		sortTree(n.Children)
	}
}

func treeHasFailure(node *TestNode) bool {
	if node.Outcome == OutcomeFailed {
		return true
	}
	for _, child := range node.Children {
		if treeHasFailure(child) {
			return true
		}
	}
	return false
}

func (a *Aggregator) buildNotes(run RunResult, hasFailed bool, categories []string) string {
	var notes []string

	if len(a.opts.StrippedArguments) > 0 {
		notes = append(notes, fmt.Sprintf("Stripped noisy arguments from the invocation: %s.", strings.Join(a.opts.StrippedArguments, ", ")))
	}
	if len(a.opts.SelectionFilters) > 0 {
		notes = append(notes, fmt.Sprintf("Test selection filters requested: %s.", strings.Join(a.opts.SelectionFilters, ", ")))
	}
	if len(categories) > 0 {
		notes = append(notes, fmt.Sprintf("Noise filtered from captured output: %s.", strings.Join(categories, ", ")))
	}

	if a.opts.IncludeOutputForPassed {
		notes = append(notes, "Output retained for passed tests as well.")
	} else {
		notes = append(notes, "Output retained only for failed tests.")
	}

	if a.opts.MaxOutputLines > 0 {
		notes = append(notes, fmt.Sprintf("Output truncated to at most %d lines per test.", a.opts.MaxOutputLines))
	} else {
		notes = append(notes, "Output line limit: unlimited.")
	}

	switch {
	case !run.Success:
		if cause := ResolveSignificantCause(run.Failure); cause != nil {
			notes = append(notes, fmt.Sprintf("Build failed: %s: %s.", cause.ClassName, cause.Message))
		} else {
			notes = append(notes, "Build reported failure without a cause.")
		}
		if !hasFailed {
			notes = append(notes, "Inconsistent state: build reported failure but no test in the tree failed.")
		}
	case hasFailed:
		notes = append(notes, "Inconsistent state: build reported success but the tree contains failed tests; trusting the tree.")
	}

	return strings.Join(notes, "\n")
}

// RunAggregation drives one build through the event source and returns the
// finalized tree. Invocation failures surface as a *BuildInvocationError
// with no partial tree; callers never see an exception-like escape.
func RunAggregation(ctx context.Context, source EventSource, opts Options) (*Result, error) {
	agg := New(opts)

	run, err := source.Run(ctx, agg)
	if err != nil {
		return nil, &BuildInvocationError{Summary: "build invocation failed", Err: err}
	}

	return agg.Finalize(run), nil
}
