package gradle

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/IlyaGulya/gradle-mcp-server/internal/testagg"
	"github.com/IlyaGulya/gradle-mcp-server/pkg/logging"
)

// TestRunRequest describes one test execution.
type TestRunRequest struct {
	// Tasks are the test tasks to run; defaults to ["test"].
	Tasks []string
	// Patterns are test-selection patterns, marshalled into --tests
	// arguments (class, method or wildcard form).
	Patterns []string
	// Args are extra command-line arguments; noisy ones are stripped.
	Args []string
	// Env is applied on top of the connector's environment.
	Env map[string]string
}

// SelectionFilters returns the requested filters for note generation.
func (r TestRunRequest) SelectionFilters() []string {
	return r.Patterns
}

// TestEventSource returns an event source that drives the requested test
// build and delivers its lifecycle events. The build runs with an injected
// init script that prints one JSON event per line; the source parses that
// protocol back into events.
func (c *Connector) TestEventSource(req TestRunRequest) testagg.EventSource {
	return &processEventSource{conn: c, req: req}
}

type processEventSource struct {
	conn *Connector
	req  TestRunRequest
}

func (s *processEventSource) Run(ctx context.Context, listener testagg.EventListener) (testagg.RunResult, error) {
	scriptPath, err := writeInitScript()
	if err != nil {
		return testagg.RunResult{}, err
	}
	defer os.Remove(scriptPath)

	tasks := s.req.Tasks
	if len(tasks) == 0 {
		tasks = []string{"test"}
	}

	clean, stripped := SanitizeArgs(s.req.Args)
	if len(stripped) > 0 {
		logging.Debug("Gradle", "Stripped noisy test arguments: %v", stripped)
	}

	args := append([]string{}, tasks...)
	args = append(args, "--init-script", scriptPath, "--console=plain")
	for _, p := range s.req.Patterns {
		args = append(args, "--tests", p)
	}
	args = append(args, clean...)

	cmd, err := s.conn.Command(ctx, args...)
	if err != nil {
		return testagg.RunResult{}, err
	}
	for k, v := range s.req.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return testagg.RunResult{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderrTail := newLineTail(tailLines)
	cmd.Stderr = stderrTail

	if err := cmd.Start(); err != nil {
		return testagg.RunResult{}, fmt.Errorf("failed to start gradle: %w", err)
	}

	stream := newEventStream(listener)
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLineBytes)
	for scanner.Scan() {
		stream.consumeLine(scanner.Text())
	}
	if scanErr := scanner.Err(); scanErr != nil {
		logging.Warn("Gradle", "Event stream ended early: %v", scanErr)
	}

	waitErr := cmd.Wait()
	if waitErr == nil {
		return testagg.RunResult{Success: true}, nil
	}

	if ctx.Err() != nil {
		return testagg.RunResult{}, fmt.Errorf("test build cancelled: %w", ctx.Err())
	}
	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return testagg.RunResult{}, fmt.Errorf("failed to run gradle: %w", waitErr)
	}

	// A non-zero exit with a delivered event stream is a build-level
	// failure, not an invocation error. Prefer the failure chain the init
	// script reported; fall back to a synthesized one.
	failure := stream.buildFailure
	if failure == nil {
		failure = &testagg.BuildFailure{
			ClassName: "org.gradle.tooling.BuildException",
			Message:   fmt.Sprintf("build exited with code %d: %s", exitErr.ExitCode(), stderrTail.Summary()),
		}
	}
	return testagg.RunResult{Success: false, Failure: failure}, nil
}

const (
	tailLines         = 20
	maxEventLineBytes = 4 * 1024 * 1024
)

// eventRecord is the wire shape of one init-script event line.
type eventRecord struct {
	Type        string              `json:"type"`
	ID          string              `json:"id"`
	ParentID    string              `json:"parentId"`
	DisplayName string              `json:"displayName"`
	JvmKind     string              `json:"jvmKind"`
	ClassName   string              `json:"className"`
	MethodName  string              `json:"methodName"`
	Outcome     string              `json:"outcome"`
	Failures    []failureRecord     `json:"failures"`
	Stream      string              `json:"stream"`
	Text        string              `json:"text"`
	Failure     *buildFailureRecord `json:"failure"`
}

type failureRecord struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

type buildFailureRecord struct {
	ClassName string              `json:"className"`
	Message   string              `json:"message"`
	Cause     *buildFailureRecord `json:"cause"`
}

// eventStream rebuilds the handle graph from event lines and forwards
// translated events to the listener. Lines arrive from a single scanner
// goroutine, so no locking is needed here.
type eventStream struct {
	listener     testagg.EventListener
	handles      map[string]*testagg.Handle
	buildFailure *testagg.BuildFailure
}

func newEventStream(listener testagg.EventListener) *eventStream {
	return &eventStream{
		listener: listener,
		handles:  make(map[string]*testagg.Handle),
	}
}

func (s *eventStream) consumeLine(line string) {
	payload, ok := strings.CutPrefix(line, eventMarker)
	if !ok {
		return
	}

	var rec eventRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		logging.Warn("Gradle", "Skipping malformed event line: %v", err)
		return
	}

	switch rec.Type {
	case "start":
		s.listener.OnStart(testagg.StartEvent{
			Handle:      s.handleFor(rec.ID, rec.ParentID),
			DisplayName: rec.DisplayName,
			Metadata: testagg.KindMetadata{
				JvmKind:    rec.JvmKind,
				ClassName:  rec.ClassName,
				MethodName: rec.MethodName,
			},
		})
	case "finish":
		failures := make([]testagg.Failure, 0, len(rec.Failures))
		for _, f := range rec.Failures {
			failures = append(failures, testagg.Failure{Message: f.Message, Description: f.Description})
		}
		s.listener.OnFinish(testagg.FinishEvent{
			Handle:   s.handleFor(rec.ID, ""),
			Outcome:  mapOutcome(rec.Outcome),
			Failures: failures,
		})
	case "output":
		// The producing descriptor is the test itself; output is
		// delivered on a child handle nested below it, matching how the
		// aggregator resolves output ownership.
		owner := s.handleFor(rec.ID, "")
		s.listener.OnOutput(testagg.OutputEvent{
			Handle: &testagg.Handle{ID: rec.ID + ":out", Parent: owner},
			Stream: mapStream(rec.Stream),
			Text:   rec.Text,
		})
	case "buildFailure":
		s.buildFailure = translateFailureChain(rec.Failure)
	default:
		logging.Debug("Gradle", "Ignoring unknown event type %q", rec.Type)
	}
}

// handleFor returns the shared handle for an ID, creating it (and its
// parent link) on first sight so out-of-order events still resolve.
func (s *eventStream) handleFor(id, parentID string) *testagg.Handle {
	if h, ok := s.handles[id]; ok {
		if h.Parent == nil && parentID != "" {
			h.Parent = s.handleFor(parentID, "")
		}
		return h
	}

	h := &testagg.Handle{ID: id}
	if parentID != "" {
		h.Parent = s.handleFor(parentID, "")
	}
	s.handles[id] = h
	return h
}

func mapOutcome(s string) testagg.Outcome {
	switch s {
	case "passed":
		return testagg.OutcomePassed
	case "failed":
		return testagg.OutcomeFailed
	case "skipped":
		return testagg.OutcomeSkipped
	default:
		return testagg.OutcomeUnknown
	}
}

func mapStream(s string) testagg.StreamKind {
	if s == "stderr" {
		return testagg.StreamStderr
	}
	return testagg.StreamStdout
}

func translateFailureChain(rec *buildFailureRecord) *testagg.BuildFailure {
	if rec == nil {
		return nil
	}
	return &testagg.BuildFailure{
		ClassName: rec.ClassName,
		Message:   rec.Message,
		Cause:     translateFailureChain(rec.Cause),
	}
}
