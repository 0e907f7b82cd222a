package gradle

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/IlyaGulya/gradle-mcp-server/pkg/logging"
)

// noisyArguments are general-purpose arguments that add chatter or side
// channels without changing what the build does for a machine consumer.
// They are stripped from every invocation; the caller is told which ones
// were removed so the aggregator can note it.
var noisyArguments = []string{
	"--scan",
	"--profile",
	"--status",
	"--console=rich",
	"--console=verbose",
	"--console=auto",
}

// SanitizeArgs removes noisy arguments and returns the survivors along with
// the list of what was stripped, preserving order in both.
func SanitizeArgs(args []string) (clean []string, stripped []string) {
	for _, arg := range args {
		noisy := false
		for _, n := range noisyArguments {
			if arg == n {
				noisy = true
				break
			}
		}
		if noisy {
			stripped = append(stripped, arg)
			continue
		}
		clean = append(clean, arg)
	}
	return clean, stripped
}

// BuildRequest describes one task execution.
type BuildRequest struct {
	// Tasks are the task paths to run, e.g. ":app:assemble".
	Tasks []string
	// Args are extra command-line arguments; noisy ones are stripped.
	Args []string
	// Env is applied on top of the connector's environment.
	Env map[string]string
}

// BuildResult is the captured outcome of one task execution.
type BuildResult struct {
	Success       bool     `json:"success"`
	ExitCode      int      `json:"exitCode"`
	Output        string   `json:"output"`
	StrippedArgs  []string `json:"strippedArgs,omitempty"`
	ExecutedTasks []string `json:"executedTasks"`
}

// RunBuild executes the requested tasks and captures combined output. A
// failing build is a result, not an error; errors mean the process could
// not be run at all.
func (c *Connector) RunBuild(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	if len(req.Tasks) == 0 {
		return nil, errors.New("no tasks requested")
	}

	clean, stripped := SanitizeArgs(req.Args)
	args := append([]string{}, req.Tasks...)
	args = append(args, "--console=plain")
	args = append(args, clean...)

	cmd, err := c.Command(ctx, args...)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	logging.Info("Gradle", "Executing tasks %v", req.Tasks)
	output, runErr := cmd.CombinedOutput()

	result := &BuildResult{
		Success:       runErr == nil,
		Output:        strings.TrimRight(string(output), "\n"),
		StrippedArgs:  stripped,
		ExecutedTasks: req.Tasks,
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// The process never ran; surface that instead of a result.
			return nil, fmt.Errorf("failed to run gradle: %w", runErr)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("build cancelled: %w", ctx.Err())
		}
		result.ExitCode = exitErr.ExitCode()
		logging.Warn("Gradle", "Build failed with exit code %d", result.ExitCode)
	}

	return result, nil
}
