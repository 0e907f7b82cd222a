package gradle

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/IlyaGulya/gradle-mcp-server/pkg/logging"
)

// Connector locates the Gradle entry point for one project directory and
// builds process invocations against it. The project's own wrapper script
// is preferred over whatever gradle happens to be on PATH, so builds run
// with the Gradle version the project pins.
type Connector struct {
	projectDir string
	env        map[string]string
}

// NewConnector creates a connector rooted at projectDir. Extra environment
// variables are applied on top of the inherited environment for every
// invocation.
func NewConnector(projectDir string, env map[string]string) *Connector {
	return &Connector{
		projectDir: projectDir,
		env:        env,
	}
}

// ProjectDir returns the directory builds run in.
func (c *Connector) ProjectDir() string {
	return c.projectDir
}

// Executable resolves the Gradle executable for this project: the wrapper
// script when the project carries one, otherwise gradle from PATH.
func (c *Connector) Executable() (string, error) {
	wrapper := filepath.Join(c.projectDir, wrapperScript)
	if info, err := os.Stat(wrapper); err == nil && !info.IsDir() {
		return wrapper, nil
	}

	path, err := exec.LookPath("gradle")
	if err != nil {
		return "", fmt.Errorf("no %s in %s and no gradle on PATH: %w", wrapperScript, c.projectDir, err)
	}
	return path, nil
}

const wrapperScript = "gradlew"

// Command prepares a Gradle invocation. The process gets its own group so
// a cancelled build can be torn down without orphaning test workers.
func (c *Connector) Command(ctx context.Context, args ...string) (*exec.Cmd, error) {
	executable, err := c.Executable()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = c.projectDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Env = os.Environ()
	for k, v := range c.env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	logging.Debug("Gradle", "Prepared invocation: %s %v (dir %s)", executable, args, c.projectDir)
	return cmd, nil
}
