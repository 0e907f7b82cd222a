package gradle

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// TaskInfo is one runnable task as reported by the build.
type TaskInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProjectInfo is the metadata surface returned to callers.
type ProjectInfo struct {
	Name        string     `json:"name"`
	Dir         string     `json:"dir"`
	Subprojects []string   `json:"subprojects,omitempty"`
	Tasks       []TaskInfo `json:"tasks,omitempty"`
}

// FetchProjectInfo retrieves project metadata by running the build tool's
// own reporting tasks and parsing their output.
func (c *Connector) FetchProjectInfo(ctx context.Context) (*ProjectInfo, error) {
	projects, err := c.quietOutput(ctx, "projects")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	info := parseProjectsOutput(projects)
	info.Dir = c.projectDir

	tasks, err := c.quietOutput(ctx, "tasks", "--all")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	info.Tasks = parseTasksOutput(tasks)

	return info, nil
}

func (c *Connector) quietOutput(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-q", "--console=plain"}, args...)
	cmd, err := c.Command(ctx, full...)
	if err != nil {
		return "", err
	}
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var (
	rootProjectRe = regexp.MustCompile(`Root project '([^']+)'`)
	subprojectRe  = regexp.MustCompile(`[+\\]--- Project '(:[^']+)'`)
	taskLineRe    = regexp.MustCompile(`^([A-Za-z][\w:]*)(?: - (.+))?$`)
)

// parseProjectsOutput extracts the root project name and subproject paths
// from the `projects` report.
func parseProjectsOutput(output string) *ProjectInfo {
	info := &ProjectInfo{}
	for _, line := range strings.Split(output, "\n") {
		if m := rootProjectRe.FindStringSubmatch(line); m != nil {
			info.Name = m[1]
			continue
		}
		if m := subprojectRe.FindStringSubmatch(line); m != nil {
			info.Subprojects = append(info.Subprojects, m[1])
		}
	}
	return info
}

// parseTasksOutput extracts "name - description" entries from the `tasks`
// report, skipping the report's own headers and rulers.
func parseTasksOutput(output string) []TaskInfo {
	var tasks []TaskInfo
	seen := make(map[string]bool)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "-") || strings.HasSuffix(line, "tasks") {
			continue
		}
		m := taskLineRe.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		tasks = append(tasks, TaskInfo{Name: m[1], Description: m[2]})
	}
	return tasks
}
