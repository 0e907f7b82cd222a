package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/IlyaGulya/gradle-mcp-server/internal/config"
	"github.com/IlyaGulya/gradle-mcp-server/internal/gradle"
)

func newTestTools(t *testing.T) *GradleTools {
	t.Helper()
	return NewGradleTools(gradle.NewConnector(t.TempDir(), nil), config.GetDefaultConfig())
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestGetTools(t *testing.T) {
	gt := newTestTools(t)
	tools := gt.GetTools()
	assert.Len(t, tools, 3)

	toolNames := make(map[string]bool)
	for _, tool := range tools {
		toolNames[tool.Name] = true
	}
	assert.True(t, toolNames["get_gradle_project_info"])
	assert.True(t, toolNames["execute_gradle_task"])
	assert.True(t, toolNames["run_gradle_tests"])
}

func TestHandleExecuteTask_RequiresTasks(t *testing.T) {
	gt := newTestTools(t)

	result, err := gt.HandleExecuteTask(context.Background(), callRequest(map[string]interface{}{}))
	assert.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = gt.HandleExecuteTask(context.Background(), callRequest(nil))
	assert.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetProjectInfo_NoGradle(t *testing.T) {
	// The temp dir carries no wrapper and the handler must surface the
	// failure as a tool error, never as a Go error.
	gt := newTestTools(t)

	result, err := gt.HandleGetProjectInfo(context.Background(), callRequest(nil))
	assert.NoError(t, err)
	if result.IsError {
		return
	}
	// A gradle binary on PATH may exist on the test host; in that case the
	// call still must not panic or return a Go error.
	assert.NotNil(t, result)
}

func TestStringSlice(t *testing.T) {
	args := map[string]interface{}{
		"tasks": []interface{}{"build", "test", 42},
	}
	assert.Equal(t, []string{"build", "test"}, stringSlice(args, "tasks"))
	assert.Nil(t, stringSlice(args, "missing"))
}

func TestStringMap(t *testing.T) {
	args := map[string]interface{}{
		"environment": map[string]interface{}{"JAVA_HOME": "/opt/jdk17", "BAD": 1},
	}
	assert.Equal(t, map[string]string{"JAVA_HOME": "/opt/jdk17"}, stringMap(args, "environment"))
	assert.Nil(t, stringMap(args, "missing"))
}

func TestScalarArgs(t *testing.T) {
	args := map[string]interface{}{
		"include_output_for_passed": true,
		"max_log_lines":             float64(25),
		"zero":                      float64(0),
	}
	assert.True(t, boolArg(args, "include_output_for_passed", false))
	assert.False(t, boolArg(args, "missing", false))
	assert.Equal(t, 25, intArg(args, "max_log_lines", 100))
	assert.Equal(t, 0, intArg(args, "zero", 100), "explicit zero disables the limit")
	assert.Equal(t, 100, intArg(args, "missing", 100))
}
