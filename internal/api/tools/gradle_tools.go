package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlyaGulya/gradle-mcp-server/internal/config"
	"github.com/IlyaGulya/gradle-mcp-server/internal/gradle"
	"github.com/IlyaGulya/gradle-mcp-server/internal/testagg"
)

// GradleTools provides the MCP tools for inspecting and running Gradle builds
type GradleTools struct {
	connector *gradle.Connector
	cfg       config.Config
}

// NewGradleTools creates the tool set around a project connector
func NewGradleTools(connector *gradle.Connector, cfg config.Config) *GradleTools {
	return &GradleTools{
		connector: connector,
		cfg:       cfg,
	}
}

// GetTools returns all Gradle tool declarations
func (gt *GradleTools) GetTools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("get_gradle_project_info",
			mcp.WithDescription("Get Gradle project metadata: root project name, subprojects and available tasks"),
		),
		mcp.NewTool("execute_gradle_task",
			mcp.WithDescription("Execute one or more Gradle tasks and return the captured output"),
			mcp.WithArray("tasks",
				mcp.Required(),
				mcp.Description("Task paths to run, e.g. ':app:assemble'"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithArray("arguments",
				mcp.Description("Extra Gradle command-line arguments"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithObject("environment",
				mcp.Description("Environment variables applied to the Gradle process"),
			),
		),
		mcp.NewTool("run_gradle_tests",
			mcp.WithDescription("Run Gradle tests and return a hierarchical result tree with per-test output"),
			mcp.WithArray("tasks",
				mcp.Description("Test tasks to run; defaults to ['test']"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithArray("test_patterns",
				mcp.Description("Test selection patterns passed as --tests, e.g. 'com.example.FooTest' or '*.FooTest.barMethod'"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithArray("arguments",
				mcp.Description("Extra Gradle command-line arguments"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithObject("environment",
				mcp.Description("Environment variables applied to the Gradle process"),
			),
			mcp.WithBoolean("include_output_for_passed",
				mcp.Description("Retain captured output for passing tests as well (default: failed tests only)"),
			),
			mcp.WithNumber("max_log_lines",
				mcp.Description(fmt.Sprintf("Per-test output line limit after noise filtering; 0 disables the limit (default %d)", config.DefaultMaxLogLines)),
			),
		),
	}
}

// HandleGetProjectInfo handles the get_gradle_project_info tool call
func (gt *GradleTools) HandleGetProjectInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := gt.connector.FetchProjectInfo(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch project info: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// HandleExecuteTask handles the execute_gradle_task tool call
func (gt *GradleTools) HandleExecuteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := req.Params.Arguments.(map[string]interface{})
	if !ok || argsMap == nil {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	tasks := stringSlice(argsMap, "tasks")
	if len(tasks) == 0 {
		return mcp.NewToolResultError("tasks is required"), nil
	}

	result, err := gt.connector.RunBuild(ctx, gradle.BuildRequest{
		Tasks: tasks,
		Args:  stringSlice(argsMap, "arguments"),
		Env:   stringMap(argsMap, "environment"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to execute tasks: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// HandleRunTests handles the run_gradle_tests tool call
func (gt *GradleTools) HandleRunTests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		argsMap = map[string]interface{}{}
	}

	runReq := gradle.TestRunRequest{
		Tasks:    stringSlice(argsMap, "tasks"),
		Patterns: stringSlice(argsMap, "test_patterns"),
		Args:     stringSlice(argsMap, "arguments"),
		Env:      stringMap(argsMap, "environment"),
	}
	_, stripped := gradle.SanitizeArgs(runReq.Args)

	opts := testagg.Options{
		IncludeOutputForPassed: boolArg(argsMap, "include_output_for_passed", gt.cfg.TestOutput.IncludeOutputForPassed),
		MaxOutputLines:         intArg(argsMap, "max_log_lines", gt.cfg.TestOutput.MaxLogLines),
		SelectionFilters:       runReq.SelectionFilters(),
		StrippedArguments:      stripped,
	}

	result, err := testagg.RunAggregation(ctx, gt.connector.TestEventSource(runReq), opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run tests: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func stringSlice(argsMap map[string]interface{}, key string) []string {
	raw, ok := argsMap[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringMap(argsMap map[string]interface{}, key string) map[string]string {
	raw, ok := argsMap[key].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func boolArg(argsMap map[string]interface{}, key string, fallback bool) bool {
	if v, ok := argsMap[key].(bool); ok {
		return v
	}
	return fallback
}

func intArg(argsMap map[string]interface{}, key string, fallback int) int {
	// JSON numbers arrive as float64
	if v, ok := argsMap[key].(float64); ok {
		return int(v)
	}
	return fallback
}
