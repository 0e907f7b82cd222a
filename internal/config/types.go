package config

// Config is the full gradle-mcp-server configuration.
type Config struct {
	// ProjectDir is the Gradle project the server operates on. Defaults
	// to the working directory; the --project-dir flag overrides it.
	ProjectDir string `yaml:"projectDir,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`

	// GradleEnv is applied on top of the inherited environment for every
	// Gradle invocation (e.g. JAVA_HOME).
	GradleEnv map[string]string `yaml:"gradleEnv,omitempty"`

	TestOutput TestOutputConfig `yaml:"testOutput"`
	Server     ServerConfig     `yaml:"server"`
}

// TestOutputConfig bounds what test output is carried into tool responses.
type TestOutputConfig struct {
	// MaxLogLines caps output lines kept per test after noise filtering.
	// Zero or negative means unlimited.
	MaxLogLines int `yaml:"maxLogLines"`

	// IncludeOutputForPassed retains output for passing tests too.
	IncludeOutputForPassed bool `yaml:"includeOutputForPassed"`
}

// ServerConfig selects the MCP transport.
type ServerConfig struct {
	// Transport is "stdio" (default) or "sse".
	Transport string `yaml:"transport,omitempty"`
	Host      string `yaml:"host,omitempty"`
	Port      int    `yaml:"port,omitempty"`
}
