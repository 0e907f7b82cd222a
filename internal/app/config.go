package app

import (
	"github.com/IlyaGulya/gradle-mcp-server/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Transport settings
	SSE  bool
	Host string
	Port int

	// ProjectDir overrides the configured Gradle project directory
	ProjectDir string

	// Version is reported to MCP clients
	Version string

	// ServerConfig is the loaded file configuration
	ServerConfig *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug, sse bool, host string, port int, projectDir, version string) *Config {
	return &Config{
		Debug:      debug,
		SSE:        sse,
		Host:       host,
		Port:       port,
		ProjectDir: projectDir,
		Version:    version,
	}
}
