package config

const (
	// DefaultMaxLogLines bounds per-test output in tool responses.
	DefaultMaxLogLines = 100

	DefaultTransport = "stdio"
	DefaultHost      = "localhost"
	DefaultPort      = 8092
)

// GetDefaultConfig returns the baseline configuration before user and
// project overlays are applied.
func GetDefaultConfig() Config {
	return Config{
		LogLevel: "info",
		TestOutput: TestOutputConfig{
			MaxLogLines: DefaultMaxLogLines,
		},
		Server: ServerConfig{
			Transport: DefaultTransport,
			Host:      DefaultHost,
			Port:      DefaultPort,
		},
	}
}
