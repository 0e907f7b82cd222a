package gradle

import (
	_ "embed"
	"fmt"
	"os"
)

// eventMarker prefixes every event line the init script prints, so test
// lifecycle events can be told apart from regular build output.
const eventMarker = "GRADLE-MCP-EVENT: "

//go:embed init.gradle
var initScript []byte

// writeInitScript materializes the embedded init script into a temp file
// for one build invocation. The caller removes it when the build is done.
func writeInitScript() (string, error) {
	f, err := os.CreateTemp("", "gradle-mcp-init-*.gradle")
	if err != nil {
		return "", fmt.Errorf("failed to create init script: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(initScript); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write init script: %w", err)
	}
	return f.Name(), nil
}
