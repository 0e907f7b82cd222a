package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlyaGulya/gradle-mcp-server/internal/app"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveSSE switches the transport from stdio to HTTP/SSE.
var serveSSE bool

var (
	serveHost       string
	servePort       int
	serveProjectDir string
)

// serveCmd starts the MCP server. This is the main command: an MCP client
// configuration typically runs `gradle-mcp-server serve` over stdio.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Gradle MCP server",
	Long: `Starts the MCP server exposing the configured Gradle project.

By default the server speaks the MCP protocol over stdin/stdout, which is
what MCP client configurations expect. With --sse it instead listens on
HTTP and serves the SSE transport, useful for clients connecting over the
network.

Configuration is loaded from ~/.config/gradle-mcp-server/config.yaml and
.gradle-mcp/config.yaml in the working directory; flags override both.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveSSE, serveHost, servePort, serveProjectDir, rootCmd.Version)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveSSE, "sse", false, "Serve over HTTP/SSE instead of stdio")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind in SSE mode")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to bind in SSE mode")
	serveCmd.Flags().StringVar(&serveProjectDir, "project-dir", "", "Gradle project directory (defaults to the working directory)")
}
