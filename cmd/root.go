package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gradle-mcp-server",
	Short: "MCP server for driving Gradle builds and tests",
	Long: `gradle-mcp-server exposes a Gradle project to MCP clients. It offers
tools for inspecting the project, executing build tasks and running tests
with hierarchical, noise-filtered result reporting.`,
	// SilenceUsage prevents printing the usage message on errors we
	// already report ourselves (bad arguments, failed builds)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gradle-mcp-server version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
