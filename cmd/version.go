package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of gradle-mcp-server",
		Long:  `All software has versions. This is gradle-mcp-server's.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gradle-mcp-server version %s\n", rootCmd.Version)
		},
	}
}
