// Package cmd implements the pagepulse CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "pagepulse",
	Short: "Manage a Facebook page over MCP",
	Long: "pagepulse exposes a Facebook page's Graph API operations as MCP tools,\n" +
		"with local post scheduling and engagement reporting on top.",
}

// Execute runs the root command and exits on error.
func Execute() {
	// A .env in the working directory supplements the environment; absence
	// is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(templatesCmd)
}
