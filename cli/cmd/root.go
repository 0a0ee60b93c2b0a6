// ABOUTME: Root command for fabric-designer CLI
// ABOUTME: Handles global flags, configuration, and shared command plumbing

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/fabric-designer/cli/internal/client"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8080"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "fabric-designer",
	Short: "CLI for Fabric Designer",
	Long: `fabric-designer is a command-line interface for the Fabric Designer backend.

It manages network design projects, renders their spine-leaf and LACP fabrics,
and checks designs in CI/CD pipelines. The synthesize command works offline.

Environment Variables:
  FABRIC_DESIGNER_API_URL  Backend API URL (default: http://localhost:8080)
  FABRIC_NERD_FONTS        Set to 1 to force Nerd Font icons in the editor`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides FABRIC_DESIGNER_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("FABRIC_DESIGNER_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

func newClient() *client.Client {
	return client.New(GetAPIURL())
}

// runWithSignals runs fn with a context canceled on SIGINT/SIGTERM and exits
// with its code when non-zero.
func runWithSignals(fn func(ctx context.Context) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := fn(ctx)
	cancel()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
