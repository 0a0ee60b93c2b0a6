// ABOUTME: Health command for fabric-designer CLI
// ABOUTME: Checks backend connectivity and service status

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the Fabric Designer backend and verify service status.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runHealth(ctx, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := newClient()

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	if resp.Status != "ok" {
		return 1
	}
	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *models.HealthResponse) string {
	return fmt.Sprintf(`Backend:       %s
Status:        %s
Store:         %s
Projects:      %d
Cache Entries: %d
Switch Model:  %s`, url, statusStyle(resp.Status == "ok").Render(resp.Status), resp.StoreDriver,
		resp.Projects, resp.CacheEntries, resp.SwitchModel)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *models.HealthResponse) string {
	output := map[string]any{
		"backend":       url,
		"status":        resp.Status,
		"store_driver":  resp.StoreDriver,
		"projects":      resp.Projects,
		"cache_entries": resp.CacheEntries,
		"switch_model":  resp.SwitchModel,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
