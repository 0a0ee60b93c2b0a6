// ABOUTME: Switches command for fabric-designer CLI
// ABOUTME: Lists the switch models a project can be built from

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/spf13/cobra"
)

var switchesCmd = &cobra.Command{
	Use:   "switches",
	Short: "List available switch models",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runSwitches(ctx, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(switchesCmd)
}

func runSwitches(ctx context.Context, w io.Writer) int {
	catalog, err := newClient().SwitchModels(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return writeJSON(w, catalog)
	}
	fmt.Fprintln(w, formatSwitchesHuman(catalog))
	return 0
}

func formatSwitchesHuman(catalog []models.SwitchModel) string {
	rows := make([][]string, 0, len(catalog))
	for _, m := range catalog {
		name := m.Name
		if m.Name == models.DefaultSwitchModel {
			name += " (default)"
		}
		rows = append(rows, []string{name, strconv.Itoa(m.TotalPorts), m.PortSpeed})
	}
	return renderTable([]string{"MODEL", "PORTS", "SPEED"}, rows)
}
