// ABOUTME: Check command for fabric-designer CLI
// ABOUTME: Verifies a project's topology is fully wired for CI/CD pipelines

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

var checkCmd = &cobra.Command{
	Use:   "check ID",
	Short: "Check that a project's fabrics are fully wired",
	Long: `Check that every server port of a project is connected, every leaf uplink
reaches a spine, and every spine-leaf fabric is a full mesh.

Exit codes:
  0 - All checks passed
  1 - One or more fabrics are degraded
  2 - Error (connectivity, unknown project, invalid input)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runCheck(ctx, os.Stdout, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkResult represents the result of a single fabric check
type checkResult struct {
	fabric string
	name   string
	value  int
	total  int
	passed bool
}

// runCheck executes the fabric checks and returns exit code
func runCheck(ctx context.Context, w io.Writer, id string) int {
	resp, err := newClient().Topology(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if len(resp.Topology.Fabrics) == 0 {
		fmt.Fprintln(w, "Error: project has no fabrics to check")
		return 2
	}

	results := performChecks(resp.Topology.Fabrics)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(id, results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return 1
	}
	return 0
}

// performChecks derives pass/fail results from each fabric report
func performChecks(fabrics []models.FabricReport) []checkResult {
	var results []checkResult

	for _, f := range fabrics {
		results = append(results, checkResult{
			fabric: f.Name,
			name:   "server ports connected",
			value:  f.ConnectedServerPorts,
			total:  f.ServerPorts,
			passed: f.UnplacedServerPorts == 0,
		})

		if f.Kind != models.KindSpineLeaf {
			continue
		}

		uplinks := f.LeafSpineLinks + f.DroppedUplinks
		results = append(results, checkResult{
			fabric: f.Name,
			name:   "leaf uplinks connected",
			value:  f.LeafSpineLinks,
			total:  uplinks,
			passed: f.DroppedUplinks == 0,
		})

		meshed := 0
		if f.FullMesh {
			meshed = 1
		}
		results = append(results, checkResult{
			fabric: f.Name,
			name:   "leaf-spine full mesh",
			value:  meshed,
			total:  1,
			passed: f.FullMesh,
		})
	}

	return results
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var output string

	for _, r := range results {
		symbol := statusStyle(r.passed).Render(checkSymbol(r.passed))
		if r.name == "leaf-spine full mesh" {
			output += fmt.Sprintf("%s %s: %s\n", symbol, r.fabric, r.name)
			continue
		}
		output += fmt.Sprintf("%s %s: %d/%d %s\n", symbol, r.fabric, r.value, r.total, r.name)
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) found a degraded fabric", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d check(s) passed", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(projectID string, results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]any, len(results))
	for i, r := range results {
		checks[i] = map[string]any{
			"network": r.fabric,
			"name":    r.name,
			"value":   r.value,
			"total":   r.total,
			"passed":  r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]any{
		"project_id": projectID,
		"status":     status,
		"checks":     checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
