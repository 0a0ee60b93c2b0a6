// ABOUTME: Topology, document, and diagram commands for fabric-designer CLI
// ABOUTME: Summarizes synthesized fabrics and exports YAML documents and diagrams

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/render"
	"github.com/spf13/cobra"
)

var diagramFormat string

var topologyCmd = &cobra.Command{
	Use:   "topology ID",
	Short: "Summarize the synthesized topology of a project",
	Long:  `Summarize each fabric of a project's topology. With --json the full graph is printed.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runTopology(ctx, os.Stdout, args[0])
		})
	},
}

var documentCmd = &cobra.Command{
	Use:   "document ID",
	Short: "Print the YAML design document of a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDocument(ctx, os.Stdout, args[0])
		})
	},
}

var diagramCmd = &cobra.Command{
	Use:   "diagram ID",
	Short: "Print the diagram of a project as JSON or Graphviz DOT",
	Long: `Print the diagram of a project.

  --format json  positioned nodes and colored edges (default)
  --format dot   Graphviz source; render with: fabric-designer diagram ID --format dot | dot -Tsvg`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDiagram(ctx, os.Stdout, args[0], diagramFormat)
		})
	},
}

func init() {
	rootCmd.AddCommand(topologyCmd, documentCmd, diagramCmd)
	diagramCmd.Flags().StringVar(&diagramFormat, "format", "json", "Diagram format: json or dot")
}

func runTopology(ctx context.Context, w io.Writer, id string) int {
	resp, err := newClient().Topology(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return writeJSON(w, resp)
	}
	fmt.Fprintln(w, formatTopologyHuman(resp))
	return 0
}

// formatTopologyHuman renders totals and one row per fabric, followed by any
// warnings the engine reported.
func formatTopologyHuman(resp *models.TopologyResponse) string {
	stats := render.Stats(resp.Topology)

	var sb strings.Builder
	if resp.ProjectID != "" {
		cached := ""
		if resp.Cached {
			cached = " (cached)"
		}
		fmt.Fprintf(&sb, "Project:      %s v%d%s\n", resp.ProjectID, resp.Version, cached)
	}
	fmt.Fprintf(&sb, "Switch Model: %s (%d x %s)\n", resp.SwitchModel.Name, resp.SwitchModel.TotalPorts, resp.SwitchModel.PortSpeed)
	fmt.Fprintf(&sb, "Servers:      %d\n", stats.Servers)
	fmt.Fprintf(&sb, "Switches:     %d leaf, %d spine\n", stats.LeafSwitches, stats.SpineSwitches)
	fmt.Fprintf(&sb, "Connections:  %d\n\n", stats.Connections)

	rows := make([][]string, 0, len(stats.Fabrics))
	for _, f := range stats.Fabrics {
		mesh := "-"
		if f.Kind == models.KindSpineLeaf {
			mesh = checkSymbol(f.FullMesh)
		}
		rows = append(rows, []string{
			f.Name,
			string(f.Kind),
			strconv.Itoa(f.LeafCount),
			strconv.Itoa(f.SpineCount),
			fmt.Sprintf("%d/%d", f.ConnectedServerPorts, f.ServerPorts),
			strconv.Itoa(f.LeafSpineLinks),
			mesh,
		})
	}
	sb.WriteString(renderTable([]string{"FABRIC", "TYPE", "LEAVES", "SPINES", "SERVER PORTS", "UPLINKS", "MESH"}, rows))

	for _, f := range stats.Fabrics {
		for _, warning := range f.Warnings {
			fmt.Fprintf(&sb, "\n%s %s: %s", styledWarning(), f.Name, warning)
		}
	}
	return sb.String()
}

func styledWarning() string {
	return statusStyle(false).Render("!")
}

func runDocument(ctx context.Context, w io.Writer, id string) int {
	data, err := newClient().Document(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	w.Write(data)
	return 0
}

func runDiagram(ctx context.Context, w io.Writer, id, format string) int {
	if format != "json" && format != "dot" {
		fmt.Fprintf(w, "Error: --format must be json or dot, got %q\n", format)
		return 2
	}

	data, err := newClient().Diagram(ctx, id, format)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	w.Write(data)
	return 0
}
