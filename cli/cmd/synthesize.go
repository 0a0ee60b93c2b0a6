// ABOUTME: Offline synthesize command for fabric-designer CLI
// ABOUTME: Runs the topology engine locally and prints a summary, YAML, DOT, or JSON

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/render"
	"github.com/markalston/fabric-designer/backend/services"
	"github.com/spf13/cobra"
)

// synthesizeFlags holds the values of `synthesize` flags
type synthesizeFlags struct {
	servers     int
	networks    []string
	switchModel string
	output      string
}

var synthFlags = synthesizeFlags{servers: 10, switchModel: models.DefaultSwitchModel, output: "summary"}

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Synthesize a topology locally without a backend",
	Long: `Synthesize a topology for an ad-hoc cluster without contacting the backend.

Example:
  fabric-designer synthesize --servers 16 \
    --network name=frontend,ports=2,speed=40G \
    --network name=storage,kind=lacp,ports=2,speed=25G --output yaml`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runSynthesize(os.Stdout, synthFlags)
		})
	},
}

func init() {
	rootCmd.AddCommand(synthesizeCmd)
	f := synthesizeCmd.Flags()
	f.IntVar(&synthFlags.servers, "servers", synthFlags.servers, "Number of servers")
	f.StringArrayVar(&synthFlags.networks, "network", nil, networkFlagUsage)
	f.StringVar(&synthFlags.switchModel, "switch-model", synthFlags.switchModel, "Switch model for every leaf and spine")
	f.StringVarP(&synthFlags.output, "output", "o", synthFlags.output, "Output: summary, yaml, dot, or json")
}

// clusterConfig builds and validates the engine input described by the flags.
func (f synthesizeFlags) clusterConfig() (models.ClusterConfig, models.SwitchModel, error) {
	model, ok := models.LookupSwitchModel(f.switchModel)
	if !ok {
		return models.ClusterConfig{}, models.SwitchModel{}, fmt.Errorf("unknown switch model %q (see: fabric-designer switches)", f.switchModel)
	}
	if len(f.networks) == 0 {
		return models.ClusterConfig{}, model, fmt.Errorf("at least one --network is required")
	}

	patches, err := parseNetworkPatches(f.networks)
	if err != nil {
		return models.ClusterConfig{}, model, err
	}
	cfg := models.ClusterConfig{ServerCount: f.servers}
	for _, patch := range patches {
		req, err := requirementFromPatch(patch)
		if err != nil {
			return models.ClusterConfig{}, model, err
		}
		cfg.Networks = append(cfg.Networks, req)
	}

	cfg = services.NormalizeClusterConfig(cfg)
	if err := services.ValidateClusterConfig(cfg); err != nil {
		return models.ClusterConfig{}, model, err
	}
	return cfg, model, nil
}

func runSynthesize(w io.Writer, f synthesizeFlags) int {
	if IsJSONOutput() && f.output == "summary" {
		f.output = "json"
	}
	switch f.output {
	case "summary", "yaml", "dot", "json":
	default:
		fmt.Fprintf(w, "Error: --output must be summary, yaml, dot, or json, got %q\n", f.output)
		return 2
	}

	cfg, model, err := f.clusterConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	graph := services.Synthesize(cfg, model)
	resp := &models.TopologyResponse{SwitchModel: model, Topology: graph}

	switch f.output {
	case "yaml":
		doc, err := render.Document(nil, cfg, model, graph)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		w.Write(doc)
	case "dot":
		io.WriteString(w, render.DOT(graph))
	case "json":
		return writeJSON(w, resp)
	default:
		fmt.Fprintln(w, formatTopologyHuman(resp))
	}
	return 0
}
