// ABOUTME: Project commands for fabric-designer CLI
// ABOUTME: List, create, show, update, edit, and delete stored network designs

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/cli/internal/tui"
	"github.com/spf13/cobra"
)

// projectUpdateFlags holds the values of `project update` flags
type projectUpdateFlags struct {
	name        string
	servers     int
	switchModel string
	networks    []string
	remove      []string
}

var updateFlags projectUpdateFlags

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage network design projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectList(ctx, os.Stdout, time.Now())
		})
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a project with the default cluster",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectCreate(ctx, os.Stdout, args[0])
		})
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a project's configuration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectShow(ctx, os.Stdout, args[0], time.Now())
		})
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectDelete(ctx, os.Stdout, args[0])
		})
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a project's servers, switch model, or fabrics",
	Long: `Update a project. Only the flags you pass are changed.

Fabrics are matched by name: --network patches an existing fabric or adds a new
one, and --remove-network drops a fabric.

Example:
  fabric-designer project update ID --servers 24 --network name=gpu,ports=8`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		update, err := updateFlags.build(cmd.Flags().Changed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		runWithSignals(func(ctx context.Context) int {
			return runProjectUpdate(ctx, os.Stdout, args[0], update)
		})
	},
}

var projectEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a project interactively and preview the design",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectEdit(ctx, os.Stderr, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd, projectCreateCmd, projectShowCmd,
		projectDeleteCmd, projectUpdateCmd, projectEditCmd)

	f := projectUpdateCmd.Flags()
	f.StringVar(&updateFlags.name, "name", "", "New project name")
	f.IntVar(&updateFlags.servers, "servers", 0, "Number of servers")
	f.StringVar(&updateFlags.switchModel, "switch-model", "", "Switch model for every leaf and spine")
	f.StringArrayVar(&updateFlags.networks, "network", nil, networkFlagUsage)
	f.StringArrayVar(&updateFlags.remove, "remove-network", nil, "Name of a fabric to remove (repeatable)")
}

// build turns the flags the user set into a partial update.
func (f projectUpdateFlags) build(changed func(string) bool) (models.ProjectUpdate, error) {
	var update models.ProjectUpdate
	if changed("name") {
		name := f.name
		update.Name = &name
	}
	if changed("servers") {
		servers := f.servers
		update.ServerCount = &servers
	}
	if changed("switch-model") {
		model := f.switchModel
		update.SwitchModel = &model
	}
	patches, err := parseNetworkPatches(f.networks)
	if err != nil {
		return update, err
	}
	if len(patches) > 0 {
		update.Networks = patches
	}
	if len(f.remove) > 0 {
		update.RemoveNetworks = append([]string(nil), f.remove...)
	}
	if update.Empty() {
		return update, fmt.Errorf("nothing to update: pass --name, --servers, --switch-model, --network, or --remove-network")
	}
	return update, nil
}

func runProjectList(ctx context.Context, w io.Writer, now time.Time) int {
	projects, err := newClient().ListProjects(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return writeJSON(w, projects)
	}
	fmt.Fprintln(w, formatProjectListHuman(projects, now))
	return 0
}

func formatProjectListHuman(projects []models.Project, now time.Time) string {
	if len(projects) == 0 {
		return "No projects. Create one with: fabric-designer project create NAME"
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			strconv.Itoa(p.Config.ServerCount),
			fabricNames(p.Config),
			strconv.FormatUint(p.Version, 10),
			humanize.RelTime(p.UpdatedAt, now, "ago", "from now"),
		})
	}
	return renderTable([]string{"ID", "NAME", "SERVERS", "FABRICS", "VERSION", "UPDATED"}, rows)
}

func fabricNames(cfg models.ClusterConfig) string {
	names := make([]string, len(cfg.Networks))
	for i, n := range cfg.Networks {
		names[i] = n.Name
	}
	return strings.Join(names, ", ")
}

func runProjectCreate(ctx context.Context, w io.Writer, name string) int {
	project, err := newClient().CreateProject(ctx, name)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return writeJSON(w, project)
	}
	fmt.Fprintf(w, "%s Created project %s (%s)\n", statusStyle(true).Render("✓"), project.Name, project.ID)
	return 0
}

func runProjectShow(ctx context.Context, w io.Writer, id string, now time.Time) int {
	project, err := newClient().GetProject(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return writeJSON(w, project)
	}
	fmt.Fprintln(w, formatProjectHuman(project, now))
	return 0
}

func formatProjectHuman(p *models.Project, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Project:      %s\n", p.Name)
	fmt.Fprintf(&sb, "ID:           %s\n", p.ID)
	fmt.Fprintf(&sb, "Version:      %d\n", p.Version)
	fmt.Fprintf(&sb, "Switch Model: %s\n", p.SwitchModel)
	fmt.Fprintf(&sb, "Servers:      %s\n", humanize.Comma(int64(p.Config.ServerCount)))
	fmt.Fprintf(&sb, "Created:      %s\n", humanize.RelTime(p.CreatedAt, now, "ago", "from now"))
	fmt.Fprintf(&sb, "Updated:      %s\n\n", humanize.RelTime(p.UpdatedAt, now, "ago", "from now"))

	rows := make([][]string, 0, len(p.Config.Networks))
	for _, n := range p.Config.Networks {
		rows = append(rows, []string{
			n.Name,
			string(n.Kind),
			string(n.OversubscriptionRatio),
			strconv.Itoa(n.NICPortCount),
			n.PortSpeed,
		})
	}
	sb.WriteString(renderTable([]string{"FABRIC", "TYPE", "RATIO", "NIC PORTS", "SPEED"}, rows))
	return sb.String()
}

func runProjectDelete(ctx context.Context, w io.Writer, id string) int {
	if err := newClient().DeleteProject(ctx, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if IsJSONOutput() {
		return writeJSON(w, map[string]string{"deleted": id})
	}
	fmt.Fprintf(w, "%s Deleted project %s\n", statusStyle(true).Render("✓"), id)
	return 0
}

func runProjectUpdate(ctx context.Context, w io.Writer, id string, update models.ProjectUpdate) int {
	project, err := newClient().UpdateProject(ctx, id, update)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return writeJSON(w, project)
	}
	fmt.Fprintf(w, "%s Updated project %s to version %d\n", statusStyle(true).Render("✓"), project.Name, project.Version)
	return 0
}

func runProjectEdit(ctx context.Context, w io.Writer, id string) int {
	c := newClient()
	project, err := c.GetProject(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	saved, err := tui.RunEditor(ctx, c, project)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if saved == nil {
		fmt.Fprintln(w, "Edit cancelled; project unchanged")
		return 0
	}
	fmt.Fprintf(w, "%s Saved project %s at version %d\n", statusStyle(true).Render("✓"), saved.Name, saved.Version)
	return 0
}
