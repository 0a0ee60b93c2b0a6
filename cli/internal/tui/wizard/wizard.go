// ABOUTME: Project editor wizard as a bubbletea model
// ABOUTME: Uses huh forms with visual progress indicator: cluster step, then one step per fabric

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/services"
	"github.com/markalston/fabric-designer/cli/internal/tui/icons"
	"github.com/markalston/fabric-designer/cli/internal/tui/styles"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	Config      models.ClusterConfig
	SwitchModel string
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// fabricFields holds one fabric's form values (strings for huh)
type fabricFields struct {
	name  string
	kind  string
	ratio string
	ports string
	speed string
}

// Wizard manages the project editing flow as a bubbletea model
type Wizard struct {
	form  *huh.Form
	step  int
	width int

	servers     string
	switchModel string
	fabrics     []fabricFields
}

// createTheme returns a custom huh theme matching the frontend colors
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	cyan := lipgloss.Color("#06B6D4")      // Cyan-500 - primary
	cyanLight := lipgloss.Color("#22D3EE") // Cyan-400 - accents
	blue := lipgloss.Color("#3B82F6")      // Blue-500 - info
	gray := lipgloss.Color("#9CA3AF")      // Gray-400 - muted
	grayLight := lipgloss.Color("#E5E7EB") // Gray-200 - text
	red := lipgloss.Color("#F87171")       // Red-400 - errors
	slate := lipgloss.Color("#334155")     // Slate-700 - borders

	// Group styles (section headers)
	t.Group.Title = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	// Focused field styles
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(cyan)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(cyanLight).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	// Select field styles
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(cyan).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true)
	t.Focused.NextIndicator = lipgloss.NewStyle().
		Foreground(cyan).
		MarginLeft(1).
		SetString("→")
	t.Focused.PrevIndicator = lipgloss.NewStyle().
		Foreground(cyan).
		MarginRight(1).
		SetString("←")

	// Text input styles
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(cyan)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(cyan)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	// Button styles
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(blue).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	// Blurred field styles (inherit from focused with muted colors)
	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(gray).
		SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

var kindOptions = []huh.Option[string]{
	huh.NewOption("Spine-leaf (two-tier Clos)", string(models.KindSpineLeaf)),
	huh.NewOption("LACP pair (bonded across two switches)", string(models.KindLACP)),
}

var ratioOptions = []huh.Option[string]{
	huh.NewOption("1:1 (non-blocking)", string(models.Ratio1to1)),
	huh.NewOption("2:1 (recorded; built as 1:1)", string(models.Ratio2to1)),
	huh.NewOption("3:1 (recorded; built as 1:1)", string(models.Ratio3to1)),
}

func switchModelOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(models.SwitchCatalog))
	for _, m := range models.SwitchCatalog {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%d x %s)", m.Name, m.TotalPorts, m.PortSpeed), m.Name))
	}
	return opts
}

func speedOptions() []huh.Option[string] {
	return huh.NewOptions(models.PortSpeeds...)
}

// New creates a wizard pre-filled with the project's current configuration
func New(project models.Project) *Wizard {
	switchModel := project.SwitchModel
	if switchModel == "" {
		switchModel = models.DefaultSwitchModel
	}

	w := &Wizard{
		step:        1,
		servers:     strconv.Itoa(project.Config.ServerCount),
		switchModel: switchModel,
		fabrics:     make([]fabricFields, len(project.Config.Networks)),
	}
	for i, n := range project.Config.Networks {
		ratio := n.OversubscriptionRatio
		if ratio == "" {
			ratio = models.Ratio1to1
		}
		w.fabrics[i] = fabricFields{
			name:  n.Name,
			kind:  string(n.Kind),
			ratio: string(ratio),
			ports: strconv.Itoa(n.NICPortCount),
			speed: n.PortSpeed,
		}
	}

	w.form = w.createClusterForm()
	return w
}

func (w *Wizard) createClusterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Servers").
				Description("Number of servers in the cluster").
				Placeholder("e.g., 32").
				CharLimit(5).
				Value(&w.servers).
				Validate(validateRange(1, services.MaxServers)),
			huh.NewSelect[string]().
				Title("Switch model").
				Description("Used for every leaf and spine. Use ↑/↓ to select, Enter to confirm").
				Options(switchModelOptions()...).
				Value(&w.switchModel),
		).Title("Step 1: Cluster").
			Description("Size the cluster and pick the switch hardware"),
	).WithTheme(createTheme())
}

func (w *Wizard) createFabricForm(i int) *huh.Form {
	f := &w.fabrics[i]
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Topology").
				Options(kindOptions...).
				Value(&f.kind),
			huh.NewSelect[string]().
				Title("Oversubscription").
				Description("Downlink to uplink ratio").
				Options(ratioOptions...).
				Value(&f.ratio),
			huh.NewInput().
				Title("NIC ports per server").
				Description(fmt.Sprintf("Between %d and %d", services.MinNICPorts, services.MaxNICPorts)).
				CharLimit(2).
				Value(&f.ports).
				Validate(validateRange(services.MinNICPorts, services.MaxNICPorts)),
			huh.NewSelect[string]().
				Title("Port speed").
				Options(speedOptions()...).
				Value(&f.speed),
		).Title(fmt.Sprintf("Step %d: %s fabric", i+2, f.name)).
			Description("Choose how this fabric is built"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

// advanceStep moves from the cluster step through each fabric step, then
// reports the edited configuration.
func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	if w.step <= len(w.fabrics) {
		w.form = w.createFabricForm(w.step - 1)
		w.step++
		return w, w.form.Init()
	}

	cfg := w.Config()
	model := w.switchModel
	return w, func() tea.Msg {
		return WizardCompleteMsg{Config: cfg, SwitchModel: model}
	}
}

// Config returns the cluster configuration collected so far
func (w *Wizard) Config() models.ClusterConfig {
	servers, _ := strconv.Atoi(strings.TrimSpace(w.servers))
	cfg := models.ClusterConfig{
		ServerCount: servers,
		Networks:    make([]models.NetworkRequirement, len(w.fabrics)),
	}
	for i, f := range w.fabrics {
		ports, _ := strconv.Atoi(strings.TrimSpace(f.ports))
		cfg.Networks[i] = models.NetworkRequirement{
			Name:                  f.name,
			Kind:                  models.TopologyKind(f.kind),
			OversubscriptionRatio: models.OversubscriptionRatio(f.ratio),
			NICPortCount:          ports,
			PortSpeed:             f.speed,
		}
	}
	return cfg
}

// ProjectUpdate returns a partial update that sets every edited value
func (w *Wizard) ProjectUpdate() models.ProjectUpdate {
	cfg := w.Config()
	servers := cfg.ServerCount
	model := w.switchModel
	update := models.ProjectUpdate{
		ServerCount: &servers,
		SwitchModel: &model,
	}
	for _, n := range cfg.Networks {
		kind, ratio, ports, speed := n.Kind, n.OversubscriptionRatio, n.NICPortCount, n.PortSpeed
		update.Networks = append(update.Networks, models.NetworkPatch{
			Name:                  n.Name,
			Kind:                  &kind,
			OversubscriptionRatio: &ratio,
			NICPortCount:          &ports,
			PortSpeed:             &speed,
		})
	}
	return update
}

// Step returns the 1-based index of the current step
func (w *Wizard) Step() int {
	return w.step
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())

	return sb.String()
}

func (w *Wizard) stepNames() []string {
	names := []string{"Cluster"}
	for _, f := range w.fabrics {
		names = append(names, f.name)
	}
	return names
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := max(w.width-1, 60)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	names := w.stepNames()
	var steps []string
	for i, name := range names {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// Progress bar line format: "│  " + bar + " │" = 5 chars overhead
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(names)
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))
	progressBar := filledBar + emptyBar

	styledTitle := titleStyle.Render("Progress")
	titleWidth := lipgloss.Width("Progress")

	// Top border: "┌─ " + title + " " + fill + "┐"
	topFillWidth := max(0, width-5-titleWidth)
	topBorder := "┌─ " + styledTitle + " " + strings.Repeat("─", topFillWidth) + "┐"

	// Steps line: "│ " + content + padding + " │" = 4 chars overhead
	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + progressBar + " │"

	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

func validateRange(lo, hi int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || v < lo || v > hi {
			return fmt.Errorf("must be a number between %d and %d", lo, hi)
		}
		return nil
	}
}
