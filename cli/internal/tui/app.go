// ABOUTME: Root bubbletea model for the interactive project editor
// ABOUTME: Runs the edit wizard, previews the synthesized design, and saves it to the backend

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/render"
	"github.com/markalston/fabric-designer/backend/services"
	"github.com/markalston/fabric-designer/cli/internal/tui/icons"
	"github.com/markalston/fabric-designer/cli/internal/tui/styles"
	"github.com/markalston/fabric-designer/cli/internal/tui/widgets"
	"github.com/markalston/fabric-designer/cli/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenWizard Screen = iota
	ScreenPreview
	ScreenSaving
)

// Layout constants
const (
	minTerminalWidth = 80
	// header + newline + newline + footer + preview summary line + panel border
	frameOverhead = 7
)

// ProjectSaver persists an edited project
type ProjectSaver interface {
	UpdateProject(ctx context.Context, id string, update models.ProjectUpdate) (*models.Project, error)
}

// projectSavedMsg is sent when the backend accepts or rejects the update
type projectSavedMsg struct {
	project *models.Project
	err     error
}

// preview is a locally synthesized design for the edited configuration
type preview struct {
	config   models.ClusterConfig
	model    models.SwitchModel
	graph    models.TopologyGraph
	document string
}

// App is the root model for the editor
type App struct {
	ctx     context.Context
	saver   ProjectSaver
	project models.Project
	screen  Screen
	width   int
	height  int
	err     error

	wizardScreen *wizard.Wizard
	viewport     viewport.Model
	preview      *preview

	saved     *models.Project
	cancelled bool
}

// New creates an editor for project
func New(ctx context.Context, saver ProjectSaver, project models.Project) *App {
	return &App{
		ctx:          ctx,
		saver:        saver,
		project:      project,
		screen:       ScreenWizard,
		wizardScreen: wizard.New(project),
		viewport:     viewport.New(minTerminalWidth, 20),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.wizardScreen.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeViewport()
		if a.wizardScreen != nil {
			a.wizardScreen.SetWidth(msg.Width - 1)
		}
		if a.screen == ScreenWizard {
			return a.updateWizard(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.cancelled = true
			return a, tea.Quit
		}
		switch a.screen {
		case ScreenWizard:
			return a.updateWizard(msg)
		case ScreenPreview:
			return a.updatePreview(msg)
		}
		return a, nil

	case wizard.WizardCompleteMsg:
		a.err = nil
		a.preview = a.buildPreview(msg.Config, msg.SwitchModel)
		a.viewport.SetContent(a.preview.document)
		a.viewport.GotoTop()
		a.screen = ScreenPreview
		return a, nil

	case wizard.WizardCancelledMsg:
		a.cancelled = true
		return a, tea.Quit

	case projectSavedMsg:
		if msg.err != nil {
			a.err = msg.err
			a.screen = ScreenPreview
			return a, nil
		}
		a.saved = msg.project
		return a, tea.Quit

	default:
		// huh forms need their internal messages
		if a.screen == ScreenWizard && a.wizardScreen != nil {
			return a.updateWizard(msg)
		}
	}

	return a, nil
}

func (a *App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.wizardScreen.Update(msg)
	a.wizardScreen = model.(*wizard.Wizard)
	return a, cmd
}

func (a *App) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		if a.preview == nil || (a.err != nil && a.preview.document == "") {
			return a, nil
		}
		a.screen = ScreenSaving
		a.err = nil
		return a, a.save()
	case "e":
		a.wizardScreen = wizard.New(a.editedProject())
		a.wizardScreen.SetWidth(a.width - 1)
		a.screen = ScreenWizard
		return a, a.wizardScreen.Init()
	case "esc", "q":
		a.cancelled = true
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// editedProject returns the project with the previewed configuration applied,
// so re-editing starts from the user's last answers.
func (a *App) editedProject() models.Project {
	p := a.project.Clone()
	if a.preview != nil {
		p.Config = a.preview.config.Clone()
		p.SwitchModel = a.preview.model.Name
	}
	return p
}

// buildPreview synthesizes the edited configuration locally. Invalid input is
// shown in the preview instead of a document.
func (a *App) buildPreview(cfg models.ClusterConfig, switchModel string) *preview {
	cfg = services.NormalizeClusterConfig(cfg)
	p := &preview{config: cfg}

	model, ok := models.LookupSwitchModel(switchModel)
	if !ok {
		a.err = fmt.Errorf("unknown switch model %q", switchModel)
		return p
	}
	p.model = model

	if err := services.ValidateClusterConfig(cfg); err != nil {
		a.err = err
		return p
	}

	p.graph = services.Synthesize(cfg, model)
	doc, err := render.Document(&a.project, cfg, model, p.graph)
	if err != nil {
		a.err = err
		return p
	}
	p.document = string(doc)
	return p
}

func (a *App) save() tea.Cmd {
	update := a.wizardUpdate()
	id := a.project.ID
	ctx := a.ctx
	saver := a.saver
	return func() tea.Msg {
		project, err := saver.UpdateProject(ctx, id, update)
		return projectSavedMsg{project: project, err: err}
	}
}

// wizardUpdate converts the previewed configuration into a partial update
func (a *App) wizardUpdate() models.ProjectUpdate {
	return wizard.New(a.editedProject()).ProjectUpdate()
}

// Saved returns the stored project after a successful save
func (a *App) Saved() *models.Project {
	return a.saved
}

// Cancelled reports whether the user left without saving
func (a *App) Cancelled() bool {
	return a.cancelled
}

func (a *App) resizeViewport() {
	width := max(a.width-4, minTerminalWidth-4)
	a.viewport.Width = width
	a.viewport.Height = max(a.height-frameOverhead, 5)
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenWizard:
		content = a.wizardScreen.View()
	case ScreenPreview:
		content = a.viewPreview()
	case ScreenSaving:
		content = styles.Subtitle.Render(icons.Save.String() + " Saving " + a.project.Name + "...")
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewPreview() string {
	if a.preview == nil {
		return ""
	}
	if a.err != nil && a.preview.document == "" {
		return styles.StatusCritical.Render("Error: "+a.err.Error()) + "\n" +
			styles.Help.Render("Press e to edit again or esc to cancel")
	}

	summary := a.previewSummary()
	if a.err != nil {
		summary += "  " + styles.StatusCritical.Render("Save failed: "+a.err.Error())
	}
	return summary + "\n" + styles.ActivePanel.Render(a.viewport.View())
}

// previewSummary renders one status line: overall badge, then each fabric.
func (a *App) previewSummary() string {
	graph := a.preview.graph
	parts := []string{widgets.DesignBadge(graph)}

	names := make([]string, len(graph.Fabrics))
	for i, f := range graph.Fabrics {
		names[i] = f.Name
	}
	colors := render.FabricColors(names)

	for _, f := range graph.Fabrics {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[f.Name])).Render(f.Name)
		detail := fmt.Sprintf("%d leaf", f.LeafCount)
		if f.Kind == models.KindSpineLeaf {
			detail += fmt.Sprintf(", %d spine", f.SpineCount)
		}
		parts = append(parts, fmt.Sprintf("%s %s (%s)", widgets.StatusIcon(widgets.FabricLevel(f)), name, detail))
	}
	parts = append(parts, fmt.Sprintf("%s %d links", icons.Link.String(), len(graph.Connections)))
	return strings.Join(parts, "  ")
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := max(a.width, minTerminalWidth)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Fabric Designer"))
	rightText := contextStyle.Render(fmt.Sprintf("%s v%d", a.project.Name, a.project.Version)) + " "

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := max(0, width-4-leftWidth-rightWidth) // -4 for ╭─ and ─╮

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts
func (a *App) renderFooter() string {
	width := max(a.width, minTerminalWidth)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch a.screen {
	case ScreenWizard:
		shortcuts = []string{"↑↓ Select", "Enter Confirm", "Esc Cancel"}
	case ScreenPreview:
		shortcuts = []string{"↑↓ Scroll", "s Save", "e Edit", "Esc Cancel"}
	case ScreenSaving:
		shortcuts = []string{"ctrl+c Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		key, label, _ := strings.Cut(s, " ")
		styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	if a.screen == ScreenPreview {
		rightText = fmt.Sprintf("%3.f%% ", a.viewport.ScrollPercent()*100)
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftPlain)-lipgloss.Width(rightText)) // -4 for ╰─ and ─╯

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// RunEditor runs the editor for project and returns the saved project, or
// nil when the user cancelled.
func RunEditor(ctx context.Context, saver ProjectSaver, project *models.Project) (*models.Project, error) {
	app := New(ctx, saver, *project)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	return app.Saved(), nil
}
