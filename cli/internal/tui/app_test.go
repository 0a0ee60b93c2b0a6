// ABOUTME: Integration tests for the project editor app
// ABOUTME: Tests wizard to preview transitions, saving, and cancellation

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/cli/internal/tui/wizard"
)

type fakeSaver struct {
	calls  int
	id     string
	update models.ProjectUpdate
	err    error
}

func (f *fakeSaver) UpdateProject(_ context.Context, id string, update models.ProjectUpdate) (*models.Project, error) {
	f.calls++
	f.id = id
	f.update = update
	if f.err != nil {
		return nil, f.err
	}
	p := testProject()
	p.Version++
	if update.ServerCount != nil {
		p.Config.ServerCount = *update.ServerCount
	}
	return &p, nil
}

func testProject() models.Project {
	return models.Project{
		ID:          "0b8f5f6e-1c2d-4e5f-8a9b-0c1d2e3f4a5b",
		Name:        "pod-a",
		Version:     3,
		SwitchModel: models.DefaultSwitchModel,
		Config: models.ClusterConfig{
			ServerCount: 10,
			Networks: []models.NetworkRequirement{
				{Name: "frontend", Kind: models.KindSpineLeaf, OversubscriptionRatio: models.Ratio1to1, NICPortCount: 2, PortSpeed: "40G"},
				{Name: "storage", Kind: models.KindLACP, NICPortCount: 2, PortSpeed: "25G"},
			},
		},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// previewApp returns an app that has completed the wizard with the
// project's own configuration.
func previewApp(t *testing.T, saver ProjectSaver) *App {
	t.Helper()
	p := testProject()
	app := New(context.Background(), saver, p)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.Update(wizard.WizardCompleteMsg{Config: p.Config, SwitchModel: p.SwitchModel})
	if app.screen != ScreenPreview {
		t.Fatalf("expected ScreenPreview, got %d", app.screen)
	}
	return app
}

func TestAppInitialState(t *testing.T) {
	app := New(context.Background(), &fakeSaver{}, testProject())

	if app.screen != ScreenWizard {
		t.Errorf("expected initial screen to be ScreenWizard, got %d", app.screen)
	}
	if app.wizardScreen == nil {
		t.Error("expected wizard to be initialized")
	}
	if app.Saved() != nil {
		t.Error("expected no saved project before saving")
	}
}

func TestScreenConstants(t *testing.T) {
	if ScreenWizard != 0 {
		t.Errorf("expected ScreenWizard to be 0, got %d", ScreenWizard)
	}
	if ScreenPreview != 1 {
		t.Errorf("expected ScreenPreview to be 1, got %d", ScreenPreview)
	}
	if ScreenSaving != 2 {
		t.Errorf("expected ScreenSaving to be 2, got %d", ScreenSaving)
	}
}

func TestAppWizardCompleteBuildsPreview(t *testing.T) {
	app := previewApp(t, &fakeSaver{})

	if app.err != nil {
		t.Fatalf("unexpected error: %v", app.err)
	}
	if !strings.Contains(app.preview.document, "network-design") {
		t.Errorf("expected YAML document in preview, got:\n%s", app.preview.document)
	}
	if len(app.preview.graph.Fabrics) != 2 {
		t.Errorf("expected 2 fabrics, got %d", len(app.preview.graph.Fabrics))
	}

	view := app.View()
	if !strings.Contains(view, "frontend") || !strings.Contains(view, "storage") {
		t.Errorf("expected fabric names in preview summary, got:\n%s", view)
	}
	if !strings.Contains(view, "OK") {
		t.Errorf("expected OK badge for a fully wired design, got:\n%s", view)
	}
}

func TestAppPreviewInvalidConfig(t *testing.T) {
	app := New(context.Background(), &fakeSaver{}, testProject())
	app.Update(wizard.WizardCompleteMsg{
		Config:      models.ClusterConfig{ServerCount: 0},
		SwitchModel: models.DefaultSwitchModel,
	})

	if app.err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(app.View(), "Error:") {
		t.Error("expected error in view")
	}

	// saving an invalid design is a no-op
	_, cmd := app.Update(keyRune('s'))
	if cmd != nil {
		t.Error("expected no command when saving an invalid design")
	}
}

func TestAppPreviewUnknownSwitchModel(t *testing.T) {
	p := testProject()
	app := New(context.Background(), &fakeSaver{}, p)
	app.Update(wizard.WizardCompleteMsg{Config: p.Config, SwitchModel: "nexus-9999"})

	if app.err == nil || !strings.Contains(app.err.Error(), "nexus-9999") {
		t.Errorf("expected unknown switch model error, got %v", app.err)
	}
}

func TestAppSaveSendsUpdate(t *testing.T) {
	saver := &fakeSaver{}
	app := previewApp(t, saver)

	_, cmd := app.Update(keyRune('s'))
	if app.screen != ScreenSaving {
		t.Errorf("expected ScreenSaving, got %d", app.screen)
	}
	if cmd == nil {
		t.Fatal("expected save command")
	}

	msg := cmd()
	saved, ok := msg.(projectSavedMsg)
	if !ok {
		t.Fatalf("expected projectSavedMsg, got %T", msg)
	}
	if saver.calls != 1 || saver.id != testProject().ID {
		t.Errorf("expected one update for %s, got %d calls for %q", testProject().ID, saver.calls, saver.id)
	}
	if saver.update.ServerCount == nil || *saver.update.ServerCount != 10 {
		t.Errorf("expected server count 10 in update, got %v", saver.update.ServerCount)
	}

	_, cmd = app.Update(saved)
	if !isQuit(cmd) {
		t.Error("expected quit after successful save")
	}
	if app.Saved() == nil || app.Saved().Version != 4 {
		t.Errorf("expected saved project at version 4, got %+v", app.Saved())
	}
}

func TestAppSaveError(t *testing.T) {
	app := previewApp(t, &fakeSaver{err: errors.New("version conflict")})

	_, cmd := app.Update(keyRune('s'))
	_, next := app.Update(cmd())

	if next != nil {
		t.Error("expected to stay in the editor after a failed save")
	}
	if app.screen != ScreenPreview {
		t.Errorf("expected ScreenPreview after failed save, got %d", app.screen)
	}
	if !strings.Contains(app.View(), "version conflict") {
		t.Errorf("expected save error in view, got:\n%s", app.View())
	}
	if app.Saved() != nil {
		t.Error("expected no saved project")
	}
}

func TestAppEditReturnsToWizard(t *testing.T) {
	app := previewApp(t, &fakeSaver{})

	app.Update(keyRune('e'))
	if app.screen != ScreenWizard {
		t.Errorf("expected ScreenWizard after edit, got %d", app.screen)
	}
	if app.wizardScreen.Step() != 1 {
		t.Errorf("expected wizard to restart at step 1, got %d", app.wizardScreen.Step())
	}
}

func TestAppEscCancels(t *testing.T) {
	app := previewApp(t, &fakeSaver{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Error("expected quit on esc")
	}
	if !app.Cancelled() {
		t.Error("expected app to be cancelled")
	}
}

func TestAppWizardCancelledQuits(t *testing.T) {
	app := New(context.Background(), &fakeSaver{}, testProject())

	_, cmd := app.Update(wizard.WizardCancelledMsg{})
	if !isQuit(cmd) {
		t.Error("expected quit when the wizard is cancelled")
	}
	if !app.Cancelled() {
		t.Error("expected app to be cancelled")
	}
}

func TestAppViewFrame(t *testing.T) {
	app := New(context.Background(), &fakeSaver{}, testProject())
	app.width = 100
	app.height = 40

	view := app.View()
	if !strings.Contains(view, "Fabric Designer") {
		t.Error("expected header title in view")
	}
	if !strings.Contains(view, "pod-a v3") {
		t.Error("expected project name and version in header")
	}
	if !strings.Contains(view, "Esc") {
		t.Error("expected shortcuts in footer")
	}
}
