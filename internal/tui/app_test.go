package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/draftfield/internal/cache"
	"github.com/kingrea/draftfield/internal/config"
	"github.com/kingrea/draftfield/internal/field"
	"github.com/kingrea/draftfield/internal/logbook"
	"github.com/kingrea/draftfield/internal/state"
)

const testConfigYAML = `
version: 1
form:
  title: Test form
  fields:
    - id: f1
      label: First
      default: hello
    - id: locked
      label: Locked
      default: fixed
      disabled: true
    - id: f2
      label: Second
state:
  persist: true
`

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitDir(projectDir); err != nil {
		t.Fatalf("init dir: %v", err)
	}
	path := filepath.Join(projectDir, config.Dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(testConfigYAML)), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...AppOption) *App {
	t.Helper()
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func press(t *testing.T, app *App, msg tea.KeyMsg) {
	t.Helper()
	model, _ := app.Update(msg)
	if model.(*App) != app {
		t.Fatalf("update returned a different model")
	}
}

func typeRunes(t *testing.T, app *App, text string) {
	t.Helper()
	press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// drainRerun feeds a pending rerun request back into the app, as the
// program loop would.
func drainRerun(t *testing.T, app *App) bool {
	t.Helper()
	select {
	case req := <-app.state.Reruns():
		app.Update(rerunMsg(req))
		return true
	default:
		return false
	}
}

func TestMountSeedsWithoutRerun(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))
	for id, want := range map[string]string{"f1": "hello", "locked": "fixed", "f2": ""} {
		e, ok := app.state.Get(id)
		if !ok {
			t.Fatalf("field %s not seeded", id)
		}
		if e.Value != want || e.Origin != field.OriginSystem {
			t.Fatalf("seed for %s = %+v", id, e)
		}
	}
	if drainRerun(t, app) {
		t.Fatalf("seeding must not schedule a rerun")
	}
	if app.focus != 0 {
		t.Fatalf("expected first field focused, got %d", app.focus)
	}
}

func TestTabCommitsAndSkipsDisabledField(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))
	typeRunes(t, app, " world")
	if got := app.state.StringValue("f1", ""); got != "hello" {
		t.Fatalf("edit leaked before commit: %q", got)
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if app.focus != 2 {
		t.Fatalf("expected focus to skip disabled field, got %d", app.focus)
	}
	e, _ := app.state.Get("f1")
	if e.Value != "hello world" || e.Origin != field.OriginUser {
		t.Fatalf("blur commit = %+v", e)
	}
	if !drainRerun(t, app) {
		t.Fatalf("expected rerun after user commit")
	}
	if app.runs != 1 {
		t.Fatalf("runs = %d, want 1", app.runs)
	}
	if app.summary[0].Words != 2 {
		t.Fatalf("summary not recomputed: %+v", app.summary[0])
	}
}

func TestTabWithoutEditDoesNotRerun(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	press(t, app, tea.KeyMsg{Type: tea.KeyShiftTab})
	if app.focus != 0 {
		t.Fatalf("expected focus back on first field, got %d", app.focus)
	}
	if drainRerun(t, app) {
		t.Fatalf("focus changes without edits must not rerun")
	}
}

func TestApplyKeyCommitsInPlace(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))
	typeRunes(t, app, "!")
	press(t, app, tea.KeyMsg{Type: tea.KeyCtrlJ})
	if app.focus != 0 {
		t.Fatalf("apply must keep focus")
	}
	if got := app.state.StringValue("f1", ""); got != "hello!" {
		t.Fatalf("applied value = %q", got)
	}
	if !drainRerun(t, app) {
		t.Fatalf("expected rerun")
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if drainRerun(t, app) {
		t.Fatalf("focus loss after apply must not commit again")
	}
}

func TestQuitCommitsAndPersists(t *testing.T) {
	cfg := newTestConfig(t)
	app := newTestApp(t, cfg)
	typeRunes(t, app, " again")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	restored := newTestApp(t, cfg, WithStateManager(state.NewManager()))
	if got := restored.fields[0].Value(); got != "hello again" {
		t.Fatalf("restored draft = %q", got)
	}
	if restored.fields[0].Dirty() {
		t.Fatalf("restored field must start clean")
	}
	if drainRerun(t, restored) {
		t.Fatalf("restoring must not rerun")
	}
	if !strings.Contains(restored.View(), "Restored") {
		t.Fatalf("expected restore status in view")
	}
}

func TestJournalShownInView(t *testing.T) {
	cfg := newTestConfig(t)
	book, err := logbook.New(cfg.JournalPath())
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	app := newTestApp(t, cfg, WithLogbook(book))
	view := app.View()
	for _, want := range []string{"Test form", "First", "Runs: 0", "Journal (3 entries)", "system"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDirtyFieldShowsApplyHint(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))
	if strings.Contains(app.View(), field.ApplyHint) {
		t.Fatalf("clean form must not show hint")
	}
	typeRunes(t, app, "x")
	if !strings.Contains(app.View(), field.ApplyHint) {
		t.Fatalf("dirty field must show hint")
	}
}

func TestRerunWithUnchangedValuesHitsCache(t *testing.T) {
	cfg := newTestConfig(t)
	store, err := cache.Open(cfg.CacheDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	app := newTestApp(t, cfg, WithCache(store))
	if got := store.Stats(); got != (cache.Stats{Misses: 1}) {
		t.Fatalf("mount stats = %+v", got)
	}

	typeRunes(t, app, "!")
	press(t, app, tea.KeyMsg{Type: tea.KeyCtrlJ})
	if !drainRerun(t, app) {
		t.Fatalf("expected rerun")
	}
	if got := store.Stats(); got != (cache.Stats{Misses: 2}) {
		t.Fatalf("new values must miss, stats = %+v", got)
	}

	press(t, app, tea.KeyMsg{Type: tea.KeyBackspace})
	press(t, app, tea.KeyMsg{Type: tea.KeyCtrlJ})
	if got := app.state.StringValue("f1", ""); got != "hello" {
		t.Fatalf("committed %q, want hello", got)
	}
	if !drainRerun(t, app) {
		t.Fatalf("expected rerun for the reverted value")
	}
	if got := store.Stats(); got != (cache.Stats{Hits: 1, Misses: 2}) {
		t.Fatalf("reverted values must hit, stats = %+v", got)
	}
	if app.runs != 2 || app.summary[0].Words != 1 {
		t.Fatalf("runs=%d summary=%+v", app.runs, app.summary[0])
	}

	press(t, app, tea.KeyMsg{Type: tea.KeyCtrlL})
	if got := store.Stats(); got != (cache.Stats{}) {
		t.Fatalf("stats after clear = %+v", got)
	}
	if !strings.Contains(app.View(), "Cache cleared") {
		t.Fatalf("expected clear status in view")
	}
}
