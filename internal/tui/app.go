// internal/tui/app.go
//
// This is the form TUI for draftfield. It uses bubbletea (The Elm Architecture):
// every configured field is a widget.Model, and the App routes input to the
// focused one.
//
// Edits stay inside each field until it loses focus or the apply key is
// pressed. Committed values land in the state manager, and user commits come
// back to the App as rerun requests that recompute the summary panel.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/draftfield/internal/cache"
	"github.com/kingrea/draftfield/internal/config"
	"github.com/kingrea/draftfield/internal/field"
	"github.com/kingrea/draftfield/internal/logbook"
	"github.com/kingrea/draftfield/internal/state"
	"github.com/kingrea/draftfield/internal/widget"
)

const journalTailLines = 4

// Logger is the narrow logging surface used by the App.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithStateManager injects the value sink shared by all fields.
func WithStateManager(m *state.Manager) AppOption {
	return func(a *App) {
		if m != nil {
			a.state = m
		}
	}
}

// WithLogbook records every commit in book.
func WithLogbook(book *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = book
	}
}

// WithCache memoizes summary recomputation in store.
func WithCache(store *cache.Store) AppOption {
	return func(a *App) {
		a.cache = store
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// rerunMsg carries a coalesced rerun request from the state manager.
type rerunMsg state.RerunRequest

type fieldSummary struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Lines int    `yaml:"lines"`
	Words int    `yaml:"words"`
}

// App is the main application model.
type App struct {
	config  *config.Config
	state   *state.Manager
	logbook *logbook.Logbook
	cache   *cache.Store
	logger  Logger

	fields []widget.Model
	focus  int // index into fields, -1 when nothing can take focus

	keys appKeyMap
	help help.Model

	runs      int
	lastRerun []string
	summary   []fieldSummary
	statusMsg string
	err       error

	width  int
	height int
}

// NewApp mounts one field per configured descriptor. Each field seeds the
// state manager before NewApp returns; values restored from a previous
// session replace the configured defaults.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tui: config is required")
	}
	a := &App{
		config: cfg,
		logger: nopLogger{},
		focus:  -1,
		help:   help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.state == nil {
		a.state = state.NewManager(state.WithLogger(a.logger))
	}

	if cfg.Project.State.Persist {
		n, err := a.state.Load(cfg.SnapshotPath())
		if err != nil {
			return nil, fmt.Errorf("tui: restore fields: %w", err)
		}
		if n > 0 {
			a.statusMsg = fmt.Sprintf("Restored %d fields", n)
		}
	}

	fieldKeys := widget.KeyMapFromKeys(cfg.Project.Keys.Apply)
	a.keys = newAppKeyMap(fieldKeys)

	var sink field.Sink = a.state
	if a.logbook != nil {
		sink = logbook.NewJournal(a.logbook, a.state)
	}
	for _, desc := range cfg.Descriptors() {
		desc.Default = a.state.StringValue(desc.ID, desc.Default)
		a.fields = append(a.fields, widget.New(desc, sink,
			widget.WithKeyMap(fieldKeys),
			widget.WithHeight(cfg.Project.Form.Height),
		))
	}
	a.logger.Printf("tui: mounted %d fields", len(a.fields))

	a.focus = a.nextFocusable(-1, 1)
	if a.focus >= 0 {
		a.fields[a.focus].Focus()
	}
	a.summary = a.recompute()
	return a, nil
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	var focusCmd tea.Cmd
	if a.focus >= 0 {
		focusCmd = a.fields[a.focus].Focus()
	}
	return tea.Batch(focusCmd, a.waitForRerun())
}

func (a *App) waitForRerun() tea.Cmd {
	reruns := a.state.Reruns()
	return func() tea.Msg {
		req, ok := <-reruns
		if !ok {
			return nil
		}
		return rerunMsg(req)
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		for i := range a.fields {
			if a.fields[i].Controller().Descriptor().Width == 0 {
				a.fields[i].SetWidth(max(20, msg.Width-4))
			}
		}
		return a, nil

	case rerunMsg:
		a.runs++
		a.lastRerun = msg.FieldIDs
		a.summary = a.recompute()
		a.logger.Printf("tui: run %d triggered by %s", a.runs, strings.Join(msg.FieldIDs, ","))
		return a, a.waitForRerun()

	case widget.CommittedMsg:
		a.statusMsg = fmt.Sprintf("Applied %s", msg.Event.FieldID)
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, a.quit()
		case key.Matches(msg, a.keys.Next):
			return a, a.moveFocus(1)
		case key.Matches(msg, a.keys.Prev):
			return a, a.moveFocus(-1)
		case key.Matches(msg, a.keys.Clear):
			a.clearCache()
			return a, nil
		}
	}

	if a.focus < 0 {
		return a, nil
	}
	var cmd tea.Cmd
	a.fields[a.focus], cmd = a.fields[a.focus].Update(msg)
	return a, cmd
}

// moveFocus blurs the current field, which commits any pending edit, and
// focuses the next enabled field in direction dir.
func (a *App) moveFocus(dir int) tea.Cmd {
	next := a.nextFocusable(a.focus, dir)
	if next < 0 || next == a.focus {
		return nil
	}
	var cmds []tea.Cmd
	if a.focus >= 0 {
		cmds = append(cmds, a.fields[a.focus].Blur())
	}
	a.focus = next
	cmds = append(cmds, a.fields[a.focus].Focus())
	return tea.Batch(cmds...)
}

func (a *App) nextFocusable(from, dir int) int {
	n := len(a.fields)
	if n == 0 {
		return -1
	}
	idx := from
	for step := 0; step < n; step++ {
		idx = ((idx+dir)%n + n) % n
		if !a.fields[idx].Disabled() {
			return idx
		}
	}
	return -1
}

func (a *App) quit() tea.Cmd {
	if a.focus >= 0 {
		a.fields[a.focus].Blur()
	}
	if a.config.Project.State.Persist {
		if err := a.state.Save(a.config.SnapshotPath()); err != nil {
			a.err = err
			a.logger.Printf("tui: save fields: %v", err)
			a.logbook.Error("save failed: %v", err)
		}
	}
	return tea.Quit
}

// recompute derives the summary panel from committed values only; drafts
// that have not been applied are invisible here. Results are memoized by the
// committed values, so a rerun over values already seen is a cache hit.
func (a *App) recompute() []fieldSummary {
	inputs := make([]string, 0, 3*len(a.fields))
	for _, f := range a.fields {
		desc := f.Controller().Descriptor()
		inputs = append(inputs, desc.ID, desc.Label, a.state.StringValue(desc.ID, ""))
	}
	out, hit, err := cache.Memoize(a.cache, cache.Key("summary", inputs...), a.summarize)
	if err != nil {
		a.logger.Printf("tui: cache summary: %v", err)
	}
	if hit {
		a.logger.Printf("tui: summary served from cache")
	}
	return out
}

func (a *App) summarize() []fieldSummary {
	out := make([]fieldSummary, 0, len(a.fields))
	for _, f := range a.fields {
		desc := f.Controller().Descriptor()
		value := a.state.StringValue(desc.ID, "")
		s := fieldSummary{ID: desc.ID, Label: desc.Label, Words: len(strings.Fields(value))}
		if value != "" {
			s.Lines = strings.Count(value, "\n") + 1
		}
		out = append(out, s)
	}
	return out
}

func (a *App) clearCache() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Clear(); err != nil {
		a.err = err
		return
	}
	a.statusMsg = "Cache cleared"
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// View renders the form, the summary panel and the help line.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.config.Project.Form.Title))
	b.WriteString("\n")
	for i, f := range a.fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(f.View())
	}
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(a.renderSummary()))
	b.WriteString("\n")
	if a.err != nil {
		b.WriteString(errorStyle.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	} else if a.statusMsg != "" {
		b.WriteString(statusStyle.Render(a.statusMsg))
		b.WriteString("\n")
	}
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) renderSummary() string {
	lines := []string{fmt.Sprintf("Runs: %d", a.runs)}
	if a.cache != nil {
		st := a.cache.Stats()
		lines[0] += mutedStyle.Render(fmt.Sprintf(" · cache %d hit / %d miss", st.Hits, st.Misses))
	}
	if len(a.lastRerun) > 0 {
		lines[0] += mutedStyle.Render(" · last triggered by " + strings.Join(a.lastRerun, ", "))
	}
	for _, s := range a.summary {
		lines = append(lines, fmt.Sprintf("%s: %d lines, %d words", s.Label, s.Lines, s.Words))
	}
	if tail, total := a.logbook.Tail(journalTailLines); total > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Journal (%d entries)", total)))
		for _, line := range tail {
			lines = append(lines, mutedStyle.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}
