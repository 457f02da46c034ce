// Package widget hosts a field.Controller inside a bubbletea textarea and
// turns terminal input into the controller's edit and commit events.
package widget

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/draftfield/internal/field"
)

const defaultHeight = 4

// CommittedMsg is emitted after a user commit so the host can react.
type CommittedMsg struct {
	Event field.CommitEvent
}

// Option customizes Model construction.
type Option func(*Model)

// WithKeyMap overrides the apply binding.
func WithKeyMap(km KeyMap) Option {
	return func(m *Model) {
		m.KeyMap = km
	}
}

// WithHeight sets the number of visible text rows.
func WithHeight(rows int) Option {
	return func(m *Model) {
		if rows > 0 {
			m.input.SetHeight(rows)
		}
	}
}

// WithStyles overrides the default lipgloss styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.Styles = s
	}
}

// Model is a multi-line text field whose value reaches the sink only on
// focus loss or the apply key.
type Model struct {
	KeyMap KeyMap
	Styles Styles

	ctrl  *field.Controller
	input textarea.Model
}

// New mounts the field. The controller pushes desc.Default to sink before New
// returns.
func New(desc field.Descriptor, sink field.Sink, opts ...Option) Model {
	input := textarea.New()
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetHeight(defaultHeight)
	if desc.Width > 0 {
		input.SetWidth(desc.Width)
	}
	input.SetValue(desc.Default)

	m := Model{
		KeyMap: DefaultKeyMap(),
		Styles: DefaultStyles(),
		ctrl:   field.New(desc, sink),
		input:  input,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

func (m Model) ID() string                    { return m.ctrl.Descriptor().ID }
func (m Model) Focused() bool                 { return m.input.Focused() }
func (m Model) Value() string                 { return m.ctrl.Value() }
func (m Model) Dirty() bool                   { return m.ctrl.Dirty() }
func (m Model) Disabled() bool                { return m.ctrl.Descriptor().Disabled }
func (m Model) Controller() *field.Controller { return m.ctrl }

// SetWidth resizes the text area.
func (m *Model) SetWidth(w int) {
	if w > 0 {
		m.input.SetWidth(w)
	}
}

// Focus gives the field keyboard focus. Disabled fields never take focus.
func (m *Model) Focus() tea.Cmd {
	if m.Disabled() {
		return nil
	}
	return m.input.Focus()
}

// Blur removes focus and commits a pending edit.
func (m *Model) Blur() tea.Cmd {
	if !m.input.Focused() {
		return nil
	}
	m.input.Blur()
	return m.trigger()
}

// Update routes messages to the textarea while focused. The apply key is
// consumed here and never inserted into the text.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); isKey && (!m.input.Focused() || m.Disabled()) {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.KeyMap.Apply) {
		return m, m.trigger()
	}

	// The textarea normalizes text it is given (tabs, CRLF), so only a change
	// produced by this message counts as an edit.
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.ctrl.OnEdit(after)
	}
	return m, cmd
}

func (m *Model) trigger() tea.Cmd {
	if !m.ctrl.OnCommitTrigger() {
		return nil
	}
	ev := field.CommitEvent{FieldID: m.ID(), Value: m.ctrl.Value(), Origin: field.OriginUser}
	return func() tea.Msg { return CommittedMsg{Event: ev} }
}

// View draws the label, the text area and, while dirty, the apply hint.
func (m Model) View() string {
	s := m.ctrl.Render()
	label := m.Styles.Label
	switch {
	case s.Disabled:
		label = m.Styles.DisabledLabel
	case m.input.Focused():
		label = m.Styles.FocusedLabel
	}
	parts := []string{label.Render(s.Label), m.input.View()}
	if s.ShowApplyHint {
		parts = append(parts, m.Styles.Hint.Render(field.HintFor(m.KeyMap.Apply.Help().Key)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
