package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/klauern/numfield/internal/field"
	"github.com/klauern/numfield/internal/numfmt"
)

// fieldWidth is the number of cells reserved for the field contents.
const fieldWidth = 28

// Commit is one change notification received by the host.
type Commit struct {
	Seq     int
	Value   numfmt.Value
	Display string
}

// NumericInputResult contains the outcome of an interactive session.
type NumericInputResult struct {
	// Value is the host's value when the session ended.
	Value numfmt.Value
	// Commits lists every change notification in order.
	Commits []Commit
}

// host owns the upstream value. It accepts every commit and feeds it back,
// the way a form would.
type host struct {
	value   numfmt.Value
	commits []Commit
	field   *field.Field
}

func (h *host) accept(v numfmt.Value) {
	h.value = v
	h.field.SetValue(v)
	h.commits = append(h.commits, Commit{
		Seq:     len(h.commits) + 1,
		Value:   v,
		Display: h.field.Formatter().FormatValue(v),
	})
}

// set simulates an external change of the upstream value.
func (h *host) set(v numfmt.Value) {
	h.value = v
	h.field.SetValue(v)
}

// numericInputKeyMap defines the key bindings for the numeric field.
type numericInputKeyMap struct {
	Toggle    key.Binding
	Blur      key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	Backspace key.Binding
	Delete    key.Binding
	StepUp    key.Binding
	StepDown  key.Binding
	Clear     key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultNumericInputKeyMap() numericInputKeyMap {
	return numericInputKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("tab", "enter"),
			key.WithHelp("tab/enter", "focus/blur"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "blur"),
		),
		Left:      key.NewBinding(key.WithKeys("left", "ctrl+b")),
		Right:     key.NewBinding(key.WithKeys("right", "ctrl+f")),
		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
		Delete:    key.NewBinding(key.WithKeys("delete", "ctrl+d")),
		StepUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "external +step"),
		),
		StepDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "external -step"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// Styles for the numeric input TUI.
var numericInputStyles = struct {
	Title    lipgloss.Style
	Box      lipgloss.Style
	Focused  lipgloss.Style
	Disabled lipgloss.Style
	Cursor   lipgloss.Style
	Select   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Pending  lipgloss.Style
	Help     lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
	Focused:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1),
	Disabled: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Foreground(lipgloss.Color("241")).Padding(0, 1),
	Cursor:   lipgloss.NewStyle().Reverse(true),
	Select:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
	Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// NumericInputModel is the BubbleTea model hosting one numeric field.
type NumericInputModel struct {
	field    *field.Field
	host     *host
	sched    *teaScheduler
	keys     numericInputKeyMap
	table    table.Model
	buffer   []rune
	cursor   int
	selected bool
	step     float64
	quitting bool
}

// NewNumericInputModel mounts a field showing initial. The scheduler in
// opts is replaced with one driven by the BubbleTea event loop. step is the
// amount pgup/pgdown add to the upstream value.
func NewNumericInputModel(initial numfmt.Value, opts field.Options, step float64) (NumericInputModel, error) {
	s := newTeaScheduler()
	opts.Scheduler = s
	h := &host{value: initial}
	f, err := field.New(initial, opts, h.accept)
	if err != nil {
		return NumericInputModel{}, err
	}
	h.field = f
	if step == 0 {
		step = 1
	}

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Value", Width: 16},
		{Title: "Display", Width: fieldWidth},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(8),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.Foreground(lipgloss.NoColor{}).Bold(false)
	t.SetStyles(st)

	return NumericInputModel{
		field: f,
		host:  h,
		sched: s,
		keys:  defaultNumericInputKeyMap(),
		table: t,
		step:  step,
	}, nil
}

// Init implements tea.Model.
func (m NumericInputModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m NumericInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerFiredMsg:
		if m.sched.fire(msg.id) {
			m.refreshTable()
		}
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		if m.field.Focused() {
			m = m.handleEditing(msg)
		} else {
			var cmd tea.Cmd
			m, cmd = m.handleIdle(msg)
			if cmd != nil {
				return m, cmd
			}
		}
		m.refreshTable()
	}
	return m, m.sched.drain()
}

func (m NumericInputModel) quit() (tea.Model, tea.Cmd) {
	m.field.Blur()
	m.field.Close()
	m.refreshTable()
	m.quitting = true
	return m, tea.Quit
}

// handleIdle handles keys while the field is blurred.
func (m NumericInputModel) handleIdle(msg tea.KeyMsg) (NumericInputModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		model, cmd := m.quit()
		return model.(NumericInputModel), cmd
	case key.Matches(msg, m.keys.Toggle):
		m.focus()
	case key.Matches(msg, m.keys.StepUp):
		m.stepUpstream(m.step)
	case key.Matches(msg, m.keys.StepDown):
		m.stepUpstream(-m.step)
	}
	return m, nil
}

// handleEditing handles keys while the field is focused.
func (m NumericInputModel) handleEditing(msg tea.KeyMsg) NumericInputModel {
	switch {
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Blur):
		m.field.Blur()
		m.selected = false
		return m
	case key.Matches(msg, m.keys.StepUp):
		m.stepUpstream(m.step)
		return m
	case key.Matches(msg, m.keys.StepDown):
		m.stepUpstream(-m.step)
		return m
	case key.Matches(msg, m.keys.Left):
		m.selected = false
		if m.cursor > 0 {
			m.cursor--
		}
		return m
	case key.Matches(msg, m.keys.Right):
		m.selected = false
		if m.cursor < len(m.buffer) {
			m.cursor++
		}
		return m
	case key.Matches(msg, m.keys.Home):
		m.selected = false
		m.cursor = 0
		return m
	case key.Matches(msg, m.keys.End):
		m.selected = false
		m.cursor = len(m.buffer)
		return m
	case key.Matches(msg, m.keys.Clear):
		m.edit(nil, 0)
		return m
	case key.Matches(msg, m.keys.Backspace):
		if m.selected {
			m.edit(nil, 0)
		} else if m.cursor > 0 {
			m.edit(splice(m.buffer, m.cursor-1, m.cursor, nil), m.cursor-1)
		}
		return m
	case key.Matches(msg, m.keys.Delete):
		if m.selected {
			m.edit(nil, 0)
		} else if m.cursor < len(m.buffer) {
			m.edit(splice(m.buffer, m.cursor, m.cursor+1, nil), m.cursor)
		}
		return m
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		if m.selected {
			m.edit(runes, len(runes))
		} else {
			m.edit(splice(m.buffer, m.cursor, m.cursor, runes), m.cursor+len(runes))
		}
	}
	return m
}

func (m *NumericInputModel) focus() {
	m.selected = m.field.Focus()
	m.buffer = []rune(m.field.Display())
	m.cursor = len(m.buffer)
}

// edit replaces the buffer and forwards it to the field.
func (m *NumericInputModel) edit(buffer []rune, cursor int) {
	m.selected = false
	m.buffer = buffer
	m.cursor = cursor
	m.field.Input(string(buffer))
}

// stepUpstream changes the host value as another component would.
func (m *NumericInputModel) stepUpstream(delta float64) {
	n, ok := m.host.value.Float64()
	if !ok {
		n = 0
	}
	m.host.set(numfmt.Float(n + delta))
}

func (m *NumericInputModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.host.commits))
	for i := len(m.host.commits) - 1; i >= 0; i-- {
		c := m.host.commits[i]
		value := c.Value.String()
		if c.Value.IsEmpty() {
			value = "∅"
		}
		rows = append(rows, table.Row{strconv.Itoa(c.Seq), fitWidth(value, 16), fitWidth(c.Display, fieldWidth)})
	}
	m.table.SetRows(rows)
}

func splice(buf []rune, from, to int, insert []rune) []rune {
	out := make([]rune, 0, len(buf)-(to-from)+len(insert))
	out = append(out, buf[:from]...)
	out = append(out, insert...)
	return append(out, buf[to:]...)
}

// View implements tea.Model.
func (m NumericInputModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(numericInputStyles.Title.Render("Numeric field"))
	b.WriteString("\n\n")
	b.WriteString(m.renderField())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m NumericInputModel) renderField() string {
	switch {
	case m.field.Disabled():
		return numericInputStyles.Disabled.Render(alignRight(truncate(m.field.Display(), fieldWidth), fieldWidth))
	case !m.field.Focused():
		return numericInputStyles.Box.Render(alignRight(truncate(m.field.Display(), fieldWidth), fieldWidth))
	}

	text := string(m.buffer)
	var content string
	switch {
	case m.selected && text != "":
		content = numericInputStyles.Select.Render(text)
	case m.cursor >= len(m.buffer):
		content = text + numericInputStyles.Cursor.Render(" ")
	default:
		content = string(m.buffer[:m.cursor]) +
			numericInputStyles.Cursor.Render(string(m.buffer[m.cursor])) +
			string(m.buffer[m.cursor+1:])
	}
	padding := fieldWidth - lipgloss.Width(content)
	if padding > 0 {
		content += strings.Repeat(" ", padding)
	}
	return numericInputStyles.Focused.Render(content)
}

func (m NumericInputModel) renderStatus() string {
	state := m.field.State()
	upstream := state.Upstream
	if upstream == "" {
		upstream = "∅"
	}
	parts := []string{
		numericInputStyles.Label.Render("upstream ") + numericInputStyles.Value.Render(upstream),
		numericInputStyles.Label.Render("preview ") + numericInputStyles.Value.Render(state.Session.Formatted),
	}
	if state.Pending {
		parts = append(parts, numericInputStyles.Pending.Render("commit pending"))
	}
	return strings.Join(parts, "  ")
}

func (m NumericInputModel) renderHelp() string {
	var keys []string
	if m.field.Focused() {
		keys = []string{"type to edit", "←/→ move", "tab/enter/esc blur", "pgup/pgdown external change", "ctrl+c quit"}
	} else {
		keys = []string{"tab/enter focus", "pgup/pgdown external change", "q quit"}
	}
	return numericInputStyles.Help.Render(strings.Join(keys, " • "))
}

// Result returns the result of the user interaction.
func (m NumericInputModel) Result() NumericInputResult {
	commits := make([]Commit, len(m.host.commits))
	copy(commits, m.host.commits)
	return NumericInputResult{Value: m.host.value, Commits: commits}
}

// String summarizes the session for logs.
func (r NumericInputResult) String() string {
	return fmt.Sprintf("value=%q commits=%d", r.Value.String(), len(r.Commits))
}

// RunNumericInput runs the interactive field and returns the final value.
func RunNumericInput(initial numfmt.Value, opts field.Options, step float64) (NumericInputResult, error) {
	model, err := NewNumericInputModel(initial, opts, step)
	if err != nil {
		return NumericInputResult{}, err
	}
	finalModel, err := Run(model)
	if err != nil {
		return NumericInputResult{}, err
	}

	if m, ok := finalModel.(NumericInputModel); ok {
		return m.Result(), nil
	}

	return NumericInputResult{}, nil
}
