package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/klauern/numfield/internal/config"
	"github.com/klauern/numfield/internal/numfmt"
)

// previewSample is formatted with the edited options on every change.
var previewSample = numfmt.Float(-1234.5)

// SettingsAction represents what the user chose when leaving the editor.
type SettingsAction int

const (
	// SettingsActionNone means the user quit without saving.
	SettingsActionNone SettingsAction = iota
	// SettingsActionSave means the configuration should be written.
	SettingsActionSave
)

// SettingsResult contains the outcome of the settings editor.
type SettingsResult struct {
	Action SettingsAction
	Config *config.Config
}

type settingKind int

const (
	kindBool settingKind = iota
	kindChoice
	kindText
)

// setting is one editable configuration value.
type setting struct {
	section string
	name    string
	help    string
	kind    settingKind
	choices []string
	get     func(*config.Config) string
	set     func(*config.Config, string) error
}

func boolSetting(section, name, help string, field func(*config.Config) *bool) setting {
	return setting{
		section: section, name: name, help: help, kind: kindBool,
		get: func(c *config.Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *config.Config, s string) error {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return err
			}
			*field(c) = b
			return nil
		},
	}
}

func intSetting(section, name, help string, field func(*config.Config) *int) setting {
	return setting{
		section: section, name: name, help: help, kind: kindText,
		get: func(c *config.Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *config.Config, s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("%q is not a whole number", s)
			}
			*field(c) = n
			return nil
		},
	}
}

func textSetting(section, name, help string, field func(*config.Config) *string) setting {
	return setting{
		section: section, name: name, help: help, kind: kindText,
		get: func(c *config.Config) string { return *field(c) },
		set: func(c *config.Config, s string) error {
			*field(c) = s
			return nil
		},
	}
}

func durationSetting(section, name, help string, field func(*config.Config) *time.Duration) setting {
	return setting{
		section: section, name: name, help: help, kind: kindText,
		get: func(c *config.Config) string { return field(c).String() },
		set: func(c *config.Config, s string) error {
			d, err := time.ParseDuration(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			*field(c) = d
			return nil
		},
	}
}

func defaultSettings() []setting {
	return []setting{
		boolSetting("Format", "integer", "Disallow decimal places",
			func(c *config.Config) *bool { return &c.Format.Integer }),
		{
			section: "Format", name: "sign", help: "Force values to one side of zero",
			kind: kindChoice, choices: []string{"any", "positive", "negative"},
			get: func(c *config.Config) string { return c.Format.Sign.String() },
			set: func(c *config.Config, s string) error {
				sign, err := numfmt.ParseSignConstraint(s)
				if err != nil {
					return err
				}
				c.Format.Sign = sign
				return nil
			},
		},
		intSetting("Format", "min_decimal_places", "Places values collapse to",
			func(c *config.Config) *int { return &c.Format.MinDecimalPlaces }),
		intSetting("Format", "max_decimal_places", "Absolute precision limit",
			func(c *config.Config) *int { return &c.Format.MaxDecimalPlaces }),
		boolSetting("Format", "always_show_decimals", "Pad whole numbers to min places",
			func(c *config.Config) *bool { return &c.Format.AlwaysShowDecimals }),
		boolSetting("Format", "group_digits", "Separate thousands",
			func(c *config.Config) *bool { return &c.Format.GroupDigits }),
		textSetting("Format", "prefix", "Text before the number",
			func(c *config.Config) *string { return &c.Format.Prefix }),
		textSetting("Format", "suffix", "Text after the number",
			func(c *config.Config) *string { return &c.Format.Suffix }),
		{
			section: "Format", name: "default", help: "Fallback for rejected input",
			kind: kindText,
			get: func(c *config.Config) string {
				if c.Format.Default.IsEmpty() {
					return "null"
				}
				return c.Format.Default.String()
			},
			set: func(c *config.Config, s string) error {
				v, err := numfmt.ParseValue(s)
				if err != nil {
					return err
				}
				c.Format.Default = v
				return nil
			},
		},
		textSetting("Format", "group_separator", "Thousands separator",
			func(c *config.Config) *string { return &c.Format.Locale.GroupSeparator }),
		textSetting("Format", "decimal_separator", "Decimal separator",
			func(c *config.Config) *string { return &c.Format.Locale.DecimalSeparator }),
		durationSetting("Field", "debounce", "Quiet period before a commit",
			func(c *config.Config) *time.Duration { return &c.Field.Debounce }),
		boolSetting("Field", "instant_updates", "Commit on every keystroke",
			func(c *config.Config) *bool { return &c.Field.InstantUpdates }),
		boolSetting("Field", "select_all_on_focus", "Select the buffer on focus",
			func(c *config.Config) *bool { return &c.Field.SelectAllOnFocus }),
		durationSetting("Field", "select_cooldown", "Select-all pause after blur",
			func(c *config.Config) *time.Duration { return &c.Field.SelectCooldown }),
		boolSetting("Field", "disabled", "Make the field read-only",
			func(c *config.Config) *bool { return &c.Field.Disabled }),
		{
			section: "Output", name: "color", help: "Color output mode",
			kind: kindChoice, choices: []string{config.ColorAuto, config.ColorAlways, config.ColorNever},
			get: func(c *config.Config) string { return c.Output.Color },
			set: func(c *config.Config, s string) error {
				c.Output.Color = s
				return nil
			},
		},
		boolSetting("Output", "verbose", "Info level logging",
			func(c *config.Config) *bool { return &c.Output.Verbose }),
	}
}

type settingsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Edit   key.Binding
	Save   key.Binding
	Reset  key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultSettingsKeyMap() settingsKeyMap {
	return settingsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle/cycle"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var settingsStyles = struct {
	Title    lipgloss.Style
	Modified lipgloss.Style
	Prompt   lipgloss.Style
	Input    lipgloss.Style
	Preview  lipgloss.Style
	Error    lipgloss.Style
	Confirm  lipgloss.Style
	Status   lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Modified: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	Input:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	Preview:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Confirm:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Padding(1, 2),
	Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
}

// SettingsModel is the BubbleTea model for interactive config editing.
// Every change is validated; a change that makes the configuration invalid
// is rolled back and its error shown.
type SettingsModel struct {
	table      table.Model
	settings   []setting
	keys       settingsKeyMap
	cfg        *config.Config
	defaults   *config.Config
	result     SettingsResult
	editing    bool
	editValue  string
	confirming bool
	modified   bool
	err        error
	quitting   bool
}

// NewSettingsModel creates an editor working on a copy of cfg.
func NewSettingsModel(cfg *config.Config) SettingsModel {
	if cfg == nil {
		cfg = config.Default()
	}
	working := *cfg

	columns := []table.Column{
		{Title: "Section", Width: 8},
		{Title: "Setting", Width: 22},
		{Title: "Value", Width: 14},
		{Title: "Description", Width: 32},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(len(defaultSettings())),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	m := SettingsModel{
		table:    t,
		settings: defaultSettings(),
		keys:     defaultSettingsKeyMap(),
		cfg:      &working,
		defaults: config.Default(),
	}
	m.refreshRows()
	return m
}

func (m *SettingsModel) refreshRows() {
	rows := make([]table.Row, len(m.settings))
	for i, s := range m.settings {
		rows[i] = table.Row{
			s.section,
			s.name,
			fitWidth(s.get(m.cfg), 14),
			fitWidth(s.help, 32),
		}
	}
	m.table.SetRows(rows)
}

func (m *SettingsModel) current() *setting {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.settings) {
		return nil
	}
	return &m.settings[i]
}

// apply sets the current setting and keeps the change only when the whole
// configuration still validates.
func (m *SettingsModel) apply(value string) {
	s := m.current()
	if s == nil {
		return
	}
	before := *m.cfg
	err := s.set(m.cfg, value)
	if err == nil {
		err = m.cfg.Validate()
	}
	if err != nil {
		*m.cfg = before
		m.err = fmt.Errorf("%s.%s: %w", strings.ToLower(s.section), s.name, err)
		return
	}
	m.err = nil
	m.modified = true
	m.refreshRows()
}

func (m *SettingsModel) cycle() {
	s := m.current()
	if s == nil {
		return
	}
	switch s.kind {
	case kindBool:
		b, _ := strconv.ParseBool(s.get(m.cfg))
		m.apply(strconv.FormatBool(!b))
	case kindChoice:
		next := 0
		for i, c := range s.choices {
			if c == s.get(m.cfg) {
				next = (i + 1) % len(s.choices)
				break
			}
		}
		m.apply(s.choices[next])
	}
}

// Init implements tea.Model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(min(max(msg.Height-12, 5), len(m.settings)))
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.confirming:
			return m.handleConfirm(msg)
		case m.editing:
			return m.handleEditing(msg), nil
		default:
			return m.handleBrowsing(msg)
		}
	}
	return m, nil
}

func (m SettingsModel) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.finish(SettingsActionSave)
	case "n", "N":
		return m.finish(SettingsActionNone)
	case "esc":
		m.confirming = false
	}
	return m, nil
}

func (m SettingsModel) handleEditing(msg tea.KeyMsg) SettingsModel {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.apply(m.editValue)
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyBackspace:
		if r := []rune(m.editValue); len(r) > 0 {
			m.editValue = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.editValue += " "
	case tea.KeyRunes:
		m.editValue += string(msg.Runes)
	}
	return m
}

func (m SettingsModel) handleBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.modified {
			m.confirming = true
			return m, nil
		}
		return m.finish(SettingsActionNone)
	case key.Matches(msg, m.keys.Save):
		return m.finish(SettingsActionSave)
	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(1)
	case key.Matches(msg, m.keys.Toggle):
		m.cycle()
	case key.Matches(msg, m.keys.Edit):
		if s := m.current(); s != nil && s.kind == kindText {
			m.editing = true
			m.editValue = s.get(m.cfg)
		}
	case key.Matches(msg, m.keys.Reset):
		if s := m.current(); s != nil {
			m.apply(s.get(m.defaults))
		}
	case key.Matches(msg, m.keys.Cancel):
		m.err = nil
	}
	return m, nil
}

func (m SettingsModel) finish(action SettingsAction) (tea.Model, tea.Cmd) {
	m.result = SettingsResult{Action: action}
	if action == SettingsActionSave {
		m.result.Config = m.cfg
	}
	m.quitting = true
	return m, tea.Quit
}

// preview formats the sample value with the edited options.
func (m SettingsModel) preview() string {
	f, err := numfmt.New(m.cfg.Format)
	if err != nil {
		return ""
	}
	return f.FormatValue(previewSample)
}

// View implements tea.Model.
func (m SettingsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "numfield settings"
	if m.modified {
		title += settingsStyles.Modified.Render(" [modified]")
	}
	b.WriteString(settingsStyles.Title.Render(title))
	b.WriteString("\n\n")

	if m.editing {
		if s := m.current(); s != nil {
			b.WriteString(settingsStyles.Prompt.Render(fmt.Sprintf("Edit %s: ", s.name)))
			b.WriteString(settingsStyles.Input.Render(m.editValue + "█"))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	fmt.Fprintf(&b, " %s %s\n", settingsStyles.Status.Render(previewSample.String()+" →"),
		settingsStyles.Preview.Render(m.preview()))
	if m.err != nil {
		b.WriteString(settingsStyles.Error.Render(" " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.confirming {
		b.WriteString(settingsStyles.Confirm.Render("Save changes before quitting? (y/n)"))
		return b.String()
	}

	var status string
	if s := m.current(); s != nil {
		switch s.kind {
		case kindBool:
			status = "space toggles"
		case kindChoice:
			status = "options: " + strings.Join(s.choices, ", ")
		default:
			status = "e edits, r resets"
		}
	}
	b.WriteString(settingsStyles.Status.Render(status))
	b.WriteString("\n")

	keys := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Edit, m.keys.Reset, m.keys.Save, m.keys.Quit}
	help := make([]string, 0, len(keys))
	for _, k := range keys {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(Styles.Help.Render(strings.Join(help, " • ")))
	return b.String()
}

// Result returns what the user chose.
func (m SettingsModel) Result() SettingsResult {
	return m.result
}

// ErrSettingsAborted is returned by RunSettings when the program ends
// without a settings model.
var ErrSettingsAborted = errors.New("settings editor aborted")

// RunSettings runs the interactive settings editor.
func RunSettings(cfg *config.Config) (SettingsResult, error) {
	finalModel, err := Run(NewSettingsModel(cfg), tea.WithAltScreen())
	if err != nil {
		return SettingsResult{}, err
	}
	m, ok := finalModel.(SettingsModel)
	if !ok {
		return SettingsResult{}, ErrSettingsAborted
	}
	return m.Result(), nil
}
