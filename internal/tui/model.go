package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
	"github.com/patelanuj7/calculatorapp/foundation/utils/mathx"
	"github.com/patelanuj7/calculatorapp/internal/history/store"
	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
	"github.com/patelanuj7/calculatorapp/pkg/core/version"
)

const (
	defaultRecentEntries = 5
	historyTimeout       = 2 * time.Second
)

// Evaluator evaluates the display text on "="
type Evaluator interface {
	Evaluate(text string) (float64, error)
}

// Config holds TUI configuration
type Config struct {
	Engine        Evaluator
	History       store.HistoryStore // optional
	RecentEntries int
	Logger        *logging.Logger
}

// Model is the keypad calculator model
type Model struct {
	// State
	width  int
	height int
	row    int
	col    int

	// Components
	display textinput.Model
	help    help.Model
	keys    keyMap

	// Collaborators
	engine  Evaluator
	history store.HistoryStore
	logger  *logging.Logger

	// Recent results, newest first
	recent    []string
	maxRecent int
	status    string
}

// historyLoadedMsg carries the entries read at startup
type historyLoadedMsg struct {
	records []*store.Record
	err     error
}

// historyRecordedMsg reports the outcome of a history write
type historyRecordedMsg struct {
	err error
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	if cfg.RecentEntries <= 0 {
		cfg.RecentEntries = defaultRecentEntries
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("calc-tui")
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "0"
	ti.CharLimit = 256
	ti.Width = 30
	ti.Focus()

	return Model{
		display:   ti,
		help:      help.New(),
		keys:      defaultKeyMap(),
		engine:    cfg.Engine,
		history:   cfg.History,
		logger:    cfg.Logger,
		maxRecent: cfg.RecentEntries,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadHistory())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.status = "history unavailable"
			m.logger.WarnWithErr("Failed to load history", msg.err)
			return m, nil
		}
		for i := len(msg.records) - 1; i >= 0; i-- {
			m.pushRecent(formatRecord(msg.records[i]))
		}
		return m, nil

	case historyRecordedMsg:
		if msg.err != nil {
			m.status = "history unavailable"
			m.logger.WarnWithErr("Failed to record history", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.moveSelection(-1, 0)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.moveSelection(1, 0)
			return m, nil
		case key.Matches(msg, m.keys.Left):
			m.moveSelection(0, -1)
			return m, nil
		case key.Matches(msg, m.keys.Right):
			m.moveSelection(0, 1)
			return m, nil
		case key.Matches(msg, m.keys.Press):
			return m, m.Press(m.Selected())
		case key.Matches(msg, m.keys.Evaluate):
			return m, m.Press(KeyEquals)
		case key.Matches(msg, m.keys.Backspace):
			return m, m.Press(KeyBackspace)
		case key.Matches(msg, m.keys.Clear):
			return m, m.Press(KeyClear)
		}

		// A failure text is replaced by the next entry
		if mathx.IsErrorText(m.display.Value()) && msg.Type == tea.KeyRunes {
			m.setDisplay("")
		}
	}

	var cmd tea.Cmd
	m.display, cmd = m.display.Update(msg)
	return m, cmd
}

// Press applies one keypad button to the display
func (m *Model) Press(label string) tea.Cmd {
	m.status = ""

	switch label {
	case KeyEquals:
		return m.calculate()
	case KeyClear:
		m.setDisplay("")
	case KeyBackspace:
		m.backspace()
	case KeyMod:
		m.appendText("%")
	case KeyFactorial:
		m.factorial()
	default:
		if mathx.IsFunction(label) {
			m.applyFunction(label)
			return nil
		}
		m.appendText(label)
	}
	return nil
}

// Display returns the current display text
func (m Model) Display() string {
	return m.display.Value()
}

// Selected returns the label of the highlighted keypad button
func (m Model) Selected() string {
	return Keypad[m.row][m.col]
}

// Recent returns the recent results, newest first
func (m Model) Recent() []string {
	return append([]string(nil), m.recent...)
}

func (m *Model) moveSelection(dRow, dCol int) {
	rows := len(Keypad)
	cols := len(Keypad[0])
	m.row = (m.row + dRow + rows) % rows
	m.col = (m.col + dCol + cols) % cols
}

func (m *Model) setDisplay(text string) {
	m.display.SetValue(text)
	m.display.CursorEnd()
}

func (m *Model) appendText(text string) {
	current := m.display.Value()
	if mathx.IsErrorText(current) {
		current = ""
	}
	m.setDisplay(current + text)
}

func (m *Model) backspace() {
	current := m.display.Value()
	if current == "" {
		return
	}
	if mathx.IsErrorText(current) {
		m.setDisplay("")
		return
	}
	runes := []rune(current)
	m.setDisplay(string(runes[:len(runes)-1]))
}

// calculate evaluates the display. An entry containing % is a modulo of
// two numbers, anything else goes through the engine.
func (m *Model) calculate() tea.Cmd {
	expression := m.display.Value()
	if strings.TrimSpace(expression) == "" || mathx.IsErrorText(expression) {
		return nil
	}

	start := time.Now()
	var value float64
	var err error
	if mathx.HasModulo(expression) {
		value, err = mathx.EvaluateModulo(expression)
	} else if m.engine != nil {
		value, err = m.engine.Evaluate(expression)
	} else {
		err = mdwerror.New("no engine configured").WithCode(mdwerror.CodeInternal)
	}
	duration := time.Since(start)

	if err != nil {
		m.setDisplay(mathx.ErrorText)
		m.pushRecent(fmt.Sprintf("%s = %s", expression, mathx.ErrorText))
	} else {
		result := mathx.FormatResult(value)
		m.setDisplay(result)
		m.pushRecent(fmt.Sprintf("%s = %s", expression, result))
	}

	return m.recordHistory(expression, value, err, duration)
}

func (m *Model) factorial() {
	result, err := mathx.FactorialString(m.display.Value())
	if err != nil {
		m.setDisplay(mathx.DisplayError(err))
		return
	}
	m.setDisplay(result)
}

func (m *Model) applyFunction(name string) {
	value, err := mathx.ApplyString(name, m.display.Value())
	if err != nil {
		m.setDisplay(mathx.DisplayError(err))
		return
	}
	m.setDisplay(mathx.FormatResult(value))
}

func (m *Model) pushRecent(line string) {
	m.recent = append([]string{line}, m.recent...)
	if len(m.recent) > m.maxRecent {
		m.recent = m.recent[:m.maxRecent]
	}
}

func (m Model) loadHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	history := m.history
	limit := m.maxRecent
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		records, err := history.List(ctx, store.Filter{Limit: limit})
		return historyLoadedMsg{records: records, err: err}
	}
}

func (m Model) recordHistory(expression string, value float64, evalErr error, duration time.Duration) tea.Cmd {
	if m.history == nil {
		return nil
	}

	record := &store.Record{
		Expression: expression,
		Value:      value,
		Success:    evalErr == nil,
		Source:     store.SourceTUI,
		RequestID:  uuid.New().String(),
		Duration:   duration,
	}
	if evalErr != nil {
		record.ErrorCode = mdwerror.GetCode(evalErr).String()
		record.Error = evalErr.Error()
	}

	history := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		return historyRecordedMsg{err: history.Record(ctx, record)}
	}
}

func formatRecord(r *store.Record) string {
	if !r.Success {
		return fmt.Sprintf("%s = %s", r.Expression, mathx.ErrorText)
	}
	return fmt.Sprintf("%s = %s", r.Expression, mathx.FormatResult(r.Value))
}

// View renders the model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle(fmt.Sprintf("Calculator v%s", version.TUI)))
	b.WriteString("\n")

	displayStyle := DisplayStyle
	if mathx.IsErrorText(m.display.Value()) {
		displayStyle = ErrorDisplayStyle
	}
	b.WriteString(displayStyle.Width(4*9 - 2).Render(m.display.View()))
	b.WriteString("\n")

	b.WriteString(m.renderKeypad())

	if len(m.recent) > 0 {
		lines := make([]string, 0, len(m.recent))
		for _, line := range m.recent {
			if strings.HasSuffix(line, mathx.ErrorText) {
				lines = append(lines, HistoryErrorStyle.Render(line))
				continue
			}
			lines = append(lines, line)
		}
		b.WriteString(HistoryStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(RenderError(m.status))
		b.WriteString("\n")
	}

	b.WriteString(RenderHelp(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderKeypad() string {
	rows := make([]string, 0, len(Keypad))
	for r, labels := range Keypad {
		buttons := make([]string, 0, len(labels))
		for c, label := range labels {
			buttons = append(buttons, buttonStyle(label, r == m.row && c == m.col).Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func buttonStyle(label string, selected bool) lipgloss.Style {
	switch {
	case selected:
		return SelectedButtonStyle
	case mathx.IsFunction(label) || label == KeyFactorial || label == KeyMod:
		return FunctionButtonStyle
	case strings.Contains("+-*/%^=", label) && label != "":
		return OperatorButtonStyle
	default:
		return ButtonStyle
	}
}

// Run starts the TUI on the alternate screen and blocks until it exits
func Run(cfg Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
