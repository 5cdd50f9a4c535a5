package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/ragchat/internal/widget"
)

// Title is shown above the input.
const Title = "RAG Q&A Chatbot"

// answerMsg carries the outcome of one background fetch.
type answerMsg struct {
	answer string
	err    error
}

// Model is the Bubble Tea model for the terminal chat widget.
type Model struct {
	widget   *widget.Widget
	input    textinput.Model
	viewport viewport.Model
	timeout  time.Duration
	ready    bool
}

// New creates a terminal model driven by w.
func New(w *widget.Widget, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 0
	if timeout <= 0 {
		timeout = widget.DefaultTimeout
	}
	return Model{widget: w, input: ti, viewport: viewport.New(0, 0), timeout: timeout}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, resize and fetch result events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 + ah // title, spacer, input box, status
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case answerMsg:
		m.widget.Settle(msg.answer, msg.err)
		m.viewport.SetContent(m.renderAnswer())
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m, m.submit()
		}
		if msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.widget.SetQuestion(m.input.Value())
	return m, cmd
}

// submit starts a fetch unless one is already running.
func (m Model) submit() tea.Cmd {
	m.widget.SetQuestion(m.input.Value())
	q, ok := m.widget.Begin()
	if !ok {
		return nil
	}
	w, timeout := m.widget, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		answer, err := w.Fetch(ctx, q)
		return answerMsg{answer: answer, err: err}
	}
}

// View renders the title, input with its button and the answer panel.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render(Title)
	button := buttonStyle.Render("[ " + m.widget.ButtonLabel() + " ]")
	if m.widget.IsLoading() {
		button = loadingButtonStyle.Render("[ " + m.widget.ButtonLabel() + " ]")
	}
	input := queryBoxStyle.Render(m.input.View()) + " " + button

	parts := []string{title, input}
	if m.widget.HasAnswer() {
		parts = append(parts, answerBoxStyle.Render(m.viewport.View()))
	}
	parts = append(parts, helpStyle.Render("enter: ask • pgup/pgdn: scroll • esc: quit"))
	return strings.Join(parts, "\n")
}

func (m Model) renderAnswer() string {
	if !m.widget.HasAnswer() {
		return ""
	}
	body := m.widget.Answer()
	if m.widget.LastError() != nil {
		body = errorStyle.Render(body)
	}
	return headingStyle.Render("Answer:") + "\n\n" + lipgloss.NewStyle().Width(m.viewport.Width).Render(body)
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true)
	headingStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	buttonStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	loadingButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
