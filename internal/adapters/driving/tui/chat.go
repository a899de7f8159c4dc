// Package tui provides the interactive chat interface built on Bubble Tea.
// It drives the same question answering pipeline as `aska ask`, one
// question per turn, rendering answers with their sources.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driving"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// exchange is one question/answer turn in the conversation.
type exchange struct {
	question string
	answer   *domain.Answer
	err      error
}

// answerMsg carries a completed pipeline call back into the update loop.
type answerMsg struct {
	question string
	answer   *domain.Answer
	err      error
}

// Chat is the Bubble Tea model for the chat session.
type Chat struct {
	answerer driving.Answerer
	ctx      context.Context

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	history []exchange
	waiting bool
	ready   bool
}

// NewChat creates a chat model over the given pipeline.
func NewChat(ctx context.Context, answerer driving.Answerer) Chat {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Chat{
		answerer: answerer,
		ctx:      ctx,
		input:    ti,
		viewport: viewport.New(0, 0),
		spin:     sp,
	}
}

// Init starts the cursor blink.
func (m Chat) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameH := inputBoxStyle.GetFrameSize()
		reserved := 2 + frameH + 1 // header, input frame, status line
		m.viewport.Width = msg.Width
		m.viewport.Height = max(3, msg.Height-reserved)
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.String() == "esc" {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spin.Tick, m.ask(question))
		}

	case answerMsg:
		m.waiting = false
		m.history = append(m.history, exchange{
			question: msg.question,
			answer:   msg.answer,
			err:      msg.err,
		})
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the conversation, the input box and the status line.
func (m Chat) View() string {
	if !m.ready {
		return "Loading..."
	}

	status := "Enter to ask, Esc to quit."
	if m.waiting {
		status = m.spin.View() + " Thinking..."
	}

	return headerStyle.Render("Aska Chat") + "\n" +
		m.viewport.View() + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		sourceStyle.Render(status)
}

// ask runs the pipeline off the update loop.
func (m Chat) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.answerer.Ask(m.ctx, question, domain.QueryOptions{})
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// renderHistory formats every completed exchange.
func (m Chat) renderHistory() string {
	if len(m.history) == 0 {
		return "Ask anything about your ingested documents."
	}

	var b strings.Builder
	for i, ex := range m.history {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(questionStyle.Render("You: "+ex.question) + "\n")

		switch {
		case ex.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", ex.err)) + "\n")
		case ex.answer != nil:
			b.WriteString(ex.answer.Text + "\n")
			for j, src := range ex.answer.Sources {
				line := fmt.Sprintf("  [%d] %s", j+1, src.SourceID)
				if src.Page != nil {
					line += fmt.Sprintf(" (page %d)", *src.Page)
				}
				b.WriteString(sourceStyle.Render(line) + "\n")
			}
		}
	}
	return b.String()
}
