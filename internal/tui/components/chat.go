package components

import (
	"strings"

	"github.com/Veraticus/finanmaster/internal/assistant"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// QuickQuestions are offered when the chat input is empty.
var QuickQuestions = []string{
	"Como está meu saldo atual?",
	"Quais são minhas maiores despesas por categoria?",
	"Como estão minhas metas financeiras?",
	"Gere um relatório completo do mês atual",
}

// Chat is the assistant conversation: a scrolling history above an input.
type Chat struct {
	theme    themes.Theme
	viewport viewport.Model
	input    textinput.Model
	history  []model.ChatMessage
	quick    int
	thinking bool
}

// NewChat creates an empty conversation view.
func NewChat(theme themes.Theme) *Chat {
	in := textinput.New()
	in.Placeholder = "Pergunte algo sobre suas finanças..."
	in.CharLimit = 500
	in.Prompt = "› "
	in.Focus()

	return &Chat{
		theme:    theme,
		viewport: viewport.New(60, 10),
		input:    in,
		quick:    -1,
	}
}

// SetHistory replaces the messages shown and scrolls to the newest.
func (c *Chat) SetHistory(history []model.ChatMessage) {
	c.history = history
	c.refresh()
}

// SetThinking shows or hides the typing indicator.
func (c *Chat) SetThinking(thinking bool) {
	c.thinking = thinking
	c.refresh()
}

// Thinking reports whether an answer is pending.
func (c *Chat) Thinking() bool {
	return c.thinking
}

// Value returns the current input.
func (c *Chat) Value() string {
	return c.input.Value()
}

// Reset clears the input.
func (c *Chat) Reset() {
	c.input.Reset()
	c.quick = -1
}

// CycleQuick fills the input with the next quick question.
func (c *Chat) CycleQuick(delta int) {
	n := len(QuickQuestions)
	c.quick = ((c.quick+delta)%n + n) % n
	c.input.SetValue(QuickQuestions[c.quick])
	c.input.CursorEnd()
}

// Resize sets the conversation size; the input takes the last line.
func (c *Chat) Resize(width, height int) {
	c.viewport.Width = width
	c.viewport.Height = max(height-2, 3)
	c.input.Width = max(width-4, 10)
	c.refresh()
}

// Update edits the input or scrolls the history.
func (c *Chat) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.MouseMsg:
		c.viewport, cmd = c.viewport.Update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup", "pgdown":
			c.viewport, cmd = c.viewport.Update(msg)
		default:
			c.input, cmd = c.input.Update(msg)
		}
	default:
		c.input, cmd = c.input.Update(msg)
	}
	return cmd
}

func (c *Chat) refresh() {
	width := max(c.viewport.Width-2, 10)
	var b strings.Builder
	if len(c.history) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(c.theme.Muted).Render(
			"Olá! Sou seu assistente financeiro. ↑/↓ sugere perguntas."))
	}
	for i, msg := range c.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		stamp := lipgloss.NewStyle().Foreground(c.theme.Muted).Render(msg.Timestamp.Format("15:04"))
		switch msg.Sender {
		case model.SenderUser:
			b.WriteString(c.theme.StatusInfo.Render("Você") + " " + stamp + "\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Text))
		default:
			b.WriteString(c.theme.StatusSuccess.Render("Assistente") + " " + stamp + "\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Render(assistant.FormatResponse(msg.Text)))
		}
	}
	if c.thinking {
		b.WriteString("\n\n" + c.theme.StatusPending.Render("Assistente está digitando..."))
	}
	c.viewport.SetContent(b.String())
	c.viewport.GotoBottom()
}

// View renders the conversation and the input.
func (c *Chat) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		c.viewport.View(),
		"",
		c.input.View(),
	)
}
