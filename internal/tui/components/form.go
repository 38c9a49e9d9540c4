package components

import (
	"errors"
	"strings"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field describes one input of a form.
type Field struct {
	Key         string
	Label       string
	Placeholder string
}

// Form is a modal of text inputs. It only collects raw text; parsing and
// validation belong to the caller.
type Form struct {
	theme   themes.Theme
	errs    map[string]string
	title   string
	message string
	fields  []Field
	inputs  []textinput.Model
	focus   int
	width   int
	busy    bool
}

var (
	nextField = key.NewBinding(key.WithKeys("tab", "down"))
	prevField = key.NewBinding(key.WithKeys("shift+tab", "up"))
)

// NewForm creates a form with fields prefilled from values, focused on the
// first field.
func NewForm(title string, fields []Field, values map[string]string, theme themes.Theme) *Form {
	f := &Form{
		theme:  theme,
		title:  title,
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
		width:  40,
	}
	for i, field := range fields {
		in := textinput.New()
		in.Placeholder = field.Placeholder
		in.CharLimit = 120
		in.Width = f.width
		in.Prompt = ""
		in.SetValue(values[field.Key])
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// Title returns the form's heading.
func (f *Form) Title() string {
	return f.title
}

// Values returns the raw input keyed by field.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		out[field.Key] = f.inputs[i].Value()
	}
	return out
}

// Focused returns the key of the focused field.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].Key
}

// SetBusy marks the form as waiting on the server.
func (f *Form) SetBusy(busy bool) {
	f.busy = busy
}

// Busy reports whether a submit is in flight.
func (f *Form) Busy() bool {
	return f.busy
}

// SetError shows err on the form. Validation problems are shown next to
// their fields; anything else becomes the form's message.
func (f *Form) SetError(err error) {
	f.errs = nil
	f.message = ""
	if err == nil {
		return
	}
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		f.errs = verr.Fields
		return
	}
	f.message = common.Message(err)
}

// Resize sets the input width.
func (f *Form) Resize(width int) {
	f.width = max(width, 20)
	for i := range f.inputs {
		f.inputs[i].Width = f.width
	}
}

// Update moves between fields or edits the focused one.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, nextField):
			return f.move(1)
		case key.Matches(k, prevField):
			return f.move(-1)
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *Form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// View renders the modal body.
func (f *Form) View() string {
	label := f.theme.Bold.Width(14)
	errStyle := f.theme.StatusError

	lines := []string{f.theme.Title.Render(f.title)}
	for i, field := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = lipgloss.NewStyle().Foreground(f.theme.Primary).Render("› ")
		}
		line := marker + label.Render(field.Label) + f.inputs[i].View()
		if problem, ok := f.errs[field.Key]; ok {
			line += "\n" + strings.Repeat(" ", 16) + errStyle.Render(problem)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	switch {
	case f.busy:
		lines = append(lines, f.theme.StatusPending.Render("Salvando..."))
	case f.message != "":
		lines = append(lines, errStyle.Render(f.message))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(f.theme.Muted).Render("Enter salvar • Tab próximo campo • Esc cancelar"))

	return f.theme.Modal.Render(strings.Join(lines, "\n"))
}
