package testing

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxSteps bounds one Send so a model that keeps rescheduling itself
// cannot hang a test.
const maxSteps = 2000

// Driver feeds messages to a model and runs the commands it returns,
// delivering their messages back the way a tea.Program would. Commands that
// do not return within Timeout, such as long tea.Ticks, are dropped.
type Driver struct {
	Model   tea.Model
	Seen    []tea.Msg
	Timeout time.Duration
	Quit    bool
}

// NewDriver wraps m without calling Init.
func NewDriver(m tea.Model) *Driver {
	return &Driver{Model: m, Timeout: 200 * time.Millisecond}
}

// Start runs Init and settles the commands it triggers.
func (d *Driver) Start() *Driver {
	d.settle(d.run(d.Model.Init()))
	return d
}

// Send delivers msgs in order, settling the commands of each.
func (d *Driver) Send(msgs ...tea.Msg) *Driver {
	for _, msg := range msgs {
		d.settle([]tea.Msg{msg})
	}
	return d
}

// Type sends one key press per rune of text.
func (d *Driver) Type(text string) *Driver {
	return d.Send(Type(text)...)
}

// View renders the current model without ANSI codes.
func (d *Driver) View() string {
	return StripANSI(d.Model.View())
}

func (d *Driver) settle(queue []tea.Msg) {
	for steps := 0; len(queue) > 0 && steps < maxSteps; steps++ {
		msg := queue[0]
		queue = queue[1:]
		d.Seen = append(d.Seen, msg)

		var cmd tea.Cmd
		d.Model, cmd = d.Model.Update(msg)
		queue = append(queue, d.run(cmd)...)
	}
}

func (d *Driver) run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, d.run(c)...)
			}
			return out
		case tea.QuitMsg:
			d.Quit = true
			return nil
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(d.Timeout):
		return nil
	}
}
