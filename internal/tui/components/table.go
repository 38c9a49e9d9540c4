package components

import (
	"github.com/Veraticus/finanmaster/internal/render"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Table is a bubbles table filled a chunk at a time. Every row remembers the
// key of the entity it shows, so one handler acts on the selection by key.
type Table[T any, K comparable] struct {
	theme    themes.Theme
	sink     *render.TableSink[T, K]
	renderer *render.Renderer[T]
	empty    string
	table    table.Model
}

// NewTable creates a table whose renderer routes chunks by id.
func NewTable[T any, K comparable](
	id string,
	columns []table.Column,
	row func(T) table.Row,
	key func(T) K,
	empty string,
	theme themes.Theme,
	opts ...render.Option,
) *Table[T, K] {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = theme.Selected
	t.SetStyles(s)

	sink := render.NewTableSink(row, key)
	return &Table[T, K]{
		theme:    theme,
		sink:     sink,
		renderer: render.New[T](id, sink, opts...),
		empty:    empty,
		table:    t,
	}
}

// Load starts a fresh rendering pass over items.
func (t *Table[T, K]) Load(items []T) tea.Cmd {
	cmd := t.renderer.Start(items)
	t.sync()
	return cmd
}

// Update renders the next chunk for this table's ChunkMsgs and forwards
// everything else to the table for cursor movement.
func (t *Table[T, K]) Update(msg tea.Msg) tea.Cmd {
	if chunk, ok := msg.(render.ChunkMsg); ok {
		if chunk.ID != t.renderer.ID() {
			return nil
		}
		cmd := t.renderer.Update(chunk)
		t.sync()
		return cmd
	}

	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return cmd
}

func (t *Table[T, K]) sync() {
	t.table.SetRows(t.sink.Rows())
}

// Selected returns the key of the row under the cursor.
func (t *Table[T, K]) Selected() (K, bool) {
	return t.sink.IDAt(t.table.Cursor())
}

// Len returns the number of rows rendered so far.
func (t *Table[T, K]) Len() int {
	return t.sink.Len()
}

// Loading reports whether rows are still being rendered.
func (t *Table[T, K]) Loading() bool {
	return !t.renderer.Done()
}

// Progress returns the rendered and total row counts.
func (t *Table[T, K]) Progress() (rendered, total int) {
	return t.renderer.Progress()
}

// Resize sets the table's outer size.
func (t *Table[T, K]) Resize(width, height int) {
	t.table.SetWidth(width)
	t.table.SetHeight(max(height, 3))
}

// View renders the table, or the empty message when there is nothing to show.
func (t *Table[T, K]) View() string {
	if t.sink.Len() == 0 && !t.Loading() {
		return lipgloss.NewStyle().Foreground(t.theme.Muted).Render(t.empty)
	}
	return t.table.View()
}
