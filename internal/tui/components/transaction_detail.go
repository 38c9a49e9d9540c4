package components

import (
	"strings"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// TransactionDetail renders the selected transaction beside the table.
type TransactionDetail struct {
	theme  themes.Theme
	tx     *model.Transaction
	width  int
	height int
}

// NewTransactionDetail creates an empty detail panel.
func NewTransactionDetail(theme themes.Theme) TransactionDetail {
	return TransactionDetail{theme: theme}
}

// SetTransaction sets the transaction to show; nil clears the panel.
func (d *TransactionDetail) SetTransaction(tx *model.Transaction) {
	d.tx = tx
}

// Resize updates the component dimensions.
func (d *TransactionDetail) Resize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the panel.
func (d TransactionDetail) View() string {
	title := d.theme.Title.Render("Detalhes")
	if d.tx == nil {
		return d.theme.Box.Width(d.width).Render(lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			lipgloss.NewStyle().Foreground(d.theme.Muted).Render("Selecione uma transação."),
		))
	}

	labelStyle := d.theme.Bold.
		Width(12).
		Align(lipgloss.Right)
	valueStyle := d.theme.Normal

	tx := d.tx
	rows := [][2]string{
		{"Descrição", tx.Description},
		{"Data", tx.Date.String()},
		{"Categoria", themes.GetCategoryIcon(tx.Category) + " " + tx.Category},
		{"Tipo", string(tx.Type)},
	}

	lines := make([]string, 0, len(rows)+1)
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(r[0]+": "),
			valueStyle.Render(r[1]),
		))
	}
	signed := tx.Signed()
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Valor: "),
		d.theme.Signed(model.FormatBRL(signed), signed.IsNegative()),
	))

	actions := []string{
		"",
		d.theme.Subtitle.Render("Ações"),
		"  e  editar",
		"  d  excluir",
	}

	return d.theme.Box.
		Width(d.width).
		MaxWidth(d.width).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			strings.Join(lines, "\n"),
			strings.Join(actions, "\n"),
		))
}
