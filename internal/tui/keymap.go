package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up          key.Binding
	Down        key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	Dashboard   key.Binding
	Transacts   key.Binding
	Budget      key.Binding
	Goals       key.Binding
	Reports     key.Binding
	Assistant   key.Binding

	// Actions
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Progress key.Binding
	Filter   key.Binding
	Type     key.Binding
	Category key.Binding

	// Charts and reports
	ChartType    key.Binding
	ReportType   key.Binding
	ReportPeriod key.Binding
	ReportFormat key.Binding
	Generate     key.Binding

	// Modals
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Confirm   key.Binding
	Cancel    key.Binding

	// Application
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Refresh   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "descer"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "próxima seção"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "seção anterior"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Transacts: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "transações"),
		),
		Budget: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "orçamento"),
		),
		Goals: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "metas"),
		),
		Reports: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "relatórios"),
		),
		Assistant: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "assistente"),
		),

		// Actions
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "novo"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/Enter", "editar"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "excluir"),
		),
		Progress: key.NewBinding(
			key.WithKeys("p", "enter"),
			key.WithHelp("p/Enter", "atualizar progresso"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "buscar"),
		),
		Type: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "filtrar tipo"),
		),
		Category: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filtrar categoria"),
		),

		// Charts and reports
		ChartType: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "linha/barras"),
		),
		ReportType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tipo de relatório"),
		),
		ReportPeriod: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "período"),
		),
		ReportFormat: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "formato"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g", "enter"),
			key.WithHelp("g/Enter", "gerar relatório"),
		),

		// Modals
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "salvar"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "próximo campo"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("Shift+Tab", "campo anterior"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "s"),
			key.WithHelp("s/y", "confirmar"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("Esc/n", "cancelar"),
		),

		// Application
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "sair"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "forçar saída"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ajuda"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "atualizar"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextSection, k.New, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dashboard, k.Transacts, k.Budget, k.Goals, k.Reports, k.Assistant},
		{k.Up, k.Down, k.NextSection, k.PrevSection},
		{k.New, k.Edit, k.Delete, k.Progress},
		{k.Filter, k.Type, k.Category, k.ChartType},
		{k.ReportType, k.ReportPeriod, k.ReportFormat, k.Generate},
		{k.Refresh, k.Help, k.Quit, k.ForceQuit},
	}
}

// sectionKeys pairs each numbered binding with its section index.
func (k KeyMap) sectionKeys() []key.Binding {
	return []key.Binding{k.Dashboard, k.Transacts, k.Budget, k.Goals, k.Reports, k.Assistant}
}
