package tui

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/finanmaster/internal/assistant"
	"github.com/Veraticus/finanmaster/internal/chart"
	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/render"
	"github.com/Veraticus/finanmaster/internal/service"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/Veraticus/finanmaster/internal/tui/components"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Deps are the services one dashboard session talks to. Gateway is
// required; without Bridge the assistant section only shows the apology,
// and without Assistant or Monthly the reports section stays empty.
type Deps struct {
	Gateway   service.Gateway
	Assistant service.Assistant
	Monthly   service.MonthlyReporter
	Bridge    *assistant.Bridge
}

// Mode is what the keyboard currently drives.
type Mode int

// Modes.
const (
	ModeBrowse Mode = iota
	ModeFilter
	ModeForm
	ModeConfirm
	ModeHelp
)

// Chart canvases owned by the dashboard sections.
const (
	canvasCashFlow   = "dashboard-cashflow"
	canvasCategories = "dashboard-categories"
	canvasBudget     = "budget-lines"
	canvasMonthly    = "reports-year"
)

const maxInsightCards = 3

// reportState is shared with chart sources, which read it on every draw.
type reportState struct {
	err     error
	report  *model.Report
	monthly model.MonthlyReport
	format  chart.Format
	kind    model.ReportType
	period  model.ReportPeriod
	loading bool
}

// Model holds the dashboard state. It owns one store, one chart registry and
// one mutation controller per session; nothing is shared between sessions.
type Model struct {
	theme        themes.Theme
	lastErr      error
	now          func() time.Time
	logger       *slog.Logger
	deps         Deps
	store        *store.Store
	syncer       *store.Syncer
	controller   *mutation.Controller
	charts       *chart.Registry
	session      *assistant.Session
	reports      *reportState
	form         *components.Form
	confirm      *mutation.DeleteRequest
	transactions *components.Table[model.Transaction, int]
	budget       *components.Table[model.BudgetLine, string]
	goals        *components.Table[model.Goal, int]
	chat         *components.Chat
	filter       mutation.Criteria
	insights     assistant.Insights
	flash        string
	section      model.Section
	formKind     mutation.Kind
	chartKind    chart.Kind
	cards        []components.InsightCard
	pending      []tea.Cmd
	keymap       KeyMap
	help         help.Model
	loadBar      progress.Model
	filterInput  textinput.Model
	detail       components.TransactionDetail
	summary      components.SummaryPanel
	config       Config
	mode         Mode
	flashGen     int
	width        int
	height       int
	authRequired bool
	ready        bool
	quitting     bool
}

// New creates a dashboard session over deps.
func New(deps Deps, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	st := store.New(cfg.Logger)
	syncer := store.NewSyncer(st, deps.Gateway, cfg.Logger)
	chunking := []render.Option{render.WithChunkSize(cfg.ChunkSize), render.WithDelay(cfg.ChunkDelay)}

	filterInput := textinput.New()
	filterInput.Placeholder = "Buscar descrição ou categoria..."
	filterInput.CharLimit = 60
	filterInput.Prompt = "/ "

	m := Model{
		theme:       cfg.Theme,
		now:         cfg.Now,
		logger:      cfg.Logger,
		deps:        deps,
		store:       st,
		syncer:      syncer,
		controller:  mutation.NewController(deps.Gateway, syncer, cfg.Logger),
		charts:      chart.NewRegistry(cfg.Width/2, 10, chart.DefaultPalette),
		reports:     &reportState{format: chart.FormatChart, kind: model.ReportFinancial, period: model.PeriodCurrentMonth},
		chat:        components.NewChat(cfg.Theme),
		section:     model.SectionDashboard,
		chartKind:   cfg.ChartKind,
		keymap:      DefaultKeyMap(),
		help:        help.New(),
		loadBar:     progress.New(progress.WithSolidFill(string(cfg.Theme.Primary)), progress.WithWidth(20), progress.WithoutPercentage()),
		filterInput: filterInput,
		detail:      components.NewTransactionDetail(cfg.Theme),
		summary:     components.NewSummaryPanel(cfg.Theme),
		config:      cfg,
		width:       cfg.Width,
		height:      cfg.Height,
	}
	if deps.Bridge != nil {
		m.session = assistant.NewSession(deps.Bridge)
	}

	m.transactions = components.NewTable("transactions", transactionColumns, transactionRow,
		func(tx model.Transaction) int { return tx.ID },
		"Nenhuma transação encontrada.", cfg.Theme, chunking...)
	m.budget = components.NewTable("budget", budgetColumns, budgetRow,
		func(l model.BudgetLine) string { return l.Category },
		"Nenhum orçamento definido. Pressione n para criar.", cfg.Theme, chunking...)
	m.goals = components.NewTable("goals", goalColumns, goalRow(cfg.Now),
		func(g model.Goal) int { return g.ID },
		"Nenhuma meta cadastrada. Pressione n para criar.", cfg.Theme, chunking...)

	m.mountCharts()
	m.handleResize()
	return m
}

// Init checks the session before anything is loaded.
func (m Model) Init() tea.Cmd {
	return m.checkIdentity()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, m.drain(cmd)

	case render.ChunkMsg:
		cmds := []tea.Cmd{m.transactions.Update(msg), m.budget.Update(msg), m.goals.Update(msg)}
		m.syncDetail()
		return m, tea.Batch(cmds...)

	case identityMsg:
		if msg.err != nil {
			m.ready = true
			if !m.checkAuth(msg.err) {
				m.lastErr = msg.err
			}
			return m, nil
		}
		return m, tea.Batch(m.loadAll(), m.scheduleRefresh(), m.loadInsights())

	case loadedMsg:
		m.ready = true
		if m.checkAuth(msg.err) {
			return m, nil
		}
		m.lastErr = msg.err
		return m, m.syncViews(msg.collections...)

	case refreshTickMsg:
		if m.authRequired {
			return m, nil
		}
		return m, tea.Batch(m.refresh(store.Summary), m.scheduleRefresh())

	case monthlyLoadedMsg:
		m.reports.loading = false
		if m.checkAuth(msg.err) {
			return m, nil
		}
		m.reports.err = msg.err
		if msg.err == nil {
			m.reports.monthly = msg.report
			m.charts.RefreshAll()
		}
		return m, nil

	case mutationDoneMsg:
		return m, m.drain(m.handleMutationDone(msg))

	case deleteDoneMsg:
		if m.checkAuth(msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.lastErr = msg.err
			return m, m.setFlash(common.Message(msg.err))
		}
		return m, tea.Batch(
			m.syncViews(mutation.Affected(mutation.KindTransaction)...),
			m.setFlash(msg.result.Message),
		)

	case answerMsg:
		m.chat.SetThinking(false)
		if msg.err != nil {
			return m, nil
		}
		m.chat.SetHistory(m.session.History())
		assistant.Dispatch(&m, msg.answer.Directives)
		return m, m.drain(nil)

	case insightsMsg:
		if msg.err != nil {
			m.logger.Warn("quick insights unavailable", "error", msg.err)
			return m, nil
		}
		m.insights = msg.insights
		return m, nil

	case reportMsg:
		m.reports.loading = false
		if m.checkAuth(msg.err) {
			return m, nil
		}
		m.reports.err = msg.err
		if msg.err == nil {
			m.reports.report = msg.report
			m.mountReportCharts()
		}
		return m, nil

	case flashClearMsg:
		if msg.gen == m.flashGen {
			m.flash = ""
		}
		return m, nil
	}

	return m, m.forward(msg)
}

// forward passes everything else, such as cursor blinks, to the focused input.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	switch {
	case m.mode == ModeForm && m.form != nil:
		return m.form.Update(msg)
	case m.mode == ModeFilter:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return cmd
	case m.section == model.SectionAssistant:
		return m.chat.Update(msg)
	}
	return nil
}

// queue defers cmd until the current update returns. Directive handlers use
// it since their methods cannot return commands.
func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

func (m *Model) drain(cmd tea.Cmd) tea.Cmd {
	cmds := append(m.pending, cmd)
	m.pending = nil
	return tea.Batch(cmds...)
}

// checkAuth switches to the login-required screen on an expired session.
func (m *Model) checkAuth(err error) bool {
	if !errors.Is(err, common.ErrAuthRequired) {
		return false
	}
	m.authRequired = true
	m.mode = ModeBrowse
	m.form = nil
	m.confirm = nil
	return true
}

func (m *Model) handleMutationDone(msg mutationDoneMsg) tea.Cmd {
	if m.checkAuth(msg.err) {
		return nil
	}
	if msg.err != nil {
		if m.form != nil && m.formKind == msg.kind {
			m.form.SetBusy(false)
			m.form.SetError(msg.err)
		}
		return nil
	}
	if m.formKind == msg.kind {
		m.form = nil
		m.mode = ModeBrowse
	}
	return tea.Batch(m.syncViews(mutation.Affected(msg.kind)...), m.setFlash(msg.result.Message))
}

// syncViews re-renders what depends on the given collections from the
// store's current snapshots.
func (m *Model) syncViews(collections ...store.Collection) tea.Cmd {
	var cmds []tea.Cmd
	for _, c := range collections {
		switch c {
		case store.Transactions:
			cmds = append(cmds, m.applyFilter())
		case store.Budget:
			cmds = append(cmds, m.budget.Load(m.store.Budget()))
		case store.Goals:
			cmds = append(cmds, m.goals.Load(m.store.Goals()))
		case store.Summary:
			m.summary.SetSummary(m.store.Summary())
		}
	}
	m.charts.RefreshAll()
	return tea.Batch(cmds...)
}

func (m *Model) applyFilter() tea.Cmd {
	cmd := m.transactions.Load(mutation.Filter(m.store.Transactions(), m.filter))
	m.syncDetail()
	return cmd
}

func (m *Model) syncDetail() {
	if id, ok := m.transactions.Selected(); ok {
		if tx, found := m.store.Transaction(id); found {
			m.detail.SetTransaction(&tx)
			return
		}
	}
	m.detail.SetTransaction(nil)
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flashGen++
	m.flash = text
	return m.clearFlash(m.flashGen)
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	bodyHeight := max(m.height-6, 8)
	wide := m.width >= 110

	tableWidth := m.width - 4
	if wide {
		tableWidth = m.width * 6 / 10
	}
	m.transactions.Resize(tableWidth, bodyHeight-2)
	m.detail.Resize(m.width-tableWidth-6, bodyHeight)
	m.budget.Resize(m.width-4, bodyHeight/2)
	m.goals.Resize(m.width-4, bodyHeight-2)

	chartWidth := m.width - 12
	if wide {
		chartWidth = m.width/2 - 12
	}
	m.charts.Resize(max(chartWidth, 20), max(bodyHeight/3, 6))

	m.summary.Resize(m.width - 2)
	m.summary.SetCompact(m.width < 80)
	m.chat.Resize(m.width-4, bodyHeight)
	m.help.Width = m.width
	if m.form != nil {
		m.form.Resize(min(m.width-30, 50))
	}
}

// activateSection is the single navigation entry point. Keys and assistant
// directives both go through it, so the tab state, the charts and the
// section reload always change together.
func (m *Model) activateSection(s model.Section) tea.Cmd {
	m.section = s
	m.mode = ModeBrowse
	m.mountCharts()
	m.handleResize()
	return m.reloadSection()
}

func (m *Model) reloadSection() tea.Cmd {
	if m.authRequired {
		return nil
	}
	switch m.section {
	case model.SectionDashboard:
		return tea.Batch(m.refresh(store.Summary), m.loadInsights())
	case model.SectionTransactions:
		return m.refresh(store.Transactions)
	case model.SectionBudget:
		return m.refresh(store.Budget)
	case model.SectionGoals:
		return m.refresh(store.Goals)
	case model.SectionReports:
		m.reports.loading = m.deps.Monthly != nil
		return m.loadMonthly()
	default:
		return nil
	}
}

func (m *Model) stepSection(delta int) tea.Cmd {
	n := len(model.Sections)
	for i, s := range model.Sections {
		if s == m.section {
			return m.activateSection(model.Sections[((i+delta)%n+n)%n])
		}
	}
	return m.activateSection(model.SectionDashboard)
}

// mountCharts replaces every chart with the ones of the active section.
// Leaving the reports section therefore drops its charts.
func (m *Model) mountCharts() {
	m.charts.Clear()

	var err error
	switch m.section {
	case model.SectionDashboard:
		_, err = m.charts.Mount(canvasCashFlow, m.chartKind, "Fluxo de Caixa", func() chart.Series {
			if s := m.store.Summary(); s != nil {
				return chart.CashFlowSeries(s.MonthsData)
			}
			return chart.Series{}
		})
		if err == nil {
			_, err = m.charts.Mount(canvasCategories, chart.KindBar, "Despesas por Categoria", func() chart.Series {
				if s := m.store.Summary(); s != nil {
					return chart.CategorySeries(s.CategoriasDespesas)
				}
				return chart.Series{}
			})
		}
	case model.SectionBudget:
		_, err = m.charts.Mount(canvasBudget, chart.KindBar, "Orçado x Gasto", func() chart.Series {
			return chart.BudgetSeries(m.store.Budget())
		})
	case model.SectionReports:
		rs := m.reports
		_, err = m.charts.Mount(canvasMonthly, m.chartKind, "Receitas x Despesas no Ano", func() chart.Series {
			return chart.MonthlySeries(rs.monthly)
		})
		if err == nil {
			m.mountReportCharts()
		}
	}
	if err != nil {
		m.logger.Error("failed to mount chart", "section", m.section, "error", err)
	}
}

func (m *Model) mountReportCharts() {
	if m.section != model.SectionReports || m.reports.report == nil {
		return
	}
	rs := m.reports
	if err := chart.MountReport(m.charts, rs.format, m.chartKind, func() *model.Report { return rs.report }); err != nil {
		m.logger.Error("failed to mount report charts", "error", err)
	}
}

func (m *Model) toggleChartKind() {
	if m.chartKind == chart.KindLine {
		m.chartKind = chart.KindBar
	} else {
		m.chartKind = chart.KindLine
	}
	m.mountCharts()
}

// Section returns the active section.
func (m Model) Section() model.Section {
	return m.section
}

// Mode returns what the keyboard currently drives.
func (m Model) Mode() Mode {
	return m.mode
}

// AuthRequired reports whether the session expired.
func (m Model) AuthRequired() bool {
	return m.authRequired
}

// Store exposes the session's snapshots.
func (m Model) Store() *store.Store {
	return m.store
}
