// Package dashboard provides the Bubble Tea analysis dashboard.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/session"
	"github.com/verte-zerg/pentrust/internal/stats"
	"github.com/verte-zerg/pentrust/internal/store"
)

const (
	tabInput = iota
	tabOverview
	tabTable
	tabDetail
)

const inputHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#2E8B87"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0A030"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6CC08B"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

type statusKind int

const (
	statusNone statusKind = iota
	statusInfo
	statusWarn
	statusError
)

type saveResultMsg struct {
	runID string
	err   error
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	session *session.Session
	store   *store.Store
	logger  *slog.Logger

	input     textarea.Model
	tabs      []string
	activeTab int
	viewports []viewport.Model
	table     table.Model

	batch    model.Batch
	hasBatch bool
	focuses  []model.Focus
	focusIdx int
	report   stats.Report
	// detailIdx pins the deep dive to a batch position; -1 follows the focus.
	detailIdx int

	status     string
	statusKind statusKind

	width  int
	height int
}

// Options configures a dashboard model.
type Options struct {
	Store   *store.Store
	Logger  *slog.Logger
	Prefill string
}

// NewModel constructs a dashboard bound to a session.
func NewModel(sess *session.Session, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		session: sess,
		store:   opts.Store,
		logger:  logger,
		tabs:    []string{"Input", "Overview", "Table", "Deep dive"},
		focuses: []model.Focus{model.AllRecords()},

		detailIdx: -1,
	}
	m.initInput(opts.Prefill)
	m.initViewports()
	m.table = buildTable(nil, 0, 1)
	if batch, err := sess.Batch(); err == nil {
		m.setBatch(batch)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case saveResultMsg:
		if msg.err != nil {
			m.logger.Error("failed to save run", "error", msg.err)
			m.setStatus(statusError, fmt.Sprintf("Save failed: %v", msg.err))
		} else {
			m.logger.Info("run saved", "run_id", msg.runID)
			m.setStatus(statusInfo, fmt.Sprintf("Saved run %s", msg.runID))
		}
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	if m.activeTab == tabInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+r":
		m.runAnalysis()
		return m, nil
	case "ctrl+s":
		return m, m.saveCmd()
	case "tab":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "shift+tab":
		m.moveTab(-1)
		return m, tea.ClearScreen
	}

	if m.activeTab == tabInput {
		if msg.Type == tea.KeyEsc {
			m.input.Reset()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "i":
		m.setTab(tabInput)
		return m, tea.ClearScreen
	case "f", "]":
		m.cycleFocus(1)
		return m, nil
	case "F", "[":
		m.cycleFocus(-1)
		return m, nil
	case "g", "home":
		if m.activeTab == tabTable {
			m.table.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabTable {
			m.table.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	case "enter":
		if m.activeTab == tabTable {
			m.focusSelectedRow()
			m.setTab(tabDetail)
			return m, tea.ClearScreen
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.activeTab == tabTable {
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	vp := m.viewports[m.activeTab]
	vp, cmd = vp.Update(msg)
	m.viewports[m.activeTab] = vp
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInput(prefill string) {
	m.input = textarea.New()
	m.input.Placeholder = "Paste URLs or page labels, one per line"
	m.input.ShowLineNumbers = false
	m.input.CharLimit = 0
	m.input.SetHeight(inputHeight)
	if prefill != "" {
		m.input.SetValue(prefill)
	}
	m.input.Focus()
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.status != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.input.SetWidth(maxInt(10, m.width-2))
	m.input.SetHeight(maxInt(1, bodyHeight-1))
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) setTab(tab int) {
	m.activeTab = tab
	if m.activeTab == tabInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	if m.activeTab == tabTable {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.setTab(next)
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
	m.updateLayout()
}

func (m *Model) runAnalysis() {
	batch, err := m.session.Run(context.Background(), m.input.Value())
	if err != nil {
		if errors.Is(err, model.ErrNoInput) {
			m.setStatus(statusWarn, err.Error())
			return
		}
		m.setStatus(statusError, err.Error())
		return
	}
	m.setBatch(batch)
	m.setStatus(statusInfo, fmt.Sprintf("Analyzed %d page(s)", batch.Len()))
	if m.activeTab == tabInput {
		m.setTab(tabOverview)
	}
}

func (m *Model) setBatch(batch model.Batch) {
	m.batch = batch
	m.hasBatch = true
	m.focuses = []model.Focus{model.AllRecords()}
	for _, id := range batch.UniqueIdentifiers() {
		m.focuses = append(m.focuses, model.FocusOn(id))
	}
	m.focusIdx = 0
	m.detailIdx = -1
	m.refreshReport()
}

func (m *Model) focus() model.Focus {
	if m.focusIdx < 0 || m.focusIdx >= len(m.focuses) {
		return model.AllRecords()
	}
	return m.focuses[m.focusIdx]
}

func (m *Model) cycleFocus(delta int) {
	count := len(m.focuses)
	if count <= 1 {
		return
	}
	m.focusIdx = (m.focusIdx + delta + count) % count
	m.detailIdx = -1
	m.refreshReport()
}

func (m *Model) focusSelectedRow() {
	rows := m.report.Records
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(rows) {
		return
	}
	id := rows[idx].Identifier
	m.detailIdx = -1
	if m.focus().IsAll() {
		m.detailIdx = idx
	}
	for i, f := range m.focuses {
		if !f.IsAll() && f.Identifier() == id {
			m.focusIdx = i
			break
		}
	}
	m.refreshReport()
}

func (m *Model) refreshReport() {
	if !m.hasBatch {
		return
	}
	report, err := stats.BuildReport(m.batch, m.focus())
	if err != nil {
		m.setStatus(statusError, err.Error())
		return
	}
	m.report = report
	m.table.SetRows(tableRows(report.Records))
	m.table.GotoTop()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	if !m.hasBatch {
		for i := range m.viewports {
			m.viewports[i].SetContent("No analysis yet. Paste pages on the Input tab and press ctrl+r.")
		}
		return
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabDetail].SetContent(m.renderDetail())
}

func (m *Model) detailRecord() (model.Record, bool) {
	if m.detailIdx >= 0 && m.detailIdx < m.batch.Len() {
		return m.batch.Records[m.detailIdx], true
	}
	if len(m.report.Records) == 0 {
		return model.Record{}, false
	}
	return m.report.Records[0], true
}

func (m *Model) renderDetail() string {
	rec, ok := m.detailRecord()
	if !ok {
		return "No pages in view."
	}
	var b strings.Builder
	if m.focus().IsAll() && m.detailIdx < 0 {
		b.WriteString(headerStyle.Render("Showing the first page. Press f to pick another."))
		b.WriteString("\n\n")
	}
	if err := stats.RenderDetail(&b, rec); err != nil {
		return fmt.Sprintf("Failed to render page: %v", err)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) saveCmd() tea.Cmd {
	if !m.hasBatch {
		m.setStatus(statusWarn, "Nothing to save yet")
		return nil
	}
	if m.store == nil {
		m.setStatus(statusWarn, "No run store configured")
		return nil
	}
	st := m.store
	batch := m.batch
	return func() tea.Msg {
		err := st.SaveBatch(context.Background(), batch)
		return saveResultMsg{runID: batch.RunID, err: err}
	}
}
