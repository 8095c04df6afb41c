// Package historyui provides the Bubble Tea transfer history browser.
package historyui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/datamover/internal/model"
	"github.com/verte-zerg/datamover/internal/stats"
	"github.com/verte-zerg/datamover/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// filters is the order the status filter cycles through. Empty means all.
var filters = []model.Status{"", model.StatusCompleted, model.StatusFailed}

// Model implements the Bubble Tea history browser.
type Model struct {
	store *store.Store

	records []model.TransferRecord
	summary model.HistorySummary
	filter  int
	limit   int
	errMsg  string

	table  table.Model
	width  int
	height int
}

// NewModel constructs a history browser over st. initial sets the starting
// status filter and the row limit.
func NewModel(st *store.Store, initial model.HistoryFilter) *Model {
	m := &Model{
		store: st,
		limit: initial.Limit,
		table: table.New(
			table.WithColumns(columns(80)),
			table.WithFocused(true),
			table.WithHeight(10),
		),
	}
	m.table.SetStyles(tableStyles())
	for i, f := range filters {
		if f == initial.Status {
			m.filter = i
		}
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "f":
			m.filter = (m.filter + 1) % len(filters)
			m.refresh()
			return m, nil
		case "r":
			m.refresh()
			return m, nil
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	parts := []string{
		titleStyle.Render("Transfer History"),
		headerStyle.Render(m.renderFilterSummary()),
		renderSummaryCards(m.summary, m.width),
	}
	if len(m.records) == 0 {
		parts = append(parts, "No transfers found.")
	} else {
		parts = append(parts, tableMutedStyle.Render(m.table.View()))
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n")
}

// Filter reports the active status filter. Empty means all statuses.
func (m *Model) Filter() model.Status {
	return filters[m.filter]
}

// Records returns the rows currently listed.
func (m *Model) Records() []model.TransferRecord {
	return m.records
}

func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	recs, err := m.store.ListTransfers(context.Background(), model.HistoryFilter{Status: m.Filter(), Limit: m.limit})
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.records = recs
	m.summary = stats.Summarize(recs)
	m.table.SetRows(toRows(stats.HistoryRows(recs)))
	m.table.GotoTop()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetColumns(columns(m.width))
	m.table.SetWidth(m.width)
	used := lipgloss.Height(renderSummaryCards(m.summary, m.width)) + 3
	m.table.SetHeight(maxInt(3, m.height-used))
}

func (m *Model) renderFilterSummary() string {
	summary := "Filter: " + filterLabel(m.Filter())
	if m.limit > 0 {
		summary += fmt.Sprintf("  last=%d", m.limit)
	}
	return summary
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Scroll: up/down  Filter: f  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func renderSummaryCards(sum model.HistorySummary, width int) string {
	cards := []string{
		metricCard("Transfers", fmt.Sprintf("%d", sum.Transfers)),
		metricCard("Completed", fmt.Sprintf("%d", sum.Completed)),
		metricCard("Failed", fmt.Sprintf("%d", sum.Failed)),
		metricCard("Data Moved", stats.FormatSize(sum.CompletedSizeMB)),
		metricCard("Success", fmt.Sprintf("%.0f%%", sum.SuccessRate*100)),
	}
	if width > 0 && width < 80 {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// columns splits spare width between the two device columns.
func columns(width int) []table.Column {
	fixed := []int{12, 10, 9, 9}
	device := 18
	if width > 0 {
		spare := width - (fixed[0] + fixed[1] + fixed[2] + fixed[3]) - 12
		device = maxInt(8, spare/2)
	}
	return []table.Column{
		{Title: stats.HistoryHeaders[0], Width: fixed[0]},
		{Title: stats.HistoryHeaders[1], Width: fixed[1]},
		{Title: stats.HistoryHeaders[2], Width: device},
		{Title: stats.HistoryHeaders[3], Width: device},
		{Title: stats.HistoryHeaders[4], Width: fixed[2]},
		{Title: stats.HistoryHeaders[5], Width: fixed[3]},
	}
}

func toRows(cells [][]string) []table.Row {
	rows := make([]table.Row, 0, len(cells))
	for _, c := range cells {
		rows = append(rows, table.Row(c))
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func filterLabel(s model.Status) string {
	if s == "" {
		return "all"
	}
	return strings.ToLower(string(s))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
