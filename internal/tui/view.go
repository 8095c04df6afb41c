package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/datamover/internal/stats"
	"github.com/verte-zerg/datamover/internal/transfer"
)

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderBody()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderBody() string {
	switch m.screen {
	case screenPairing:
		return m.renderPairing()
	case screenConfirming:
		return m.renderConfirming()
	case screenSelection:
		return m.renderSelection()
	case screenTransfer:
		return m.renderTransfer()
	case screenDone:
		return m.renderDone()
	default:
		return m.renderDashboard()
	}
}

func (m *Model) renderDashboard() string {
	lines := []string{
		titleStyle.Render("DataMover"),
		"",
		textStyle.Render("Ready to move your data?"),
		mutedStyle.Render("Pair your devices, pick what to bring along, and watch it move."),
		"",
		accentStyle.Render("[ Start New Transfer ]"),
		"",
		titleStyle.Render("Recent Transfers"),
	}
	if len(m.recent) == 0 {
		lines = append(lines, mutedStyle.Render("You have no transfer history yet. Completed transfers will appear here."))
	} else {
		for _, rec := range m.recent {
			line := fmt.Sprintf("%s  %s → %s  %s  %s",
				rec.Date.Local().Format("2006-01-02"),
				rec.SourceDevice,
				rec.DestinationDevice,
				stats.FormatSize(rec.SizeMB),
				rec.Status,
			)
			lines = append(lines, mutedStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPairing() string {
	lines := []string{
		titleStyle.Render("Pair Your Devices"),
		mutedStyle.Render("Open DataMover on your phone and scan the code to connect."),
		"",
	}
	qrHeight := lipgloss.Height(m.qr)
	if m.qr != "" && (m.height == 0 || m.height >= qrHeight+12) {
		lines = append(lines, m.qr, "")
	} else {
		lines = append(lines, textStyle.Render(m.session.URL(m.config.PairingBaseURL)), "")
	}
	lines = append(lines,
		mutedStyle.Render("Or enter this PIN on your other device"),
		cardStyle.Render(pinStyle.Render(m.session.PIN)),
		"",
		mutedStyle.Render("Waiting for the other device..."),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirming() string {
	return strings.Join([]string{
		titleStyle.Render("Device Found"),
		"",
		m.spinner.View() + " " + textStyle.Render("Establishing a secure connection..."),
	}, "\n")
}

func (m *Model) renderSelection() string {
	if m.selection == nil {
		return ""
	}
	lines := []string{
		titleStyle.Render("Select Data to Transfer"),
		mutedStyle.Render("Choose the categories to move to your new device."),
		"",
	}
	all := "[ ]"
	switch {
	case m.selection.AllSelected():
		all = "[x]"
	case m.selection.Indeterminate():
		all = "[-]"
	}
	lines = append(lines, mutedStyle.Render(all+" Select All"), "")
	for i, it := range m.selection.Items() {
		box := "[ ]"
		if m.selection.IsSelected(it.ID) {
			box = "[x]"
		}
		label := fmt.Sprintf("%s %-16s %8s  %5d items", box, it.Name, stats.FormatSize(it.SizeMB), it.Items)
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("› "+label))
		} else {
			lines = append(lines, textStyle.Render("  "+label))
		}
	}
	lines = append(lines, "", m.beginLabel())
	return strings.Join(lines, "\n")
}

func (m *Model) beginLabel() string {
	n := m.selection.Count()
	if n == 0 {
		return mutedStyle.Render("[ Select Data to Continue ]")
	}
	noun := "Categories"
	if n == 1 {
		noun = "Category"
	}
	return accentStyle.Render(fmt.Sprintf("[ Begin Transfer of %d %s · %s ]", n, noun, stats.FormatSize(m.selection.SelectedSizeMB())))
}

func (m *Model) renderTransfer() string {
	run := m.run
	lines := []string{
		titleStyle.Render("Transfer in Progress"),
		mutedStyle.Render(fmt.Sprintf("Moving data from your %s to your new %s.", lower(m.source), lower(m.destination))),
		"",
		textStyle.Render(fmt.Sprintf("%s  ⇢  %s", m.source, m.destination)),
		"",
		textStyle.Render(run.StatusLine()),
		m.progress.ViewAs(run.ProgressPercent()/100) + " " + textStyle.Render(fmt.Sprintf("%3.0f%%", run.ProgressPercent())),
		"",
		renderTransferStats(run),
	}
	if len(m.speeds) > 1 {
		lines = append(lines, "", mutedStyle.Render("Speed "+stats.Sparkline(stats.MovingAverage(m.speeds, 3))))
	}
	return strings.Join(lines, "\n")
}

func renderTransferStats(run transfer.Run) string {
	eta := "Calculating..."
	if run.SpeedMBs > 0 {
		eta = stats.FormatETA(run.ETASeconds())
	}
	segments := []string{
		fmt.Sprintf("%s of %s", stats.FormatSize(run.TransferredMB), stats.FormatSize(run.TotalSizeMB)),
		fmt.Sprintf("%.1f MB/s", run.SpeedMBs),
		fmt.Sprintf("ETA %s", eta),
		fmt.Sprintf("Category %d/%d", minInt(run.CurrentIndex+1, len(run.Categories)), len(run.Categories)),
	}
	return mutedStyle.Render(strings.Join(segments, "  ·  "))
}

func (m *Model) renderDone() string {
	lines := []string{
		successStyle.Render("✓ Transfer Complete"),
		"",
		textStyle.Render(fmt.Sprintf("Your data has been moved to your new %s.", lower(m.destination))),
		mutedStyle.Render(fmt.Sprintf("%s across %d categories in %d steps.", stats.FormatSize(m.run.TotalSizeMB), len(m.run.Categories), m.run.Ticks)),
		"",
		accentStyle.Render("[ Start Another Transfer ]"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	bindings := m.footerBindings()
	footer := footerStyle.Render(m.help.ShortHelpView(bindings))
	if m.errMsg != "" {
		footer = errorStyle.Render(m.errMsg) + "  " + footer
	}
	return footer
}

func (m *Model) footerBindings() []key.Binding {
	k := m.keys
	switch m.screen {
	case screenPairing:
		return []key.Binding{withHelp(k.Enter, "simulate scan"), k.Back, k.Quit}
	case screenConfirming:
		return []key.Binding{k.Back, k.Quit}
	case screenSelection:
		return []key.Binding{k.Up, k.Down, k.Toggle, k.ToggleAll, withHelp(k.Enter, "begin"), k.Back}
	case screenTransfer:
		return []key.Binding{withHelp(k.Back, "cancel"), k.Quit}
	case screenDone:
		return []key.Binding{withHelp(k.Enter, "new transfer"), k.History, k.Quit}
	default:
		return []key.Binding{withHelp(k.Enter, "start transfer"), k.Quit}
	}
}

func withHelp(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
