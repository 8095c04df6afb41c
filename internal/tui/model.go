// Package tui provides the Bubble Tea transfer wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/datamover/internal/catalog"
	"github.com/verte-zerg/datamover/internal/generator"
	"github.com/verte-zerg/datamover/internal/model"
	"github.com/verte-zerg/datamover/internal/pairing"
	"github.com/verte-zerg/datamover/internal/store"
	"github.com/verte-zerg/datamover/internal/transfer"
)

type screen int

const (
	screenDashboard screen = iota
	screenPairing
	screenConfirming
	screenSelection
	screenTransfer
	screenDone
)

const (
	recentLimit  = 5
	speedHistory = 40
)

// scanMsg stands in for the other device scanning the code.
type scanMsg struct{ sessionID string }

type confirmedMsg struct{ sessionID string }

// tickMsg drives one transfer step. seq identifies the run it was scheduled for.
type tickMsg struct{ seq int }

// Options wires the wizard to its collaborators.
type Options struct {
	Config  model.Config
	Store   *store.Store
	Catalog []catalog.Item
	Rand    *generator.Generator
	Engine  *transfer.Engine
	Logger  *slog.Logger
}

// Model implements the Bubble Tea transfer wizard.
type Model struct {
	config model.Config
	store  *store.Store
	items  []catalog.Item
	rnd    *generator.Generator
	engine *transfer.Engine
	logger *slog.Logger
	now    func() time.Time

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model

	width  int
	height int
	screen screen

	session pairing.Session
	qr      string

	selection *catalog.Selection
	cursor    int

	run         transfer.Run
	runSeq      int
	source      string
	destination string
	speeds      []float64

	recent []model.TransferRecord
	errMsg string
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pinStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(0, 2)
	cardStyle     = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// NewModel constructs the wizard model.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	items := opts.Catalog
	if len(items) == 0 {
		items = catalog.Default()
	}
	m := &Model{
		config:   opts.Config,
		store:    opts.Store,
		items:    items,
		rnd:      opts.Rand,
		engine:   opts.Engine,
		logger:   logger,
		now:      time.Now,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		screen:   screenDashboard,
	}
	m.loadRecent()
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
		m.progress.Width = clamp(msg.Width-20, 10, 60)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case scanMsg:
		if msg.sessionID == "" || msg.sessionID != m.session.ID {
			return m, nil
		}
		return m, m.completePairing()
	case confirmedMsg:
		if m.screen != screenConfirming || msg.sessionID != m.session.ID {
			return m, nil
		}
		m.selection = catalog.NewSelection(m.items)
		m.cursor = 0
		m.screen = screenSelection
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case spinner.TickMsg:
		if m.screen != screenConfirming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	m.errMsg = ""
	switch m.screen {
	case screenDashboard:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			return m, m.startPairing()
		}
	case screenPairing:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.resetToDashboard()
		case key.Matches(msg, m.keys.Enter):
			return m, m.completePairing()
		}
	case screenConfirming:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.resetToDashboard()
		}
	case screenSelection:
		return m, m.handleSelectionKey(msg)
	case screenTransfer:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.cancelTransfer()
		case key.Matches(msg, m.keys.Quit):
			m.cancelTransfer()
			return m, tea.Quit
		}
	case screenDone:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			return m, m.startPairing()
		case key.Matches(msg, m.keys.History), key.Matches(msg, m.keys.Back):
			m.resetToDashboard()
		}
	}
	return m, nil
}

func (m *Model) handleSelectionKey(msg tea.KeyMsg) tea.Cmd {
	items := m.selection.Items()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.resetToDashboard()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(items) {
			m.selection.Toggle(items[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.ToggleAll):
		m.selection.ToggleAll()
	case key.Matches(msg, m.keys.Enter):
		return m.startTransfer()
	}
	return nil
}

func (m *Model) startPairing() tea.Cmd {
	m.session = pairing.NewSession(m.rnd)
	m.qr = ""
	payload := m.session.URL(m.config.PairingBaseURL)
	if qr, err := pairing.RenderQR(payload); err != nil {
		m.logger.Warn("failed to render qr code", "error", err)
	} else {
		m.qr = qr
	}
	m.screen = screenPairing
	m.logger.Info("pairing session created", "session", m.session.ID, "url", payload)
	return scanAfter(m.config.ScanDelay, m.session.ID)
}

// completePairing runs for both the simulated scan and the enter key, so the
// second caller sees an already paired session.
func (m *Model) completePairing() tea.Cmd {
	paired, err := pairing.Complete(m.session)
	if err != nil {
		m.logger.Debug("ignoring pairing completion", "session", m.session.ID, "error", err)
		return nil
	}
	m.session = paired
	m.screen = screenConfirming
	m.logger.Info("device paired", "session", paired.ID)
	return tea.Batch(m.spinner.Tick, confirmAfter(m.config.ConfirmDelay, paired.ID))
}

func (m *Model) startTransfer() tea.Cmd {
	run, err := transfer.Start(m.selection.Categories())
	if err != nil {
		if errors.Is(err, transfer.ErrEmptySelection) {
			m.errMsg = "Select data to continue"
		} else {
			m.errMsg = err.Error()
		}
		return nil
	}
	m.run = run
	m.runSeq++
	m.speeds = nil
	m.source, m.destination = transfer.PickDevices(m.rnd, transfer.Devices)
	m.screen = screenTransfer
	m.logger.Info("transfer started",
		"categories", m.selection.SelectedIDs(),
		"total_mb", run.TotalSizeMB,
		"source", m.source,
		"destination", m.destination,
	)
	return tickAfter(m.config.TickInterval, m.runSeq)
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.seq != m.runSeq || m.screen != screenTransfer || m.run.State == transfer.Complete {
		return nil
	}
	m.run = m.engine.Tick(m.run)
	m.logger.Debug("transfer tick",
		"tick", m.run.Ticks,
		"transferred_mb", m.run.TransferredMB,
		"progress", m.run.ProgressPercent(),
		"speed_mbs", m.run.SpeedMBs,
	)
	if m.run.State == transfer.Complete {
		m.recordTransfer(model.StatusCompleted)
		m.screen = screenDone
		m.logger.Info("transfer complete", "ticks", m.run.Ticks, "total_mb", m.run.TotalSizeMB)
		return nil
	}
	m.speeds = append(m.speeds, m.run.SpeedMBs)
	if len(m.speeds) > speedHistory {
		m.speeds = m.speeds[len(m.speeds)-speedHistory:]
	}
	return tickAfter(m.config.TickInterval, m.runSeq)
}

// cancelTransfer abandons the run. Bumping runSeq drops the pending tick.
func (m *Model) cancelTransfer() {
	if m.screen != screenTransfer {
		return
	}
	m.runSeq++
	m.recordTransfer(model.StatusFailed)
	m.logger.Info("transfer cancelled", "transferred_mb", m.run.TransferredMB, "total_mb", m.run.TotalSizeMB)
	m.resetToDashboard()
}

func (m *Model) resetToDashboard() {
	m.session = pairing.Session{}
	m.qr = ""
	m.screen = screenDashboard
	m.loadRecent()
}

func (m *Model) recordTransfer(status model.Status) {
	if m.store == nil {
		return
	}
	rec := model.TransferRecord{
		Date:              m.now(),
		SourceDevice:      m.source,
		DestinationDevice: m.destination,
		SizeMB:            m.run.TransferredMB,
		Categories:        len(m.run.Categories),
		Status:            status,
	}
	if _, err := m.store.InsertTransfer(context.Background(), rec); err != nil {
		m.logger.Error("failed to save transfer", "error", err)
		m.errMsg = fmt.Sprintf("failed to save transfer: %v", err)
		return
	}
	m.loadRecent()
}

func (m *Model) loadRecent() {
	if m.store == nil {
		return
	}
	recs, err := m.store.ListTransfers(context.Background(), model.HistoryFilter{Limit: recentLimit})
	if err != nil {
		m.logger.Error("failed to load history", "error", err)
		return
	}
	m.recent = recs
}

func scanAfter(d time.Duration, sessionID string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return scanMsg{sessionID: sessionID} })
}

func confirmAfter(d time.Duration, sessionID string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return confirmedMsg{sessionID: sessionID} })
}

func tickAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{seq: seq} })
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lower(s string) string {
	if s == "" {
		return "device"
	}
	return strings.ToLower(s)
}
