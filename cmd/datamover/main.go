// Package main provides the CLI entrypoint for datamover.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/datamover/internal/catalog"
	"github.com/verte-zerg/datamover/internal/config"
	"github.com/verte-zerg/datamover/internal/generator"
	"github.com/verte-zerg/datamover/internal/historyui"
	"github.com/verte-zerg/datamover/internal/logging"
	"github.com/verte-zerg/datamover/internal/model"
	"github.com/verte-zerg/datamover/internal/pairing"
	"github.com/verte-zerg/datamover/internal/stats"
	"github.com/verte-zerg/datamover/internal/store"
	"github.com/verte-zerg/datamover/internal/transfer"
	"github.com/verte-zerg/datamover/internal/tui"
)

const (
	defaultScanDelayMs    = 7000
	defaultConfirmDelayMs = 2000
	defaultTickMs         = 500
)

var (
	baseURL        string
	scanDelayMs    int
	confirmDelayMs int
	tickMs         int
	chunkMin       float64
	chunkMax       float64
	speedMin       float64
	speedMax       float64
	seedDemo       bool
	logLevel       string
	logFile        string

	simulateSeed       int64
	simulateCategories string
	simulateTick       time.Duration

	pairConfirm bool
	pairNoQR    bool

	historyPlain  bool
	historyStatus string
	historyLimit  int
)

// settings is the merged result of defaults, config file and flags.
type settings struct {
	cfg      model.Config
	items    []catalog.Item
	seedDemo bool
	logLevel string
	logFile  string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "datamover",
		Short:         "Move data between devices (simulated)",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runWizardCmd,
	}

	defaults := transfer.DefaultOptions()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", pairing.DefaultBaseURL, "pairing URL encoded in the QR code")
	pf.IntVar(&scanDelayMs, "scan-delay-ms", defaultScanDelayMs, "delay before the simulated scan (ms)")
	pf.IntVar(&confirmDelayMs, "confirm-delay-ms", defaultConfirmDelayMs, "time spent confirming the pairing (ms)")
	pf.IntVar(&tickMs, "tick-ms", defaultTickMs, "transfer tick interval in the wizard (ms)")
	pf.Float64Var(&chunkMin, "chunk-min", defaults.ChunkMinMB, "minimum MB moved per tick")
	pf.Float64Var(&chunkMax, "chunk-max", defaults.ChunkMaxMB, "maximum MB moved per tick")
	pf.Float64Var(&speedMin, "speed-min", defaults.SpeedMinMBs, "minimum displayed speed (MB/s)")
	pf.Float64Var(&speedMax, "speed-max", defaults.SpeedMaxMBs, "maximum displayed speed (MB/s)")
	pf.BoolVar(&seedDemo, "seed-demo", true, "start with demo transfer history")
	pf.StringVar(&logLevel, "log-level", logging.LevelOff, "log level: off, debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "log file path")

	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newPairCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "base-url", &baseURL, fileCfg.Pairing.BaseURL)
	applyIntConfig(cmd, "scan-delay-ms", &scanDelayMs, fileCfg.Pairing.ScanDelayMs)
	applyIntConfig(cmd, "confirm-delay-ms", &confirmDelayMs, fileCfg.Pairing.ConfirmDelayMs)
	applyIntConfig(cmd, "tick-ms", &tickMs, fileCfg.Transfer.TickMs)
	applyFloatConfig(cmd, "chunk-min", &chunkMin, fileCfg.Transfer.ChunkMinMB)
	applyFloatConfig(cmd, "chunk-max", &chunkMax, fileCfg.Transfer.ChunkMaxMB)
	applyFloatConfig(cmd, "speed-min", &speedMin, fileCfg.Transfer.SpeedMinMBs)
	applyFloatConfig(cmd, "speed-max", &speedMax, fileCfg.Transfer.SpeedMaxMBs)
	applyBoolConfig(cmd, "seed-demo", &seedDemo, fileCfg.History.SeedDemo)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	items, err := fileCfg.Catalog()
	if err != nil {
		return settings{}, err
	}

	s := settings{
		cfg: model.Config{
			PairingBaseURL: baseURL,
			ScanDelay:      time.Duration(scanDelayMs) * time.Millisecond,
			ConfirmDelay:   time.Duration(confirmDelayMs) * time.Millisecond,
			TickInterval:   time.Duration(tickMs) * time.Millisecond,
			ChunkMinMB:     chunkMin,
			ChunkMaxMB:     chunkMax,
			SpeedMinMBs:    speedMin,
			SpeedMaxMBs:    speedMax,
		},
		items:    items,
		seedDemo: seedDemo,
		logLevel: logLevel,
		logFile:  logFile,
	}
	if err := validateConfig(s.cfg); err != nil {
		return settings{}, err
	}
	if _, _, err := logging.ParseLevel(s.logLevel); err != nil {
		return settings{}, fmt.Errorf("--log-level: %w", err)
	}
	return s, nil
}

func engineOptions(cfg model.Config) transfer.Options {
	return transfer.Options{
		ChunkMinMB:  cfg.ChunkMinMB,
		ChunkMaxMB:  cfg.ChunkMaxMB,
		SpeedMinMBs: cfg.SpeedMinMBs,
		SpeedMaxMBs: cfg.SpeedMaxMBs,
	}
}

func openStore(ctx context.Context, s settings) (*store.Store, error) {
	st, err := store.Open(store.MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if s.seedDemo {
		if err := st.SeedDemo(ctx); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("failed to seed history: %w", err)
		}
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close history: %v\n", cerr)
	}
}

// openLogger writes to the configured file. Full-screen commands fall back to
// the state dir log so the terminal stays clean; others fall back to stderr.
func openLogger(s settings, fullScreen bool) (*slog.Logger, func() error, error) {
	path := s.logFile
	if path == "" && fullScreen {
		path = config.DefaultLogPath()
	}
	logger, closeFn, err := logging.Open(path, s.logLevel, os.Stderr)
	if err != nil {
		return nil, closeFn, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closeFn, nil
}

func closeLogger(closeFn func() error) {
	if err := closeFn(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

func runWizardCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := openLogger(s, true)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	st, err := openStore(cmd.Context(), s)
	if err != nil {
		return err
	}
	defer closeStore(st)

	gen := generator.New()
	engine, err := transfer.NewEngine(gen, engineOptions(s.cfg))
	if err != nil {
		return err
	}

	m := tui.NewModel(tui.Options{
		Config:  s.cfg,
		Store:   st,
		Catalog: s.items,
		Rand:    gen,
		Engine:  engine,
		Logger:  logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a transfer without the TUI",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().Int64Var(&simulateSeed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&simulateCategories, "categories", "", "comma separated category ids (default: all)")
	cmd.Flags().DurationVar(&simulateTick, "tick", 0, "delay between ticks")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if simulateTick < 0 {
		return fmt.Errorf("--tick must be >= 0")
	}
	logger, closeLog, err := openLogger(s, false)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	sel := catalog.NewSelection(s.items)
	if strings.TrimSpace(simulateCategories) != "" {
		sel, err = catalog.Select(s.items, simulateCategories)
		if err != nil {
			return err
		}
	}

	gen := generator.New()
	if simulateSeed != 0 {
		gen = generator.NewSeeded(simulateSeed)
	}
	engine, err := transfer.NewEngine(gen, engineOptions(s.cfg))
	if err != nil {
		return err
	}
	run, err := transfer.Start(sel.Categories())
	if err != nil {
		return fmt.Errorf("cannot start transfer: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	source, destination := transfer.PickDevices(gen, transfer.Devices)
	logger.Info("simulation started", "source", source, "destination", destination, "total_mb", run.TotalSizeMB)
	if _, err := fmt.Fprintf(out, "%s -> %s  %s in %d categories\n", source, destination, stats.FormatSize(run.TotalSizeMB), len(run.Categories)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	run, err = simulate(ctx, out, engine, run, simulateTick, logger)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s %s in %d ticks\n", run.StatusLine(), stats.FormatSize(run.TransferredMB), run.Ticks)
	return err
}

// simulate ticks run to completion, printing one line per tick.
func simulate(ctx context.Context, w io.Writer, engine *transfer.Engine, run transfer.Run, every time.Duration, logger *slog.Logger) (transfer.Run, error) {
	var tick <-chan time.Time
	if every > 0 {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		tick = ticker.C
	}
	for run.State != transfer.Complete {
		if tick != nil {
			select {
			case <-ctx.Done():
				return run, fmt.Errorf("simulation cancelled: %w", ctx.Err())
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return run, fmt.Errorf("simulation cancelled: %w", err)
		}
		run = engine.Tick(run)
		logger.Debug("tick", "tick", run.Ticks, "transferred_mb", run.TransferredMB, "speed_mbs", run.SpeedMBs)
		if run.State == transfer.Complete {
			break
		}
		if _, err := fmt.Fprintln(w, progressLine(run)); err != nil {
			return run, fmt.Errorf("failed to write output: %w", err)
		}
	}
	return run, nil
}

func progressLine(run transfer.Run) string {
	return fmt.Sprintf("[%3.0f%%] %-28s %8s  %4.1f MB/s  ETA %s",
		run.ProgressPercent(),
		run.StatusLine(),
		stats.FormatSize(run.TransferredMB),
		run.SpeedMBs,
		stats.FormatETA(run.ETASeconds()),
	)
}

func newPairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Print a pairing session with its PIN and QR code",
		Args:  cobra.NoArgs,
		RunE:  runPairCmd,
	}
	cmd.Flags().BoolVar(&pairConfirm, "confirm", false, "simulate the other device completing the pairing")
	cmd.Flags().BoolVar(&pairNoQR, "no-qr", false, "do not draw the QR code")
	return cmd
}

func runPairCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	session := pairing.NewSession(generator.New())
	url := session.URL(s.cfg.PairingBaseURL)
	lines := []string{
		fmt.Sprintf("Session: %s", session.ID),
		fmt.Sprintf("PIN:     %s", session.PIN),
		fmt.Sprintf("URL:     %s", url),
	}
	if !pairNoQR {
		qr, err := pairing.RenderQR(url)
		if err != nil {
			return err
		}
		lines = append(lines, "", qr)
	}
	if pairConfirm {
		paired, err := pairing.Complete(session)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("State:   %s", paired.State))
	} else {
		lines = append(lines, fmt.Sprintf("State:   %s", session.State))
	}
	_, err = fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show transfer history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of the interactive view")
	cmd.Flags().StringVar(&historyStatus, "status", "", "filter by status: completed or failed")
	cmd.Flags().IntVar(&historyLimit, "limit", 0, "limit to the N most recent transfers")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	status, err := parseStatus(historyStatus)
	if err != nil {
		return err
	}
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	st, err := openStore(cmd.Context(), s)
	if err != nil {
		return err
	}
	defer closeStore(st)

	filter := model.HistoryFilter{Status: status, Limit: historyLimit}
	if !historyPlain && isTerminal(os.Stdout) {
		program := tea.NewProgram(historyui.NewModel(st, filter), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	recs, err := st.ListTransfers(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, recs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistory(out, recs, terminalWidth(os.Stdout)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseStatus(value string) (model.Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return "", nil
	case "completed":
		return model.StatusCompleted, nil
	case "failed":
		return model.StatusFailed, nil
	default:
		return "", fmt.Errorf("unknown --status %q (want completed or failed)", value)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth(f *os.File) int {
	if !isTerminal(f) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := transfer.DefaultOptions()
	return fmt.Sprintf(`# datamover configuration
# Uncomment a value to enable it. CLI flags override config values.

[pairing]
# base-url = %q
# scan-delay-ms = %d       # Delay before the simulated scan
# confirm-delay-ms = %d    # Time spent on the confirming screen

[transfer]
# tick-ms = %d             # Wizard tick interval
# chunk-min = %.1f          # Minimum MB moved per tick
# chunk-max = %.1f          # Maximum MB moved per tick
# speed-min = %.1f         # Minimum displayed speed (MB/s)
# speed-max = %.1f         # Maximum displayed speed (MB/s)

[history]
# seed-demo = true          # Start with demo transfer history

[log]
# level = "off"             # off, debug, info, warn, error
# file = ""                 # Defaults to the state dir while the TUI runs

# Replace the built-in categories:
# [[categories]]
# id = "photos"
# name = "Photos"
# size-mb = 65
# items = 1234
`,
		pairing.DefaultBaseURL,
		defaultScanDelayMs,
		defaultConfirmDelayMs,
		defaultTickMs,
		defaults.ChunkMinMB,
		defaults.ChunkMaxMB,
		defaults.SpeedMinMBs,
		defaults.SpeedMaxMBs,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.ScanDelay < 0 {
		return fmt.Errorf("--scan-delay-ms must be >= 0")
	}
	if cfg.ConfirmDelay < 0 {
		return fmt.Errorf("--confirm-delay-ms must be >= 0")
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	if strings.TrimSpace(cfg.PairingBaseURL) == "" {
		return fmt.Errorf("--base-url must not be empty")
	}
	if err := engineOptions(cfg).Validate(); err != nil {
		return fmt.Errorf("invalid transfer settings: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
