package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"routehazard-sim/internal/config"
	"routehazard-sim/internal/hazard"
	"routehazard-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// telemetryMsg carries a vehicle row update.
type telemetryMsg struct{ telemetry.VehicleRow }

// warningMsg carries a pothole warning.
type warningMsg struct{ telemetry.WarningRow }

const (
	defaultTUIWidth = 80
	logHeight       = 8
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().MarginTop(1)
)

// TUIWriter renders the drive using a bubbletea dashboard.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.SimulationConfig, totalM float64, hazards []hazard.Hazard) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(cfg, totalM, hazards)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		// Quitting the dashboard ends the run, mirroring ctrl-c on the CLI.
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements TelemetryWriter.
func (w *TUIWriter) Write(row telemetry.VehicleRow) error {
	w.program.Send(telemetryMsg{row})
	return nil
}

// WriteWarning implements WarningWriter.
func (w *TUIWriter) WriteWarning(row telemetry.WarningRow) error {
	w.program.Send(warningMsg{row})
	return nil
}

// Close stops the TUI without signaling the process.
func (w *TUIWriter) Close() {
	w.sendSignal.Store(false)
	if p, ok := w.program.(*tea.Program); ok {
		p.Quit()
		<-w.done
	}
}

type tuiModel struct {
	cfg     *config.SimulationConfig
	totalM  float64
	hazards []hazard.Hazard
	warned  map[string]bool

	progress progress.Model
	hazTable table.Model
	logView  viewport.Model
	logLines []string
	latest   telemetry.VehicleRow
	width    int
}

func newTUIModel(cfg *config.SimulationConfig, totalM float64, hazards []hazard.Hazard) tuiModel {
	width := defaultTUIWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	columns := []table.Column{
		{Title: "Hazard", Width: 14},
		{Title: "Distance (m)", Width: 14},
		{Title: "State", Width: 10},
	}
	ht := table.New(
		table.WithColumns(columns),
		table.WithHeight(min(len(hazards)+1, 12)),
	)

	m := tuiModel{
		cfg:      cfg,
		totalM:   totalM,
		hazards:  hazards,
		warned:   make(map[string]bool),
		progress: progress.New(progress.WithDefaultGradient()),
		hazTable: ht,
		logView:  viewport.New(width, logHeight),
		width:    width,
	}
	m.progress.Width = width - 4
	m.refreshTable()
	return m
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 4
		m.logView.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case telemetryMsg:
		m.latest = msg.VehicleRow
		m.updateHazardStates(msg.DistanceM)
		m.refreshTable()
		return m, nil
	case warningMsg:
		m.warned[msg.HazardID] = true
		line := fmt.Sprintf("[%s] ⚠ %s ahead in %.0fm (vehicle at %.1fm)",
			msg.Timestamp.Format(time.Kitchen), msg.HazardID, msg.GapM, msg.DistanceM)
		m.logLines = append(m.logLines, wordwrap.String(line, m.width))
		m.logView.SetContent(strings.Join(m.logLines, "\n"))
		m.logView.GotoBottom()
		m.updateHazardStates(msg.DistanceM)
		m.refreshTable()
		return m, nil
	}
	return m, nil
}

// updateHazardStates mirrors the monitor's transitions from the row stream:
// warnings arrive explicitly, passes are inferred from distance.
func (m *tuiModel) updateHazardStates(traveled float64) {
	for i := range m.hazards {
		h := &m.hazards[i]
		if traveled > h.Distance+m.cfg.Warning.HysteresisM {
			h.State = hazard.StatePassed
		} else if m.warned[h.ID] {
			h.State = hazard.StateWarned
		}
	}
}

func (m *tuiModel) refreshTable() {
	rows := make([]table.Row, len(m.hazards))
	for i, h := range m.hazards {
		rows[i] = table.Row{h.ID, fmt.Sprintf("%.1f", h.Distance), string(h.State)}
	}
	m.hazTable.SetRows(rows)
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Route Hazard Simulator"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("vehicle=%s speed=%.1fm/s warning=%.0fm",
		m.latest.VehicleID, m.cfg.Vehicle.SpeedMps, m.cfg.Warning.DistanceM)))
	b.WriteString("\n\n")

	pct := 0.0
	if m.totalM > 0 {
		pct = m.latest.DistanceM / m.totalM
	}
	b.WriteString(m.progress.ViewAs(pct))
	b.WriteString(fmt.Sprintf("\n%.1fm / %.1fm  t=%.0fs\n", m.latest.DistanceM, m.totalM, m.latest.ElapsedS))

	b.WriteString(sectionStyle.Render(m.hazTable.View()))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(warnStyle.Render("Warnings") + "\n" + m.logView.View()))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("q: quit"))
	return b.String()
}
