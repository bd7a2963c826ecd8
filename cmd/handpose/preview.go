package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/handpose/pkg/hand"
	"github.com/gwillem/handpose/pkg/logging"
	"github.com/gwillem/handpose/pkg/playback"
	"github.com/gwillem/handpose/pkg/rig"
	"github.com/gwillem/handpose/pkg/scene"
)

type PreviewCommand struct {
	Scene  string `long:"scene" default:"scene.json" description:"Keyframed scene to play"`
	Object string `long:"object" description:"Name of the rigged hand object"`
	FPS    int    `long:"fps" description:"Playback frame rate"`
	Loop   bool   `long:"loop" description:"Restart when the track ends"`
	Rig    bool   `long:"rig" description:"Mirror playback on the calibrated servo hand"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Joint colors - distinct colors for each joint
var jointColors = map[hand.Joint]string{
	hand.WristHorizontal: "196", // red
	hand.WristVertical:   "208", // orange
	hand.Thumb:           "226", // yellow
	hand.IndexFinger:     "46",  // green
	hand.MiddleFinger:    "51",  // cyan
	hand.RingFinger:      "33",  // blue
	hand.Pinky:           "201", // magenta
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type previewModel struct {
	ctrl     *playback.Controller
	chart    *streamlinechart.Model
	width    int // terminal width
	height   int // terminal height
	frame    int
	logs     []string // last N log messages
	quitting bool
}

func (m *previewModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg playback.State
type logMsg string

func waitForState(ctrl *playback.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *playback.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *previewModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = max(m.width-borderSize-2, 40)
	height = max(m.height-headerHeight-legendHeight-footerHeight-borderSize, 10)
	return width, height
}

func (m *previewModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

// yRange spans every joint's bounds.
func yRange(bounds hand.Bounds) (lo, hi float64) {
	lo, hi = bounds[0].Min, bounds[0].Max
	for _, r := range bounds[1:] {
		lo = min(lo, r.Min)
		hi = max(hi, r.Max)
	}
	return lo, hi
}

func initialPreviewModel(ctrl *playback.Controller, bounds hand.Bounds) previewModel {
	lo, hi := yRange(bounds)
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(lo, hi),
	)

	for _, j := range hand.AllJoints() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[j]))
		chart.SetDataSetStyles(j.String(), runes.ThinLineStyle, style)
	}

	return previewModel{
		ctrl:  ctrl,
		chart: &chart,
	}
}

func (m previewModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		state := playback.State(msg)
		m.frame = state.Frame
		for _, j := range hand.AllJoints() {
			m.chart.PushDataSet(j.String(), state.Angles[j])
		}
		m.chart.DrawAll()
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m previewModel) View() string {
	if m.quitting {
		return "Preview stopped.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Hand Pose Preview"))
	sb.WriteString(fmt.Sprintf(" - frame %d/%d @ %d Hz", m.frame+1, m.ctrl.Frames(), m.ctrl.Hz()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 0)).
		Foreground(lipgloss.Color("9"))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, j := range hand.AllJoints() {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[j])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+j.String())
	}
	return strings.Join(items, "  ")
}

func (c *PreviewCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if c.Object != "" {
		cfg.Object = c.Object
	}
	if c.FPS != 0 {
		cfg.FPS = c.FPS
	}

	s, err := scene.Load(c.Scene)
	if err != nil {
		return err
	}
	track := s.Track(cfg.Object)
	if len(track) == 0 {
		return fmt.Errorf("%s has no keyframes for %q, run 'handpose animate' first", c.Scene, cfg.Object)
	}

	// The TUI owns the terminal, so only the log file sink is kept.
	logger := logging.New(logging.Config{
		Verbose:   opts.Verbose,
		File:      opts.LogFile,
		NoConsole: true,
	})
	defer logger.Sync()

	pc := playback.Config{
		Track:  track,
		Hz:     cfg.FPS,
		Loop:   c.Loop,
		Logger: logger,
	}

	if c.Rig {
		if cfg.Rig.Port == "" || !cfg.Rig.IsCalibrated() {
			return errors.New("servo hand not calibrated, run 'handpose calibrate' first")
		}
		h, err := rig.Open(cfg.Rig.Port, cfg.Rig.Calibration, cfg.Bounds)
		if err != nil {
			return err
		}
		defer h.Close()
		if err := h.Enable(context.Background()); err != nil {
			return fmt.Errorf("enable torque: %w", err)
		}
		defer h.Disable(context.Background())
		pc.Output = h
	}

	ctrl, err := playback.NewController(pc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("playback error", zap.Error(err))
		}
	}()

	p := tea.NewProgram(initialPreviewModel(ctrl, cfg.Bounds), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run preview: %w", err)
	}

	return nil
}
