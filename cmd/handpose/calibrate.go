package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/gwillem/handpose/pkg/hand"
)

var (
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type CalibrateCommand struct {
	Port string `long:"port" description:"Serial port of the servo hand (skips scanning)"`
}

func (c *CalibrateCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Hand Rig Calibration"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port := c.Port
	if port == "" {
		port, err = scanForHand()
		if err != nil {
			return err
		}
	}

	cal, err := calibrateHand(port)
	if err != nil {
		return err
	}

	cfg.Rig = hand.RigConfig{
		Port:        port,
		Calibration: cal,
	}
	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Calibration complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Play a random pose on the hand with: " + headerStyle.Render("handpose animate --rig"))

	return nil
}

type handInfo struct {
	port   string
	servos []feetech.FoundServo
	bus    *feetech.Bus
}

func scanForHand() (string, error) {
	fmt.Println("Scanning for servo hands...")
	fmt.Println()

	hands := findHands()
	switch len(hands) {
	case 0:
		return "", fmt.Errorf("no servo hand found (expected %d servos with IDs 1-%d)", hand.NumJoints, hand.NumJoints)
	case 1:
		hands[0].bus.Close()
		return hands[0].port, nil
	}

	fmt.Printf("Found %d hands. Let's identify them...\n\n", len(hands))

	port, ok := pickHand(hands, identifyHandWithWiggle, func(h handInfo) { h.bus.Close() })
	if !ok {
		return "", fmt.Errorf("no hand selected")
	}
	return port, nil
}

// pickHand offers each hand in turn until identify accepts one. identify
// owns the bus of every hand it is shown; hands never shown are released.
func pickHand(hands []handInfo, identify func(handInfo) bool, release func(handInfo)) (string, bool) {
	for i, h := range hands {
		if identify(h) {
			for _, rest := range hands[i+1:] {
				release(rest)
			}
			return h.port, true
		}
	}
	return "", false
}

func findHands() []handInfo {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var hands []handInfo

	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		bus, servos, err := connectToHand(port)
		if err != nil {
			continue
		}

		fmt.Printf("  Found servo hand on %s\n", port)
		hands = append(hands, handInfo{
			port:   port,
			servos: servos,
			bus:    bus,
		})
	}

	return hands
}

func isServoHand(servos []feetech.FoundServo) bool {
	if len(servos) != hand.NumJoints {
		return false
	}

	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}

	for i := 1; i <= hand.NumJoints; i++ {
		if !ids[i] {
			return false
		}
	}

	return true
}

func identifyHandWithWiggle(h handInfo) bool {
	defer h.bus.Close()

	ctx := context.Background()

	// Servo 1 drives the horizontal wrist swing
	var servo *feetech.Servo
	for _, s := range h.servos {
		if s.ID == 1 {
			servo = feetech.NewServo(h.bus, s.ID, s.Model)
			break
		}
	}
	if servo == nil {
		return false
	}

	originalPos, err := servo.Position(ctx)
	if err != nil {
		fmt.Printf("  Error reading position: %v\n", err)
		return false
	}

	if err := servo.Enable(ctx); err != nil {
		fmt.Printf("  Error enabling servo: %v\n", err)
		return false
	}

	fmt.Printf("\n  Wiggling hand on %s...\n", h.port)

	wiggleAmount := 30
	moveTimeMs := 500
	servo.SetPositionWithTime(ctx, originalPos+wiggleAmount, moveTimeMs)
	time.Sleep(time.Duration(moveTimeMs+100) * time.Millisecond)
	servo.SetPositionWithTime(ctx, originalPos-wiggleAmount, moveTimeMs)
	time.Sleep(time.Duration(moveTimeMs+100) * time.Millisecond)
	servo.SetPositionWithTime(ctx, originalPos, moveTimeMs)
	time.Sleep(time.Duration(moveTimeMs+100) * time.Millisecond)

	servo.Disable(ctx)

	var pick bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Calibrate the hand on %s?", h.port)).
				Description("The hand whose wrist just wiggled").
				Affirmative("Yes").
				Negative("Next hand").
				Value(&pick),
		),
	)
	if err := form.Run(); err != nil {
		return false
	}

	return pick
}

func connectToHand(port string) (*feetech.Bus, []feetech.FoundServo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	servos, err := bus.Scan(ctx, 1, hand.NumJoints)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}

	if !isServoHand(servos) {
		bus.Close()
		return nil, nil, fmt.Errorf("not a servo hand (expected %d servos with IDs 1-%d)", hand.NumJoints, hand.NumJoints)
	}

	return bus, servos, nil
}

// calibrateHand records each joint's range of motion while the user moves
// the hand by hand. Servo IDs follow joint order starting at 1.
func calibrateHand(port string) (hand.Calibration, error) {
	fmt.Printf("Calibrating hand on %s\n", port)
	fmt.Println()

	bus, servos, err := connectToHand(port)
	if err != nil {
		return nil, fmt.Errorf("connect to hand: %w", err)
	}
	defer bus.Close()

	servoMap := make(map[int]*feetech.Servo)
	for _, s := range servos {
		servoMap[s.ID] = feetech.NewServo(bus, s.ID, s.Model)
	}

	// Disable all servos so the user can move the hand freely
	ctx := context.Background()
	for _, servo := range servoMap {
		servo.Disable(ctx)
	}

	joints := hand.AllJoints()

	fmt.Println(subHeaderStyle.Render("Record range of motion"))
	fmt.Println("Move the wrist and every finger to its minimum AND maximum positions.")
	fmt.Println("Fully straighten and fully bend each finger.")
	fmt.Println()

	curPositions := make(map[hand.Joint]int)
	minPositions := make(map[hand.Joint]int)
	maxPositions := make(map[hand.Joint]int)
	for _, j := range joints {
		pos, _ := servoMap[servoID(j)].Position(ctx)
		curPositions[j] = pos
		minPositions[j] = pos
		maxPositions[j] = pos
	}

	model := newCalibrationModel(joints, servoMap, curPositions, minPositions, maxPositions)
	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("run calibration: %w", err)
	}

	cm := finalModel.(calibrationModel)
	cal := make(hand.Calibration, len(joints))
	for _, j := range joints {
		cal[j] = hand.ServoCalibration{
			ID:       servoID(j),
			RangeMin: cm.minPositions[j],
			RangeMax: cm.maxPositions[j],
		}
	}

	fmt.Println()
	fmt.Println("Hand calibrated.")
	return cal, nil
}

func servoID(j hand.Joint) int {
	return int(j) + 1
}

// Calibration TUI model
type calibrationModel struct {
	joints       []hand.Joint
	servoMap     map[int]*feetech.Servo
	curPositions map[hand.Joint]int
	minPositions map[hand.Joint]int
	maxPositions map[hand.Joint]int
	quitting     bool
}

type tickMsg time.Time

func newCalibrationModel(
	joints []hand.Joint,
	servoMap map[int]*feetech.Servo,
	curPositions, minPositions, maxPositions map[hand.Joint]int,
) calibrationModel {
	return calibrationModel{
		joints:       joints,
		servoMap:     servoMap,
		curPositions: curPositions,
		minPositions: minPositions,
		maxPositions: maxPositions,
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m calibrationModel) Init() tea.Cmd {
	return tick()
}

func (m calibrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		ctx := context.Background()
		for _, j := range m.joints {
			pos, err := m.servoMap[servoID(j)].Position(ctx)
			if err != nil {
				continue
			}
			m.curPositions[j] = pos
			m.minPositions[j] = min(m.minPositions[j], pos)
			m.maxPositions[j] = max(m.maxPositions[j], pos)
		}
		return m, tick()
	}

	return m, nil
}

func (m calibrationModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableJointStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableCurrentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tableRangeGoodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableRangeLowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := make([][]string, 0, len(m.joints))
	ranges := make([]int, 0, len(m.joints))
	for _, j := range m.joints {
		rangeSize := m.maxPositions[j] - m.minPositions[j]
		ranges = append(ranges, rangeSize)
		rows = append(rows, []string{
			j.String(),
			fmt.Sprintf("%d", m.curPositions[j]),
			fmt.Sprintf("%d", m.minPositions[j]),
			fmt.Sprintf("%d", m.maxPositions[j]),
			fmt.Sprintf("%d", rangeSize),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Joint", "Current", "Min", "Max", "Range").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case 0:
				return tableJointStyle
			case 1:
				return tableCurrentStyle
			case 4:
				if row >= 0 && row < len(ranges) && ranges[row] > 300 {
					return tableRangeGoodStyle
				}
				return tableRangeLowStyle
			default:
				return tableCellStyle
			}
		})

	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Press Enter when done"))

	return sb.String()
}
