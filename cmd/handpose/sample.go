package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/handpose/pkg/hand"
	"github.com/gwillem/handpose/pkg/pose"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SampleCommand struct {
	Seed  int64 `long:"seed" description:"Random seed (0 picks one from the clock)"`
	Count int   `short:"n" long:"count" default:"1" description:"Number of poses to draw"`
}

func (c *SampleCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	rng, seed := newRand(cfg.Seed)
	sampler := pose.NewSampler(cfg.Bounds, cfg.Flex, rng)

	poses := make([]hand.AngleVector, max(c.Count, 1))
	for i := range poses {
		poses[i] = sampler.Sample()
	}

	fmt.Println(headerStyle.Render("Random hand poses") + dimStyle.Render(fmt.Sprintf("  seed %d", seed)))
	fmt.Println(renderPoses(cfg.Bounds, poses))
	return nil
}

// renderPoses renders one row per joint and one column per pose.
func renderPoses(bounds hand.Bounds, poses []hand.AngleVector) string {
	headers := []string{"Joint", "Min", "Max"}
	for i := range poses {
		headers = append(headers, fmt.Sprintf("#%d", i+1))
	}

	rows := make([][]string, 0, hand.NumJoints)
	for _, j := range hand.AllJoints() {
		row := []string{
			j.String(),
			fmt.Sprintf("%.0f", bounds[j].Min),
			fmt.Sprintf("%.0f", bounds[j].Max),
		}
		for _, p := range poses {
			row = append(row, fmt.Sprintf("%.2f", p[j]))
		}
		rows = append(rows, row)
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	jointStyle := cellStyle.Foreground(lipgloss.Color("14"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cellStyle.Bold(true).Foreground(lipgloss.Color("12"))
			case col == 0:
				return jointStyle
			case col <= 2:
				return cellStyle.Foreground(lipgloss.Color("241"))
			default:
				return cellStyle
			}
		})

	return t.Render()
}
