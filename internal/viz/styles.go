package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(52)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true).MarginBottom(1)
}

func statusStyle(running bool) lipgloss.Style {
	if running {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	}
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Warning)
}

// OopsBanner renders an oops message as a bordered warning box.
func OopsBanner(msg string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Error).
		Foreground(CurrentTheme.Error).
		Bold(true).
		Padding(0, 1).
		Width(46).
		Render(msg)
}

// Slider renders v in [min, max] as a bar of the given width with the
// midpoint marked, used for the heat/cool control.
func Slider(v, min, max float64, width int) string {
	if width < 3 {
		width = 3
	}
	pos := int((v - min) / (max - min) * float64(width-1))
	pos = clampInt(pos, 0, width-1)
	mid := (width - 1) / 2

	cells := []rune(strings.Repeat("─", width))
	cells[mid] = '┼'
	cells[pos] = '●'
	color := CurrentTheme.Muted
	switch {
	case pos > mid:
		color = CurrentTheme.Second
	case pos < mid:
		color = CurrentTheme.First
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(cells))
}

// ProgressBar renders a fraction in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := clampInt(int(percent*float64(width)), 0, width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(bar)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
