package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorPrimary = lipgloss.Color("#FF4B4B")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorError   = lipgloss.Color("#E74C3C")
	colorInfo    = lipgloss.Color("#3498DB")
	colorMuted   = lipgloss.Color("#6B6F7B")
)

var styles = struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Heading    lipgloss.Style
	Muted      lipgloss.Style
	ErrorBox   lipgloss.Style
	SuccessBox lipgloss.Style
	InfoBox    lipgloss.Style
	Metric     lipgloss.Style
	High       lipgloss.Style
	Low        lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
	Subtitle: lipgloss.NewStyle().Foreground(colorMuted),
	Heading:  lipgloss.NewStyle().Bold(true).MarginTop(1),
	Muted:    lipgloss.NewStyle().Foreground(colorMuted),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Foreground(colorError).
		Bold(true).
		Padding(0, 1),
	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSuccess).
		Foreground(colorSuccess).
		Bold(true).
		Padding(0, 1),
	InfoBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorInfo).
		Padding(0, 1),
	Metric: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		Padding(0, 2).
		Width(18),

	High: lipgloss.NewStyle().Foreground(colorError).Bold(true),
	Low:  lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
}
