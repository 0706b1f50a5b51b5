// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorPink).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	rowStyle      = lipgloss.NewStyle().Foreground(colorText)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay1)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	flashStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	labelStyle    = lipgloss.NewStyle().Foreground(colorTeal).Width(10)
	helpStyle     = lipgloss.NewStyle().Foreground(colorOverlay1)
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
)

// statusStyle colours a character's life status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "Alive":
		return lipgloss.NewStyle().Foreground(colorGreen)
	case "Dead":
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Foreground(colorOverlay1)
	}
}
