// ============================================================================
// robogame - Robot Script Arena
// ============================================================================
//
// Package:     arenaview
// Description: Styles for the arena viewer TUI
// Author:      Mike Stoffels
// Created:     2026-10-09
// License:     MIT
// ============================================================================

package arenaview

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette - shared with the other TUI components
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorAccent    = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
)

// One color per robot slot
var robotColors = []lipgloss.Color{ColorSecondary, ColorError}

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	ArenaBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimmed).
				Padding(0, 1)

	EmptyCellStyle = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	BarrelStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ShieldStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	WinnerStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)
)

func robotStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(robotColors[i%len(robotColors)]).
		Bold(true)
}
