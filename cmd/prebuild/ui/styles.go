// Package ui renders terminal tables for the prebuild CLI.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Foreground = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#f2f2f2"}
	Accent     = lipgloss.Color("#8BC34A")
	MutedColor = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	ErrorColor = lipgloss.Color("#e53935")
)

// Styles holds the styles used by the CLI.
type Styles struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the CLI styles. NO_COLOR disables colors.
func DefaultStyles() Styles {
	if os.Getenv("NO_COLOR") != "" {
		plain := lipgloss.NewStyle()
		return Styles{
			Title:   plain.Bold(true),
			Bold:    plain.Bold(true),
			Body:    plain,
			Muted:   plain,
			Success: plain,
			Error:   plain,
		}
	}
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Accent).MarginBottom(1),
		Bold:    lipgloss.NewStyle().Bold(true).Foreground(Foreground),
		Body:    lipgloss.NewStyle().Foreground(Foreground),
		Muted:   lipgloss.NewStyle().Foreground(MutedColor),
		Success: lipgloss.NewStyle().Foreground(Accent),
		Error:   lipgloss.NewStyle().Foreground(ErrorColor).Bold(true),
	}
}
