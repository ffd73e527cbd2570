package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title          lipgloss.Style
	Dim            lipgloss.Style
	Input          lipgloss.Style
	Card           lipgloss.Style
	CardSelected   lipgloss.Style
	CardFading     lipgloss.Style
	CardTitle      lipgloss.Style
	Placeholder    lipgloss.Style
	PlaceholderBar lipgloss.Style
	Empty          lipgloss.Style
	StatusError    lipgloss.Style
	StatusLoading  lipgloss.Style
	Help           lipgloss.Style
	Main           lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		Card:           card,
		CardSelected:   card.BorderForeground(lipgloss.Color("226")),
		CardFading:     card.Faint(true),
		CardTitle:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Placeholder:    card.BorderForeground(lipgloss.Color("238")),
		PlaceholderBar: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 0),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),            // gray
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
	}
}
