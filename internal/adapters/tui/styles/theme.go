package styles

import (
	"github.com/charmbracelet/lipgloss"

	"bite/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Tag type colors
	TypeRegular     = lipgloss.Color("#E5E7EB") // Light gray
	TypeCategory    = lipgloss.Color("#60A5FA") // Blue
	TypeModifier    = lipgloss.Color("#F97316") // Orange
	TypeInteraction = lipgloss.Color("#EC4899") // Pink

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Image count next to a tag
	NodeCount = lipgloss.NewStyle().
			Foreground(Muted)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Search
	SearchMatch = lipgloss.NewStyle().
			Background(Warning).
			Foreground(Black)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// TypeColor returns the color for a tag type
func TypeColor(t domain.TagType) lipgloss.Color {
	switch t {
	case domain.TagTypeCategory:
		return TypeCategory
	case domain.TagTypeModifier:
		return TypeModifier
	case domain.TagTypeInteraction:
		return TypeInteraction
	case domain.TagTypeRoot:
		return Primary
	default:
		return TypeRegular
	}
}

// TagStyle returns the style of a tag name in trees and lists. Categories
// are bold, modifiers italic.
func TagStyle(t domain.TagType) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(TypeColor(t))
	switch t {
	case domain.TagTypeCategory, domain.TagTypeRoot:
		style = style.Bold(true)
	case domain.TagTypeModifier:
		style = style.Italic(true)
	}
	return style
}
