package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/seatwork/internal/ui/theme"
)

// ContentWidth returns the inner width used for question cards so every
// section of the play screen lines up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// Banner renders a centered, bold line in the given style.
func Banner(text string, style lipgloss.Style, width int) string {
	return style.
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}
