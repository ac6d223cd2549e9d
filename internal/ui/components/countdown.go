package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/seatwork/internal/ui/theme"
)

// LowTimeSecs is when the countdown turns red.
const LowTimeSecs = 5

// Countdown renders the per-question timer as a draining bar.
type Countdown struct {
	Remaining int
	Limit     int
	Width     int
}

// View renders the countdown.
func (c Countdown) View() string {
	label := fmt.Sprintf("%2ds ", max(c.Remaining, 0))
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	fill := theme.ProgressFilled
	if c.Remaining <= LowTimeSecs {
		labelStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		fill = theme.ProgressLow
	}

	barWidth := c.Width - lipgloss.Width(label)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := 0
	if c.Limit > 0 {
		filled = barWidth * c.Remaining / c.Limit
	}
	filled = min(max(filled, 0), barWidth)

	return labelStyle.Render(label) +
		fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
}
