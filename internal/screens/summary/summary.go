package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/seatwork/internal/screen"
	"github.com/abhisek/seatwork/internal/session"
	"github.com/abhisek/seatwork/internal/ui/components"
	"github.com/abhisek/seatwork/internal/ui/layout"
	"github.com/abhisek/seatwork/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary *session.SessionSummary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.SessionSummary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *SummaryScreen) HeaderStatus() layout.HeaderStatus {
	if s.summary == nil {
		return layout.HeaderStatus{}
	}
	return layout.HeaderStatus{
		Score:    s.summary.Score,
		Question: s.summary.Answered,
		Total:    s.summary.TotalQuestions,
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	title := "Seatwork complete!"
	if !sum.Submitted {
		title = "Seatwork ended"
	}
	b.WriteString(components.Banner(title, theme.Title, width))
	b.WriteString("\n\n")

	// Score.
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
		fmt.Sprintf("%d / %d points  (%.0f%%)", sum.Score, sum.TotalPossible, sum.Percentage))))
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Time: %d:%02d", mins, secs))))
	b.WriteString("\n\n")

	sep := "    "
	if layout.IsCompactWidth(width) {
		sep = "\n"
	}
	stats := fmt.Sprintf("Correct: %d%sPartly correct: %d%sIncorrect: %d%sTimed out: %d",
		sum.FullyCorrect, sep, sum.PartlyCorrect, sep, sum.Incorrect, sep, sum.TimedOut)
	b.WriteString(components.Banner(stats, theme.Body, width))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	for i, q := range sum.Questions {
		label := q.Prompt
		if label == "" {
			label = q.Kind.DisplayName()
		}
		if len([]rune(label)) > 40 {
			label = string([]rune(label)[:39]) + "…"
		}
		line := fmt.Sprintf("%2d. %-40s  %3.0f%%  +%d", i+1, label, q.Partial*100, q.Points)
		if q.TimedOut {
			line += "  (time)"
		}
		b.WriteString(center(resultStyle(q.Partial).Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func resultStyle(partial float64) lipgloss.Style {
	switch {
	case partial >= 1:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case partial > 0:
		return lipgloss.NewStyle().Foreground(theme.Partial)
	default:
		return lipgloss.NewStyle().Foreground(theme.Error)
	}
}
