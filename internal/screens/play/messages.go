package play

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/seatwork/internal/session"
)

// tickMsg carries the countdown handle it was scheduled for. A handle that
// no longer matches the controller's live countdown is ignored there.
type tickMsg struct {
	handle session.TimerHandle
}

// feedbackDoneMsg is sent when the feedback for question index has been
// shown for the presentation delay.
type feedbackDoneMsg struct {
	index int
}

// submitDoneMsg reports the result of a submission attempt.
type submitDoneMsg struct {
	err error
}

// summaryReadyMsg is sent when a successful submission has been on screen
// long enough to move to the results.
type summaryReadyMsg struct{}

// pendingRetry is how soon Next is retried when the controller reports the
// presentation delay has not fully passed.
const pendingRetry = 100 * time.Millisecond

func tickCmd(h session.TimerHandle) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{handle: h}
	})
}

func feedbackCmd(index int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackDoneMsg{index: index}
	})
}

func summaryCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return summaryReadyMsg{}
	})
}
