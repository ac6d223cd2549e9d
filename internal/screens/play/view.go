package play

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/seatwork/internal/answers"
	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/session"
	"github.com/abhisek/seatwork/internal/ui/components"
	"github.com/abhisek/seatwork/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	switch {
	case s.submitErr != nil:
		body = renderSubmitError(s.submitErr, cw)
	case s.submitting && s.result != nil:
		body = theme.Correct.Width(cw).Render("Saved!")
	case s.submitting:
		body = theme.Subtitle.Width(cw).Render("Saving your answers...")
	case s.confirmQuit:
		body = renderQuitConfirm(cw)
	default:
		body = s.renderSession(cw)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *PlayScreen) renderSession(cw int) string {
	st := s.ctrl.Snapshot()
	if st.Question == nil {
		switch st.Phase {
		case session.PhaseAbandoned:
			return theme.Subtitle.Width(cw).Render("Session ended.")
		default:
			return theme.Subtitle.Width(cw).Render("All done!")
		}
	}

	q := st.Question
	answered := st.Phase == session.PhaseAnswered

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(q.Kind.DisplayName()))
	b.WriteString("\n")
	if q.Prompt != "" {
		b.WriteString(theme.Body.Width(cw - 6).Render(q.Prompt))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch q.Kind {
	case quiz.KindMultiple:
		b.WriteString(s.renderMultiple(q, st.Answer, answered))
	case quiz.KindFillIn, quiz.KindSyllableOrder:
		b.WriteString(s.renderSlots(q, st.Answer, answered))
	case quiz.KindCategorize:
		b.WriteString(s.renderCategorize(q, st.Answer, answered))
	case quiz.KindMatchPairs:
		b.WriteString(s.renderMatch(q, st.Answer, answered))
	default:
		b.WriteString(theme.Hint.Render("This question cannot be shown."))
	}
	b.WriteString("\n\n")

	if answered && st.Last != nil {
		b.WriteString(renderFeedback(st.Last))
	} else {
		b.WriteString(components.Countdown{Remaining: st.Remaining, Limit: st.TimeLimit, Width: cw - 6}.View())
		if s.notice != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render(s.notice))
		}
	}

	return components.Card(b.String(), cw)
}

func (s *PlayScreen) renderMultiple(q *quiz.Question, a quiz.Answer, answered bool) string {
	if q.Multiple == nil {
		return ""
	}
	chosen := -1
	if a.Selected != nil {
		chosen = *a.Selected
	}
	return components.Choices{
		Options: q.Multiple.Options,
		Cursor:  s.focus,
		Chosen:  chosen,
		Correct: q.Multiple.Correct,
		Reveal:  answered,
	}.View()
}

func (s *PlayScreen) renderSlots(q *quiz.Question, a quiz.Answer, answered bool) string {
	focus := s.focus
	if answered {
		focus = -1
	}
	out := components.SlotRow(a.Slots, a.Clues, focus)
	if answered {
		if want := canonicalWord(q); want != "" {
			out += "\n" + theme.Hint.Render("Answer: "+want)
		}
		return out
	}
	return out + "\n\n" + components.TilePool(answers.Pool(q, a), s.pick)
}

func canonicalWord(q *quiz.Question) string {
	switch {
	case q.FillIn != nil:
		return q.FillIn.Answer
	case q.SyllableOrder != nil:
		return strings.Join(q.SyllableOrder.Syllables, "-")
	}
	return ""
}

func (s *PlayScreen) renderCategorize(q *quiz.Question, a quiz.Answer, answered bool) string {
	k := q.Categorize
	if k == nil {
		return ""
	}
	var b strings.Builder
	for i, c := range k.Categories {
		var placed []string
		for _, item := range k.Items() {
			if a.Placement[item] != c {
				continue
			}
			style := theme.Body
			if answered {
				style = theme.Incorrect
				if slices.Contains(k.Members[c], item) {
					style = theme.Correct
				}
			}
			placed = append(placed, style.Render(item))
		}
		label := fmt.Sprintf("%d) %s:", i+1, c)
		if i == s.focus && !answered {
			label = theme.Selected.Render("▸ " + label)
		} else {
			label = theme.Unselected.Render("  " + label)
		}
		b.WriteString(label + " " + strings.Join(placed, ", "))
		b.WriteString("\n")
	}
	if !answered {
		b.WriteString("\n")
		b.WriteString(components.TilePool(answers.Pool(q, a), s.pick))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (s *PlayScreen) renderMatch(q *quiz.Question, a quiz.Answer, answered bool) string {
	k := q.MatchPairs
	if k == nil {
		return ""
	}
	var left strings.Builder
	for i, l := range k.Left {
		right := "___"
		if i < len(a.Matches) && a.Matches[i] != quiz.Unassigned && a.Matches[i] < len(k.Right) {
			right = k.Right[a.Matches[i]]
		}
		line := fmt.Sprintf("%s  →  %s", l, right)
		switch {
		case answered && i < len(a.Matches) && k.Pairs[i] == a.Matches[i]:
			line = theme.Correct.Render("  " + line)
		case answered:
			line = theme.Incorrect.Render("  " + line)
		case i == s.focus:
			line = theme.Selected.Render("▸ " + line)
		default:
			line = theme.Unselected.Render("  " + line)
		}
		left.WriteString(line + "\n")
	}

	var right strings.Builder
	for i, r := range k.Right {
		style := theme.Body
		if slices.Contains(a.Matches, i) {
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		right.WriteString(style.Render(fmt.Sprintf("%d) %s", i+1, r)) + "\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.TrimSuffix(left.String(), "\n"),
		"      ",
		strings.TrimSuffix(right.String(), "\n"),
	)
}

func renderFeedback(ev *session.Evaluation) string {
	o := ev.Outcome
	var banner string
	switch {
	case ev.TimedOut() && o.Partial == 0:
		banner = theme.Incorrect.Render("Time's up!")
	case o.FullyCorrect():
		banner = theme.Correct.Render("Correct!")
	case o.PartiallyCorrect():
		banner = theme.PartlyCorrect.Render(fmt.Sprintf("Partly correct (%.0f%%)", o.Partial*100))
	default:
		banner = theme.Incorrect.Render("Not quite")
	}
	points := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("+%d points", o.Points))
	return banner + "   " + points
}

func renderQuitConfirm(cw int) string {
	msg := theme.Incorrect.Render("End this session?") + "\n\n" +
		theme.Body.Render("Your answers so far will not be saved.") + "\n\n" +
		theme.Hint.Render("Y to end, N to keep going")
	return components.Card(msg, cw)
}

func renderSubmitError(err error, cw int) string {
	msg := theme.Incorrect.Render("Your answers could not be sent.") + "\n\n" +
		theme.Hint.Width(cw-6).Render(err.Error()) + "\n\n" +
		theme.Body.Render("R to retry. Q to quit; your score will not be saved.")
	return components.Card(msg, cw)
}
