package play

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/ui/layout"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Pick    key.Binding
	Remove  key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Retry   key.Binding
	Exit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Move")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑↓", "Move")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "Slot")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("←→", "Slot")),
		Pick:    key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Place")),
		Remove:  key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("Bksp", "Remove")),
		Quit:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Quit")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "End session")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep going")),
		Retry:   key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("R", "Retry")),
		Exit:    key.NewBinding(key.WithKeys("q", "Q", "esc"), key.WithHelp("Q", "Quit without saving")),
	}
}

func hint(b key.Binding) layout.KeyHint {
	h := b.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}

// questionHints returns the footer hints for answering a question of kind.
func (k keyMap) questionHints(kind quiz.Kind) []layout.KeyHint {
	var hints []layout.KeyHint
	switch kind {
	case quiz.KindMultiple:
		hints = []layout.KeyHint{{Key: "1-9", Description: "Choose"}, hint(k.Up), {Key: "Enter", Description: "Choose"}}
	case quiz.KindFillIn:
		hints = []layout.KeyHint{{Key: "a-z", Description: "Type"}, {Key: "1-9", Description: "Tile"}, hint(k.Left), hint(k.Remove)}
	case quiz.KindSyllableOrder:
		hints = []layout.KeyHint{{Key: "1-9", Description: "Syllable"}, hint(k.Left), hint(k.Remove)}
	case quiz.KindCategorize:
		hints = []layout.KeyHint{hint(k.Up), {Key: "1-9", Description: "Category"}, {Key: "←→", Description: "Category"}, hint(k.Remove)}
	case quiz.KindMatchPairs:
		hints = []layout.KeyHint{hint(k.Up), {Key: "1-9", Description: "Match"}, {Key: "Bksp", Description: "Clear"}}
	}
	return append(hints, hint(k.Quit))
}
