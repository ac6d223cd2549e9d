package components

import (
	"fmt"
	"slices"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/seatwork/internal/ui/theme"
)

// SlotRow renders the answer slots of a fill-in or syllable question.
// Clue slots are highlighted and the focused slot gets a bright border.
// Empty slots show an underscore.
func SlotRow(slots []string, clues []int, focus int) string {
	cells := make([]string, 0, len(slots))
	for i, v := range slots {
		if v == "" {
			v = "_"
		}
		style := theme.Tile
		switch {
		case slices.Contains(clues, i):
			style = theme.TileClue
		case i == focus:
			style = theme.TileFocused
		}
		cells = append(cells, style.Render(v))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// TilePool renders the values still available to place, numbered from 1
// so they can be picked with the digit keys.
func TilePool(tiles []string, cursor int) string {
	if len(tiles) == 0 {
		return theme.Hint.Render("(no tiles left)")
	}
	cells := make([]string, 0, len(tiles))
	for i, t := range tiles {
		style := theme.Tile
		if i == cursor {
			style = theme.TileFocused
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d %s", i+1, t)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
