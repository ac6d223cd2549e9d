package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/seatwork/internal/catalog"
	"github.com/abhisek/seatwork/internal/quiz"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a question set file (or the built-in sample)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			set      *catalog.Set
			warnings []catalog.Warning
			err      error
		)
		if len(args) == 1 {
			set, warnings, err = catalog.LoadFile(args[0])
		} else {
			set, warnings, err = catalog.Sample()
		}
		if err != nil {
			return err
		}

		counts := make(map[quiz.Kind]int)
		for _, q := range set.Questions {
			counts[q.Kind]++
		}
		fmt.Printf("%s (grade %d): %d questions\n", set.ItemID, set.Grade, len(set.Questions))
		for _, k := range quiz.AllKinds() {
			if counts[k] > 0 {
				fmt.Printf("  %-18s %d\n", k.DisplayName(), counts[k])
			}
		}
		if len(warnings) == 0 {
			fmt.Println("No problems found.")
			return nil
		}
		fmt.Printf("%d problem(s); affected questions will score 0:\n", len(warnings))
		for _, w := range warnings {
			fmt.Println("  -", w)
		}
		return nil
	},
}
