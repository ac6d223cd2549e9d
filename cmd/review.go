package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/seatwork/internal/grading"
	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/review"
	"github.com/abhisek/seatwork/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Recompute the latest submission of an item from its saved answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		log := cliLogger()

		set, err := loadSet(cmd, os.Stderr)
		if err != nil {
			return err
		}
		itemID, _ := cmd.Flags().GetString("item")
		if itemID == "" {
			itemID = set.ItemID
		}
		mode := resolveMode(cmd, set)
		user, _ := cmd.Flags().GetString("user")
		if user == "" {
			user = cfg.UserID
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sub, err := st.SubmissionRepo().Latest(ctx, user, mode, itemID)
		if errors.Is(err, store.ErrNotFound) {
			sub, err = latestFromQueue(ctx, user, mode, itemID)
		}
		if err != nil {
			return fmt.Errorf("load submission: %w", err)
		}
		if sub == nil {
			fmt.Printf("No submission found for %s (%s, %s).\n", itemID, user, mode)
			return nil
		}

		report := review.Recompute(set.Questions, *sub, grading.NewGrader(log))
		printReport(*sub, report)
		return nil
	},
}

func init() {
	reviewCmd.Flags().String("catalog", "", "Question set JSON file (default: built-in sample)")
	reviewCmd.Flags().String("item", "", "Item ID (default: the question set's item)")
	reviewCmd.Flags().String("mode", "", "Session mode (default: the question set's mode, then SEATWORK_MODE)")
	reviewCmd.Flags().String("user", "", "User ID (default: SEATWORK_USER)")
}

// latestFromQueue falls back to the Redis copy when the local store has no
// submission, e.g. when reviewing on another machine.
func latestFromQueue(ctx context.Context, user, mode, itemID string) (*quiz.Submission, error) {
	queue, closeQueue, err := openQueue(ctx, cliLogger())
	if err != nil || queue == nil {
		return nil, err
	}
	defer closeQueue()
	return queue.Latest(ctx, user, mode, itemID)
}

func printReport(sub quiz.Submission, r review.Report) {
	fmt.Printf("%s  %s  %s  submitted %s\n\n",
		sub.ItemID, sub.UserID, sub.Mode, sub.SubmittedAt.Local().Format("2006-01-02 15:04"))

	fmt.Printf("%-4s  %-12s  %-18s  %7s  %6s  %s\n", "#", "Question", "Type", "Credit", "Points", "Note")
	fmt.Println(strings.Repeat("─", 66))
	for i, l := range r.Lines {
		note := ""
		switch {
		case l.Missing:
			note = "not in question set"
		case l.TimedOut:
			note = "timed out"
		}
		fmt.Printf("%-4d  %-12s  %-18s  %6.0f%%  %6d  %s\n",
			i+1, l.QuestionID, l.Kind.DisplayName(), l.Partial*100, l.Points, note)
	}
	fmt.Println()

	fmt.Printf("Recomputed: %d / %d (%.2f%%)\n", r.Score, r.TotalPossible, r.Percentage)
	fmt.Printf("Submitted:  %d / %d (%.2f%%)\n", r.SubmittedScore, r.TotalPossible, r.SubmittedPercentage)
	if r.Matches() {
		fmt.Println("✓ scores match")
	} else {
		fmt.Println("✗ scores differ")
	}
}
