package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved submissions and session events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		limit, _ := cmd.Flags().GetInt("limit")
		user, _ := cmd.Flags().GetString("user")
		events, _ := cmd.Flags().GetBool("events")
		sessionID, _ := cmd.Flags().GetString("session")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		switch {
		case sessionID != "":
			return printAnswers(ctx, st.EventRepo(), sessionID)
		case events:
			return printSessionEvents(ctx, st.EventRepo(), limit)
		}

		subs, err := st.SubmissionRepo().List(ctx, store.QueryOpts{Limit: limit, UserID: user})
		if err != nil {
			return fmt.Errorf("list submissions: %w", err)
		}
		if len(subs) == 0 {
			fmt.Println("No submissions yet.")
		} else {
			fmt.Printf("%-16s  %-12s  %-10s  %-24s  %11s  %6s  %s\n",
				"Submitted", "User", "Mode", "Item", "Score", "%", "Questions")
			fmt.Println(strings.Repeat("─", 100))
			for _, s := range subs {
				fmt.Printf("%-16s  %-12s  %-10s  %-24s  %5d/%-5d  %5.1f%%  %d\n",
					s.SubmittedAt.Local().Format("2006-01-02 15:04"),
					s.UserID, s.Mode, s.ItemID,
					s.Score, s.TotalPossible, quiz.Percentage(s.Score, s.TotalPossible),
					s.TotalQuestions)
			}
		}

		queue, closeQueue, err := openQueue(ctx, cliLogger())
		if err != nil {
			fmt.Println("\nRedis queue unavailable:", err)
			return nil
		}
		defer closeQueue()
		if queue != nil {
			n, err := queue.Pending(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("\nQueued for processing: %d\n", n)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum rows to show")
	historyCmd.Flags().String("user", "", "Only show this user's submissions")
	historyCmd.Flags().Bool("events", false, "Show session start/end events instead of submissions")
	historyCmd.Flags().String("session", "", "Show the answer events of one session")
}

func printSessionEvents(ctx context.Context, repo store.EventRepo, limit int) error {
	events, err := repo.SessionEvents(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		return fmt.Errorf("query session events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No session events found.")
		return nil
	}
	fmt.Printf("%-6s  %-19s  %-8s  %-36s  %-24s  %6s  %s\n",
		"Seq", "Timestamp", "Action", "Session", "Item", "Score", "Secs")
	fmt.Println(strings.Repeat("─", 118))
	for _, e := range events {
		fmt.Printf("%-6d  %-19s  %-8s  %-36s  %-24s  %6d  %d\n",
			e.Sequence, e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Action, e.SessionID, e.ItemID, e.Score, e.DurationSecs)
	}
	return nil
}

func printAnswers(ctx context.Context, repo store.EventRepo, sessionID string) error {
	answers, err := repo.SessionAnswers(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("query answers: %w", err)
	}
	if len(answers) == 0 {
		fmt.Println("No answers recorded for", sessionID)
		return nil
	}
	fmt.Printf("%-12s  %-18s  %7s  %6s  %7s  %s\n", "Question", "Type", "Credit", "Points", "Ms", "Timed out")
	fmt.Println(strings.Repeat("─", 70))
	for _, a := range answers {
		fmt.Printf("%-12s  %-18s  %6.0f%%  %6d  %7d  %v\n",
			a.QuestionID, a.Kind.DisplayName(), a.Partial*100, a.Points, a.TimeMs, a.TimedOut)
	}
	return nil
}
