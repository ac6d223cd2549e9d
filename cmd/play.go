package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/seatwork/internal/app"
	"github.com/abhisek/seatwork/internal/grading"
	"github.com/abhisek/seatwork/internal/hints"
	"github.com/abhisek/seatwork/internal/logger"
	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/screens/play"
	"github.com/abhisek/seatwork/internal/session"
	"github.com/abhisek/seatwork/internal/submit"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a seatwork session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().String("catalog", "", "Question set JSON file (default: built-in sample)")
	cmd.Flags().Int("grade", 0, "Grade level (default: the question set's grade)")
	cmd.Flags().String("mode", "", "Session mode (default: the question set's mode, then SEATWORK_MODE)")
	cmd.Flags().Uint64("seed", 0, "Seed for clue selection (default: random)")
}

// runPlay opens the store, builds the session, and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	ctx := context.Background()

	st, dbPath, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// The TUI owns the terminal, so logs go to a file next to the database.
	logPath := filepath.Join(filepath.Dir(dbPath), "seatwork.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, logFile)

	set, err := loadSet(cmd, os.Stderr)
	if err != nil {
		return err
	}

	grade, _ := cmd.Flags().GetInt("grade")
	if grade <= 0 {
		grade = set.Grade
	}
	mode := resolveMode(cmd, set)
	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}
	log.Info().Str("item_id", set.ItemID).Int("grade", grade).Uint64("seed", seed).Msg("building plan")

	plan := session.BuildPlan(session.PlanInput{
		ItemID:          set.ItemID,
		Mode:            mode,
		Grade:           grade,
		Questions:       set.Questions,
		GradeTimeLimits: cfg.GradeTimeLimits,
	}, hints.NewSeeded(seed))

	sinks := submit.Multi{{Name: "store", Sink: submit.Repo{Repo: st.SubmissionRepo()}}}
	queue, closeQueue, err := openQueue(ctx, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Redis queue unavailable:", err)
		fmt.Fprintln(os.Stderr, "Submissions will only be saved locally.")
	} else if queue != nil {
		sinks = append(sinks, submit.Named{Name: "redis", Sink: queue})
	}
	defer closeQueue()

	ctrl := session.NewController(plan, grading.NewGrader(log), sinks, session.Options{
		UserID:            cfg.UserID,
		PresentationDelay: cfg.PresentationDelay,
		Events:            st.EventRepo(),
		Logger:            log,
	})

	err = app.Run(app.Options{
		Screen: play.New(ctrl, play.Options{SubmitTimeout: cfg.SubmitTimeout, Logger: log}),
		Logger: log,
	})
	// Leaving the TUI by any path other than a successful submission ends
	// the session without saving.
	ctrl.Abandon()
	if err != nil {
		return err
	}

	if sub := ctrl.Submission(); sub != nil {
		fmt.Printf("Saved %s: %d / %d points (%.0f%%)\n",
			sub.ItemID, sub.Score, sub.TotalPossible, quiz.Percentage(sub.Score, sub.TotalPossible))
	} else {
		fmt.Println("Session ended; the score was not saved.")
	}
	return nil
}
