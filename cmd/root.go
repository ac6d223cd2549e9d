package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/seatwork/internal/catalog"
	"github.com/abhisek/seatwork/internal/config"
	"github.com/abhisek/seatwork/internal/logger"
	"github.com/abhisek/seatwork/internal/store"
	"github.com/abhisek/seatwork/internal/submit"
)

var rootCmd = &cobra.Command{
	Use:   "seatwork",
	Short: "Timed seatwork quizzes in the terminal",
	Long:  "Seatwork runs timed, hinted question sets (multiple choice, fill-in, categorize, match pairs, syllable order) and records scored submissions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

// cfg is loaded once per invocation before any command runs.
var cfg *config.Config

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SEATWORK_DB env var)")
	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SEATWORK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, string, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, "", fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	return st, dbPath, nil
}

// cliLogger logs to stderr for the non-interactive commands.
func cliLogger() zerolog.Logger {
	return logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}

// loadSet loads the question set from --catalog, or the built-in sample.
// Semantic warnings are written to w.
func loadSet(cmd *cobra.Command, w io.Writer) (*catalog.Set, error) {
	path, _ := cmd.Flags().GetString("catalog")
	var (
		set      *catalog.Set
		warnings []catalog.Warning
		err      error
	)
	if path != "" {
		set, warnings, err = catalog.LoadFile(path)
	} else {
		set, warnings, err = catalog.Sample()
	}
	if err != nil {
		return nil, err
	}
	for _, wn := range warnings {
		fmt.Fprintln(w, "warning:", wn)
	}
	return set, nil
}

// resolveMode picks the submission mode: --mode, then the question set's
// mode, then SEATWORK_MODE. play and review must agree so a saved session
// can be found again.
func resolveMode(cmd *cobra.Command, set *catalog.Set) string {
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		return mode
	}
	if set != nil && set.Mode != "" {
		return set.Mode
	}
	return cfg.Mode
}

// openQueue connects the Redis submission queue when REDIS_URL is set. It
// returns nil without error when Redis is not configured.
func openQueue(ctx context.Context, log zerolog.Logger) (*submit.RedisQueue, func(), error) {
	if cfg.RedisURL == "" {
		return nil, func() {}, nil
	}
	rdb, err := submit.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, func() {}, err
	}
	return submit.NewRedisQueue(rdb, log), func() { rdb.Close() }, nil
}
