package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/abhisek/seatwork/internal/catalog"
	"github.com/abhisek/seatwork/internal/config"
)

func TestResolveMode(t *testing.T) {
	prev := cfg
	cfg = &config.Config{Mode: "practice"}
	t.Cleanup(func() { cfg = prev })

	tests := []struct {
		name    string
		flag    string
		setMode string
		want    string
	}{
		{"flag wins", "exam", "quiz", "exam"},
		{"question set mode", "", "quiz", "quiz"},
		{"config fallback", "", "", "practice"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &cobra.Command{Use: "x"}
			c.Flags().String("mode", "", "")
			if tc.flag != "" {
				if err := c.Flags().Set("mode", tc.flag); err != nil {
					t.Fatal(err)
				}
			}
			got := resolveMode(c, &catalog.Set{Mode: tc.setMode})
			if got != tc.want {
				t.Errorf("resolveMode = %q, want %q", got, tc.want)
			}
		})
	}
}

// play and review must look up the same submission key for a question set
// whose mode differs from the configured default.
func TestPlayAndReviewAgreeOnMode(t *testing.T) {
	prev := cfg
	cfg = &config.Config{Mode: "practice"}
	t.Cleanup(func() { cfg = prev })

	set := &catalog.Set{ItemID: "x", Mode: "quiz"}
	if got := resolveMode(playCmd, set); got != "quiz" {
		t.Errorf("play mode = %q, want quiz", got)
	}
	if got := resolveMode(reviewCmd, set); got != "quiz" {
		t.Errorf("review mode = %q, want quiz", got)
	}
}
