package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/config"
	"github.com/abhisek/examprep/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "examprep",
	Short: "Exam preparation coach",
	Long:  "examprep - practice sessions, daily vocabulary, word games and lessons for high-school entrance exam preparation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EXAMPREP_DB env var)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(mistakesCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(raceCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then EXAMPREP_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath(config.AppName)
}

// withApp wires the application for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg := config.Load()
	logger := cfg.NewLogger(os.Stderr)

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, cfg, dbPath, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
