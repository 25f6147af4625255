package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/theme"
)

const barWidth = 48

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			fmt.Println(renderStats(a.State.Snapshot()))
			return nil
		})
	},
}

// runDashboard prints the stats and, when enabled, fills the lesson
// registry while the learner reads them. Ctrl+C stops the sync; lessons
// fetched so far are kept.
func runDashboard(cmd *cobra.Command) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		fmt.Println(renderStats(a.State.Snapshot()))
		if !a.Config.SyncLessons || a.Provider == nil {
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		fmt.Println(theme.Hint.Render("Fetching grammar lessons in the background (Ctrl+C to skip)..."))
		n, err := a.Lessons.Sync(ctx)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("sync lessons: %w", err)
		}
		if n > 0 {
			fmt.Printf("%d new lessons saved.\n", n)
		}
		return nil
	})
}

func renderStats(p *profile.Profile) string {
	lvl := progress.LevelFromXP(int(p.XP))
	out := components.Header(p.Username, lvl.Number, lvl.Rank, int(p.XP)) + "\n\n"

	levelBar := components.NewProgressBar(fmt.Sprintf("Level %d", lvl.Number), lvl.Progress, true, barWidth)
	levelBar.Color = theme.Accent
	out += levelBar.View() + "\n"
	out += theme.Hint.Render(fmt.Sprintf("%d / %d XP to level %d", lvl.XPIntoLevel, progress.XPPerLevel, lvl.Number+1)) + "\n\n"

	var bars string
	for _, c := range profile.Categories {
		bar := components.NewProgressBar(c.Slug(), float64(p.Accuracy(c))/100, true, barWidth)
		bar.LabelWidth = 8
		bar.Color = theme.CategoryColor(c)
		attempted := p.CategoryAttempted[c]
		bars += bar.View() + theme.Hint.Render(fmt.Sprintf("  %d tried", attempted)) + "\n"
	}
	out += components.Card("Accuracy", bars, 0) + "\n"

	overall := profile.Percent(int(p.TotalCorrect), int(p.QuestionsAnswered))
	out += components.KeyValue([][2]string{
		{"Questions", fmt.Sprintf("%d answered, %d correct (%d%%)", p.QuestionsAnswered, p.TotalCorrect, overall)},
		{"Quizzes", strconv.Itoa(int(p.CompletedQuizzes))},
		{"Mistakes", fmt.Sprintf("%d to review", len(p.IncorrectQuestions))},
		{"Daily", dailyLine(p)},
		{"Starred", fmt.Sprintf("%d words", len(p.StarredWords))},
	})
	return out
}

func dailyLine(p *profile.Profile) string {
	s := fmt.Sprintf("stage %d", p.DailyVocabDay)
	if p.DailyVocabCompleted {
		s += " (done)"
	}
	return s
}
