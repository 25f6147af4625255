package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/daily"
	"github.com/abhisek/examprep/internal/games"
	"github.com/abhisek/examprep/internal/ui/theme"
	"github.com/abhisek/examprep/internal/vocab"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily vocabulary stages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dailyViewCmd.RunE(cmd, args)
	},
}

var dailyViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the words for the browsed stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if stage, _ := cmd.Flags().GetInt("stage"); stage > 0 {
				if _, err := a.Daily.Browse(ctx, stage); err != nil {
					return err
				}
			}
			v := a.Daily.View(a.Pool, dailyMode(cmd))
			printDailyView(v, a.State.Snapshot().StarredSet())
			return nil
		})
	},
}

var dailyPrevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Browse the previous stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dailyShift(cmd, (*daily.Service).Prev)
	},
}

var dailyNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Browse the next unlocked stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dailyShift(cmd, (*daily.Service).Next)
	},
}

var dailyDoneCmd = &cobra.Command{
	Use:   "done",
	Short: "Mark the newest stage as done",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			ok, err := a.Daily.MarkDone(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(theme.Hint.Render("Nothing to mark: the stage is already done or you are browsing a past stage."))
				return nil
			}
			fmt.Println(theme.Correct.Render(fmt.Sprintf("Stage complete! +%d XP", daily.CompletionXP)))
			return nil
		})
	},
}

var dailyAdvanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Unlock the next stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			stage, err := a.Daily.Advance(ctx)
			if errors.Is(err, daily.ErrAdvanceLocked) {
				fmt.Println(theme.Hint.Render("Mark the newest stage done first: examprep daily done"))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Stage %d unlocked.\n", stage)
			return nil
		})
	},
}

var dailyStarCmd = &cobra.Command{
	Use:   "star <word>",
	Short: "Star or unstar a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			word, ok := findWord(a.Pool, args[0])
			if !ok {
				return fmt.Errorf("unknown word %q", args[0])
			}
			starred, err := a.Daily.ToggleStar(ctx, word)
			if err != nil {
				return err
			}
			if starred {
				fmt.Println(theme.Star.Render("★ " + word))
			} else {
				fmt.Println("Unstarred " + word)
			}
			return nil
		})
	},
}

var dailyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Take a cumulative test over every unlocked word",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			questions, err := a.Daily.CumulativeTest(a.Pool, dailyMode(cmd))
			if err != nil {
				return err
			}

			in := bufio.NewScanner(os.Stdin)
			answers := make(map[string]int, len(questions))
			for i, q := range questions {
				opt, ok := askQuestion(in, i+1, q)
				if !ok {
					fmt.Println("Test abandoned.")
					return nil
				}
				answers[q.ID] = opt
				revealAnswer(i+1, q, opt)
			}

			score, err := a.Daily.SubmitTest(ctx, questions, answers)
			if err != nil {
				return err
			}
			fmt.Printf("\nScore: %d/%d  +%d XP\n", score, len(questions), score*daily.TestXPPerCorrect)
			return nil
		})
	},
}

var dailyMatchCmd = &cobra.Command{
	Use:   "match",
	Short: "Play the matching game over the browsed stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			v := a.Daily.View(a.Pool, dailyMode(cmd))
			if len(v.Words) == 0 {
				return errors.New("no words to match")
			}
			runner := games.NewMatchingRunner(games.MatchingConfig{
				Clock:   a.Clock,
				Rewards: games.DailyRewards,
				Rec:     a.Tracker,
				Rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
				Logger:  a.Logger,
			}, v.Words, a.Words.ShortDefinitions(ctx, v.Words))
			return playMatching(ctx, runner, 1)
		})
	},
}

func dailyMode(cmd *cobra.Command) daily.Mode {
	if starred, _ := cmd.Flags().GetBool("starred"); starred {
		return daily.StarredMode
	}
	return daily.StageMode
}

func dailyShift(cmd *cobra.Command, move func(*daily.Service, context.Context) (int, error)) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if _, err := move(a.Daily, ctx); err != nil {
			return err
		}
		printDailyView(a.Daily.View(a.Pool, daily.StageMode), a.State.Snapshot().StarredSet())
		return nil
	})
}

func printDailyView(v daily.View, starred map[string]bool) {
	title := fmt.Sprintf("Stage %d of %d", v.Stage, v.MaxStage)
	switch {
	case v.Mode == daily.StarredMode:
		title = fmt.Sprintf("Starred words (%d)", len(v.Words))
	case v.ReadOnly():
		title += "  (review)"
	case v.Completed:
		title += "  ✓ done"
	}
	fmt.Println(theme.Title.Render(title))

	if len(v.Words) == 0 {
		fmt.Println(theme.Hint.Render("No words here yet."))
		return
	}
	for _, w := range v.Words {
		fmt.Println(wordLine(w, starred[w.Word]))
	}
}

func wordLine(w vocab.Word, starred bool) string {
	var b strings.Builder
	mark := "  "
	if starred {
		mark = theme.Star.Render("★ ")
	}
	b.WriteString(mark + theme.Label.Render(w.Word))
	if w.PartOfSpeech != "" {
		b.WriteString(theme.Hint.Render(" (" + w.PartOfSpeech + ")"))
	}
	b.WriteString("\n    " + w.Definition)
	if w.ExampleSentence != "" {
		b.WriteString("\n    " + theme.Hint.Render(w.ExampleSentence))
	}
	return b.String()
}

func findWord(pool []vocab.Word, name string) (string, bool) {
	for _, w := range pool {
		if strings.EqualFold(w.Word, name) {
			return w.Word, true
		}
	}
	return "", false
}

func init() {
	for _, c := range []*cobra.Command{dailyCmd, dailyViewCmd, dailyTestCmd, dailyMatchCmd} {
		c.Flags().Bool("starred", false, "Use the starred review set")
	}
	dailyViewCmd.Flags().Int("stage", 0, "Stage to browse")
	dailyCmd.Flags().Int("stage", 0, "Stage to browse")

	dailyCmd.AddCommand(dailyViewCmd, dailyPrevCmd, dailyNextCmd, dailyDoneCmd, dailyAdvanceCmd, dailyStarCmd, dailyTestCmd, dailyMatchCmd)
}
