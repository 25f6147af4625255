package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/mistakes"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/theme"
)

var mistakesCmd = &cobra.Command{
	Use:   "mistakes",
	Short: "List logged mistakes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			logged := a.State.Snapshot().IncorrectQuestions
			if len(logged) == 0 {
				fmt.Println(theme.Correct.Render("No mistakes logged. Nice work!"))
				return nil
			}
			fmt.Println(theme.Title.Render(fmt.Sprintf("Mistakes (%d)", len(logged))))
			for _, q := range logged {
				fmt.Printf("%s  %s  %s\n",
					theme.Label.Render(mistakes.ShortID(q.ID)),
					theme.Hint.Render(fmt.Sprintf("%-10s", q.Category)),
					q.QuestionText)
			}
			return nil
		})
	},
}

var mistakesCorrectCmd = &cobra.Command{
	Use:   "correct <id> <option>",
	Short: "Re-answer one logged mistake",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := components.ParseOption(args[1])
		if opt < 0 {
			return fmt.Errorf("invalid option %q", args[1])
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			q, ok := findMistake(a.State.Snapshot(), args[0])
			if !ok {
				return fmt.Errorf("no logged mistake %q", args[0])
			}
			c := a.Corrector()
			phase, err := c.Select(ctx, q, opt)
			if err != nil {
				return err
			}
			printCorrection(q, opt, phase)
			return c.Close(ctx)
		})
	},
}

var mistakesReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Work through every logged mistake",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			logged := a.State.Snapshot().IncorrectQuestions
			c := a.Corrector()
			defer c.Close(ctx)

			in := bufio.NewScanner(os.Stdin)
			for i, q := range logged {
				opt, ok := askQuestion(in, i+1, q)
				if !ok {
					break
				}
				phase, err := c.Select(ctx, q, opt)
				if err != nil {
					return err
				}
				printCorrection(q, opt, phase)
			}
			if err := c.Close(ctx); err != nil {
				return err
			}
			fmt.Printf("%d mistakes left.\n", len(a.State.Snapshot().IncorrectQuestions))
			return nil
		})
	},
}

func findMistake(p *profile.Profile, ref string) (profile.Question, bool) {
	if q, ok := mistakes.Find(p, ref); ok {
		return q, true
	}
	for _, q := range p.IncorrectQuestions {
		if strings.EqualFold(mistakes.ShortID(q.ID), ref) {
			return q, true
		}
	}
	return profile.Question{}, false
}

func printCorrection(q profile.Question, opt int, phase mistakes.Phase) {
	fmt.Println(components.QuestionView{Question: q, Chosen: opt, Reveal: true}.View())
	if phase == mistakes.Correct {
		fmt.Println(theme.Correct.Render(fmt.Sprintf("Corrected! +%d XP", mistakes.CorrectionXP)))
	} else {
		fmt.Println(theme.Incorrect.Render("Not yet. It stays in your log."))
	}
	fmt.Println()
}

func init() {
	mistakesCmd.AddCommand(mistakesCorrectCmd, mistakesReviewCmd)
}
