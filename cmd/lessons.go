package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/learning"
	"github.com/abhisek/examprep/internal/lessons"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/theme"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lesson topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n := 0
			for _, track := range lessons.Tracks {
				fmt.Println(theme.Title.Render(string(track)))
				for _, topic := range lessons.Topics(track) {
					n++
					mark := " "
					if a.Lessons.Cached(topic) {
						mark = theme.Correct.Render("●")
					}
					fmt.Printf("  %s %2d. %s\n", mark, n, topic)
				}
			}
			fmt.Println(theme.Hint.Render("● cached   examprep lessons show <number>"))
			return nil
		})
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <topic|number>",
	Short: "Show a lesson and its quick check",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, err := resolveTopic(strings.Join(args, " "))
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			l, err := a.Lessons.Lesson(ctx, topic)
			if errors.Is(err, llm.ErrNoProvider) {
				fmt.Println(theme.Hint.Render("This lesson is not cached and no LLM provider is configured."))
				return nil
			}
			if err != nil {
				return err
			}
			printLesson(l)

			answer, _ := cmd.Flags().GetString("answer")
			if answer == "" {
				fmt.Print("\nYour answer (A-D, Enter to skip): ")
				in := bufio.NewScanner(os.Stdin)
				if !in.Scan() {
					return nil
				}
				answer = strings.TrimSpace(in.Text())
			}
			opt := components.ParseOption(answer)
			if opt < 0 || opt >= len(l.QuickCheck.Options) {
				return nil
			}
			return checkLesson(ctx, a.Learning(ctx), l, opt)
		})
	},
}

var lessonsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Generate and cache every grammar lesson",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if a.Provider == nil {
				return llm.ErrNoProvider
			}
			n, err := a.Lessons.Sync(ctx)
			fmt.Printf("Synced %d lessons.\n", n)
			return err
		})
	},
}

func resolveTopic(ref string) (string, error) {
	var all []string
	for _, track := range lessons.Tracks {
		all = append(all, lessons.Topics(track)...)
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(all) {
			return "", fmt.Errorf("lesson number must be 1-%d", len(all))
		}
		return all[n-1], nil
	}
	for _, t := range all {
		if strings.EqualFold(t, ref) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", lessons.ErrUnknownTopic, ref)
}

func printLesson(l lessons.Lesson) {
	fmt.Println(components.Card(l.Topic, l.Explanation, 0))
	if len(l.Examples) > 0 {
		fmt.Println(theme.Label.Render("Examples"))
		for _, ex := range l.Examples {
			fmt.Println("  • " + ex)
		}
	}
	fmt.Println()
	fmt.Println(theme.Subtitle.Render("Quick check"))
	fmt.Println(components.QuestionView{Question: quickCheckQuestion(l), Chosen: -1}.View())
}

func checkLesson(ctx context.Context, center *learning.Center, l lessons.Lesson, opt int) error {
	correct, err := center.AnswerQuickCheck(ctx, l, opt)
	if err != nil {
		return err
	}
	fmt.Println(components.QuestionView{Question: quickCheckQuestion(l), Chosen: opt, Reveal: true}.View())
	if correct {
		fmt.Println(theme.Correct.Render(fmt.Sprintf("Correct! +%d XP", learning.QuickCheckXP)))
	} else {
		fmt.Println(theme.Incorrect.Render("Not quite. Added to your mistakes."))
	}
	return nil
}

func quickCheckQuestion(l lessons.Lesson) profile.Question {
	return profile.Question{
		QuestionText:  l.QuickCheck.Question,
		Options:       l.QuickCheck.Options,
		CorrectAnswer: l.QuickCheck.CorrectAnswer,
		Explanation:   l.QuickCheck.Explanation,
	}
}

func init() {
	lessonsShowCmd.Flags().String("answer", "", "Answer the quick check without prompting")
	lessonsCmd.AddCommand(lessonsShowCmd, lessonsSyncCmd)
}
