package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/session"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/theme"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice sessions: reading, vocab, grammar, math, spelling, mock",
}

// parseCategory accepts a slug ("math") or any text NormalizeCategory
// understands ("Mathematics").
func parseCategory(s string) (profile.Category, error) {
	for _, c := range profile.Categories {
		if strings.EqualFold(s, c.Slug()) || strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	c := profile.NormalizeCategory(s)
	if c == profile.Mock && !strings.Contains(strings.ToLower(s), "mock") && !strings.Contains(strings.ToLower(s), "simul") {
		return "", fmt.Errorf("unknown category %q (want reading, vocab, grammar, math, spelling or mock)", s)
	}
	return c, nil
}

func categoryArg(args []string) (profile.Category, error) {
	return parseCategory(args[0])
}

var practiceStartCmd = &cobra.Command{
	Use:   "start <category>",
	Short: "Start a new session, discarding any open one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := categoryArg(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			s, err := a.Sessions.Begin(ctx, c)
			if err != nil {
				return err
			}
			fmt.Printf("Started %s: %d questions.\n", c, len(s.Questions))
			printSession(s, false)
			return nil
		})
	},
}

var practiceShowCmd = &cobra.Command{
	Use:   "show <category>",
	Short: "Show the open session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := categoryArg(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			s := a.Sessions.Get(c)
			if s == nil {
				fmt.Printf("No open %s session. Start one with: examprep practice start %s\n", c, c.Slug())
				return nil
			}
			printSession(s, s.IsSubmitted)
			return nil
		})
	},
}

var practiceAnswerCmd = &cobra.Command{
	Use:   "answer <category> <question#> <option>",
	Short: "Answer one question (option A-D or 1-4)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := categoryArg(args)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid question number %q", args[1])
		}
		opt := components.ParseOption(args[2])
		if opt < 0 {
			return fmt.Errorf("invalid option %q", args[2])
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			s := a.Sessions.Get(c)
			if s == nil {
				return session.ErrNoSession
			}
			if n < 1 || n > len(s.Questions) {
				return fmt.Errorf("question %d out of range 1-%d", n, len(s.Questions))
			}
			changed, err := a.Sessions.Answer(ctx, c, s.Questions[n-1].ID, opt)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Println("Nothing changed.")
				return nil
			}
			fmt.Printf("Question %d: %s\n", n, components.OptionLabel(opt))
			return nil
		})
	},
}

var practiceSubmitCmd = &cobra.Command{
	Use:   "submit <category>",
	Short: "Score the open session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := categoryArg(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return submitSession(ctx, a, c)
		})
	},
}

func submitSession(ctx context.Context, a *app.App, c profile.Category) error {
	res, err := a.Sessions.Submit(ctx, c)
	if err != nil {
		return err
	}
	if !res.Done {
		fmt.Printf("ELA section: %d/%d. The math section is ready.\n", res.Score, res.Total)
		printSession(a.Sessions.Get(c), false)
		return nil
	}
	fmt.Println(theme.Title.Render(fmt.Sprintf("Score: %d/%d", res.Score, res.Total)))
	printSummary(session.BuildSummary(a.Sessions.Get(c)))
	if len(res.Mistakes) > 0 {
		fmt.Printf("%d mistakes added to your review log.\n", len(res.Mistakes))
	}
	return nil
}

var practiceClearCmd = &cobra.Command{
	Use:   "clear <category>",
	Short: "Discard the open session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := categoryArg(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			changed, err := a.Sessions.Clear(ctx, c)
			if err != nil {
				return err
			}
			if changed {
				fmt.Println("Session cleared.")
			}
			return nil
		})
	},
}

var practiceHighlightCmd = &cobra.Command{
	Use:   "highlight <category> add <start> <end> | remove <id> | clear",
	Short: "Mark up the reading passage",
	Args:  cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := categoryArg(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			switch args[1] {
			case "add":
				if len(args) != 4 {
					return errors.New("usage: highlight <category> add <start> <end>")
				}
				start, err1 := strconv.Atoi(args[2])
				end, err2 := strconv.Atoi(args[3])
				if err := errors.Join(err1, err2); err != nil {
					return fmt.Errorf("invalid span: %w", err)
				}
				h, err := a.Sessions.AddHighlight(ctx, c, start, end)
				if err != nil {
					return err
				}
				fmt.Printf("Highlighted %q (id %s)\n", h.Text, h.ID)
			case "remove":
				if len(args) != 3 {
					return errors.New("usage: highlight <category> remove <id>")
				}
				if _, err := a.Sessions.RemoveHighlight(ctx, c, args[2]); err != nil {
					return err
				}
			case "clear":
				if _, err := a.Sessions.ClearHighlights(ctx, c); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown highlight action %q", args[1])
			}
			return nil
		})
	},
}

var practiceTakeCmd = &cobra.Command{
	Use:   "take <category>",
	Short: "Work through the open session interactively, timed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := categoryArg(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			s := a.Sessions.Get(c)
			if s == nil || s.IsSubmitted {
				if s, err = a.Sessions.Begin(ctx, c); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			return takeSession(ctx, a, c, stdinLines())
		})
	},
}

// takeSession asks every unanswered question, reading answers from
// lines. The elapsed-time timer runs for the whole run and is saved when
// it ends, including when ctx is cancelled while a prompt is waiting.
func takeSession(ctx context.Context, a *app.App, c profile.Category, lines <-chan string) error {
	for {
		timer := a.Sessions.StartTimer(c)
		s := a.Sessions.Get(c)
		if passage := session.Passage(s); passage != "" {
			fmt.Println(components.Card("Passage", renderPassage(passage, s.Highlights), 0))
		}

		quit, interrupted := false, false
		for i, q := range s.Questions {
			if _, done := s.UserAnswers[q.ID]; done {
				continue
			}
			fmt.Println(components.QuestionView{Number: i + 1, Question: q, Chosen: -1}.View())
			opt := -1
			for opt < 0 && !quit && !interrupted {
				fmt.Print("Answer (A-D, q to stop): ")
				select {
				case <-ctx.Done():
					interrupted = true
				case line, ok := <-lines:
					if !ok || strings.EqualFold(line, "q") {
						quit = true
					} else {
						opt = components.ParseOption(line)
					}
				}
			}
			if quit || interrupted {
				break
			}
			if _, err := a.Sessions.Answer(ctx, c, q.ID, opt); err != nil {
				return errors.Join(err, timer.Close(context.WithoutCancel(ctx)))
			}
		}
		// The flush must outlive an interrupt.
		if err := timer.Close(context.WithoutCancel(ctx)); err != nil {
			return err
		}
		if quit || interrupted {
			fmt.Println("\nProgress saved. Resume with: examprep practice take", c.Slug())
			return nil
		}
		if err := submitSession(ctx, a, c); err != nil {
			return err
		}
		if s := a.Sessions.Get(c); s == nil || s.IsSubmitted {
			return nil
		}
	}
}

func printSession(s *profile.Session, reveal bool) {
	if s == nil {
		return
	}
	if s.MockStage != "" {
		fmt.Println(theme.Subtitle.Render("Mock exam: " + string(s.MockStage) + " section"))
	}
	if passage := session.Passage(s); passage != "" {
		fmt.Println(components.Card("Passage", renderPassage(passage, s.Highlights), 0))
	}
	for i, q := range s.Questions {
		chosen, ok := s.UserAnswers[q.ID]
		if !ok {
			chosen = -1
		}
		if q.Passage != "" && q.Passage != session.Passage(s) {
			fmt.Println(theme.Hint.Render(q.Passage))
		}
		fmt.Println(components.QuestionView{Number: i + 1, Question: q, Chosen: chosen, Reveal: reveal}.View())
	}
	answered := len(s.UserAnswers)
	fmt.Println(theme.Hint.Render(fmt.Sprintf("%d/%d answered, %s elapsed", answered, len(s.Questions), time.Duration(s.ElapsedTime)*time.Second)))
}

func printSummary(sum *session.Summary) {
	var rows [][2]string
	for _, r := range sum.Results {
		rows = append(rows, [2]string{r.Category.Slug(), fmt.Sprintf("%d/%d", r.Correct, r.Attempted)})
	}
	rows = append(rows,
		[2]string{"accuracy", fmt.Sprintf("%.0f%%", sum.Accuracy*100)},
		[2]string{"time", sum.Duration.String()},
	)
	fmt.Print(components.KeyValue(rows))
}

// renderPassage marks every highlighted span. Spans are byte offsets and
// never overlap.
func renderPassage(text string, hs []profile.Highlight) string {
	hs = slices.Clone(hs)
	slices.SortFunc(hs, func(a, b profile.Highlight) int { return a.Start - b.Start })
	var b strings.Builder
	pos := 0
	for _, h := range hs {
		if h.Start < pos || h.End > len(text) || h.Start >= h.End {
			continue
		}
		b.WriteString(text[pos:h.Start])
		b.WriteString(theme.Marked.Render(text[h.Start:h.End]))
		pos = h.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

func init() {
	practiceCmd.AddCommand(practiceStartCmd)
	practiceCmd.AddCommand(practiceShowCmd)
	practiceCmd.AddCommand(practiceAnswerCmd)
	practiceCmd.AddCommand(practiceSubmitCmd)
	practiceCmd.AddCommand(practiceClearCmd)
	practiceCmd.AddCommand(practiceHighlightCmd)
	practiceCmd.AddCommand(practiceTakeCmd)
}
