package cmd

import (
	"bufio"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/learning"
	"github.com/abhisek/examprep/internal/ui/theme"
	"github.com/abhisek/examprep/internal/vocab"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Learning center: word search, flashcards, spelling and matching",
}

var wordsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search words and Greek/Latin roots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			center := a.Learning(ctx)
			starred := a.State.Snapshot().StarredSet()

			seen := make(map[string]bool)
			var found []vocab.Word
			for _, w := range append(vocab.Search(a.Pool, query), center.SearchWords(query)...) {
				if key := strings.ToLower(w.Word); !seen[key] {
					seen[key] = true
					found = append(found, w)
				}
			}
			for _, w := range found {
				fmt.Println(wordLine(w, starred[w.Word]))
			}

			roots := center.SearchRoots(query)
			if len(roots) > 0 {
				fmt.Println(theme.Subtitle.Render("Roots"))
			}
			for _, r := range roots {
				fmt.Printf("  %s  %s  %s\n", theme.Label.Render(r.Root), r.Meaning,
					theme.Hint.Render(strings.Join(r.Examples, ", ")))
			}
			if len(found) == 0 && len(roots) == 0 {
				fmt.Println(theme.Hint.Render("No matches."))
			}
			return nil
		})
	},
}

var wordsTrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Flip through flashcards for the training batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		fresh, _ := cmd.Flags().GetBool("new")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			center := a.Learning(ctx)
			if fresh {
				if _, err := center.NewBatch(ctx); err != nil {
					return err
				}
			}
			deck, err := center.Deck(ctx)
			if err != nil {
				return err
			}
			return flipDeck(deck)
		})
	},
}

var wordsSpellCmd = &cobra.Command{
	Use:   "spell",
	Short: "Take a spelling quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if n <= 0 {
				n = a.Config.SpellingCount
			}
			questions, err := a.Questions.SpellingTest(ctx, n)
			if err != nil {
				return err
			}
			center := a.Learning(ctx)

			in := bufio.NewScanner(os.Stdin)
			score := 0
			for i, q := range questions {
				opt, ok := askQuestion(in, i+1, q)
				if !ok {
					break
				}
				correct, err := center.AnswerSpelling(ctx, q, opt)
				if err != nil {
					return err
				}
				if correct {
					score++
					fmt.Println(theme.Correct.Render(fmt.Sprintf("Correct! +%d XP", learning.SpellingXP)))
				} else {
					revealAnswer(i+1, q, opt)
				}
			}
			fmt.Printf("\nSpelling: %d/%d\n", score, len(questions))
			return nil
		})
	},
}

var wordsMatchCmd = &cobra.Command{
	Use:   "match",
	Short: "Play the training matching game",
	RunE: func(cmd *cobra.Command, args []string) error {
		rounds, _ := cmd.Flags().GetInt("rounds")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			runner, err := a.Learning(ctx).Matching(ctx, rng)
			if err != nil {
				return err
			}
			return playMatching(ctx, runner, rounds)
		})
	},
}

var wordsShuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Shuffle the training batch order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			batch, err := a.Learning(ctx).Shuffle(ctx)
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(vocab.Names(batch), ", "))
			return nil
		})
	},
}

// flipDeck walks a deck on stdin: Enter flips, n and p move, q quits.
func flipDeck(deck *vocab.Deck) error {
	in := bufio.NewScanner(os.Stdin)
	for {
		w, ok := deck.Current()
		if !ok {
			fmt.Println(theme.Hint.Render("The batch is empty."))
			return nil
		}
		fmt.Println(theme.Subtitle.Render(fmt.Sprintf("Card %d/%d", deck.Index()+1, deck.Len())))
		if deck.Flipped() {
			fmt.Println(wordLine(w, false))
		} else {
			fmt.Println("  " + theme.Title.Render(w.Word))
		}
		fmt.Print("[Enter] flip  [n]ext  [p]rev  [q]uit: ")
		if !in.Scan() {
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "":
			deck.Flip()
		case "n":
			deck.Next()
		case "p":
			deck.Prev()
		case "q":
			return nil
		}
	}
}

func init() {
	wordsTrainCmd.Flags().Bool("new", false, "Draw a new training batch first")
	wordsSpellCmd.Flags().Int("count", 0, "Number of spelling questions")
	wordsMatchCmd.Flags().Int("rounds", 3, "Number of grids to clear")

	wordsCmd.AddCommand(wordsSearchCmd, wordsTrainCmd, wordsSpellCmd, wordsMatchCmd, wordsShuffleCmd)
}
