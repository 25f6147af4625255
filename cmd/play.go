package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/examprep/internal/games"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// stdinLines feeds stdin lines to a channel, closing it at EOF.
func stdinLines() <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			ch <- strings.TrimSpace(in.Text())
		}
	}()
	return ch
}

// playRace runs a race on stdin until it finishes, the learner quits or
// ctx ends.
func playRace(ctx context.Context, newRunner func(onChange func(games.RaceState)) (*games.RaceRunner, error)) error {
	states := make(chan games.RaceState, 256)
	runner, err := newRunner(func(s games.RaceState) {
		select {
		case states <- s:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer runner.Stop()

	fmt.Println(theme.Title.Render("Vocabulary race"))
	fmt.Printf("Pick the word for each definition. %s per question, q to quit.\n\n", games.QuestionTime)
	lines := stdinLines()
	runner.Start()

	last := games.RaceReady
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-states:
			if s.Phase == last {
				continue
			}
			last = s.Phase
			switch s.Phase {
			case games.RaceAsking:
				printRaceQuestion(s)
			case games.RaceFeedback:
				printRaceFeedback(s)
			case games.RaceFinished:
				fmt.Printf("\nFinished in %s.", s.FinishTime.Round(10*time.Millisecond))
				if s.NewBest {
					fmt.Print(theme.Star.Render("  New best time!"))
				}
				fmt.Println()
				return nil
			}
		case line, ok := <-lines:
			if !ok || strings.EqualFold(line, "q") {
				fmt.Println("Race abandoned.")
				return nil
			}
			st := runner.State()
			idx := components.ParseOption(line)
			if st.Phase != games.RaceAsking || idx < 0 || idx >= len(st.Question.Options) {
				continue
			}
			if _, err := runner.Answer(ctx, st.Question.Options[idx]); err != nil {
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
		}
	}
}

func printRaceQuestion(s games.RaceState) {
	bar := components.NewProgressBar("", s.Progress/100, true, 40)
	fmt.Println(bar.View())
	fmt.Println(theme.Body.Render(s.Question.Definition()))
	for i, opt := range s.Question.Options {
		fmt.Printf("  %s)  %s\n", components.OptionLabel(i), opt)
	}
}

func printRaceFeedback(s games.RaceState) {
	r := s.Last
	switch {
	case r.TimedOut:
		fmt.Println(theme.Incorrect.Render("Time's up! It was " + s.Question.Word.Word))
	case r.Correct && r.Boost != games.NoBoost:
		fmt.Println(theme.Correct.Render(fmt.Sprintf("Correct! %s boost +%.0f", r.Boost, r.Gain)))
	case r.Correct:
		fmt.Println(theme.Correct.Render(fmt.Sprintf("Correct! +%.0f", r.Gain)))
	default:
		fmt.Println(theme.Incorrect.Render("Wrong. It was " + s.Question.Word.Word))
	}
	fmt.Println()
}

// playMatching runs a matching grid on stdin. Each line names a word tile
// and a definition tile by number, for example "3 7".
func playMatching(ctx context.Context, runner *games.MatchingRunner, rounds int) error {
	defer runner.Stop()
	lines := stdinLines()

	for {
		st := runner.State()
		if st.Done || st.Round > rounds {
			fmt.Println(theme.Correct.Render("Grid cleared!"))
			return nil
		}
		printGrid(st)
		fmt.Print("word# def# (q to quit): ")

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok || strings.EqualFold(l, "q") {
				return nil
			}
			line = l
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		wi, err1 := strconv.Atoi(fields[0])
		di, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || wi < 1 || wi > len(st.Words) || di < 1 || di > len(st.Defs) {
			continue
		}
		word, def := st.Words[wi-1], st.Defs[di-1]
		if st.Matched[word.ID] || st.Matched[def.ID] {
			continue
		}

		if _, err := runner.Select(ctx, word.ID, games.WordSide); err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
		out, err := runner.Select(ctx, def.ID, games.DefinitionSide)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
		switch out {
		case games.Matched, games.Completed:
			fmt.Println(theme.Correct.Render("Match!"))
		case games.Mismatched:
			fmt.Println(theme.Incorrect.Render("Not a pair."))
			for runner.State().ErrorKey != "" {
				time.Sleep(games.ErrorDelay / 10)
			}
		}
	}
}

func printGrid(st games.MatchingState) {
	fmt.Println(theme.Subtitle.Render(fmt.Sprintf("Round %d", st.Round)))
	for i := 0; i < max(len(st.Words), len(st.Defs)); i++ {
		var left, right string
		if i < len(st.Words) {
			left = tileText(i, st.Words[i], st.Matched)
		}
		if i < len(st.Defs) {
			right = tileText(i, st.Defs[i], st.Matched)
		}
		fmt.Printf("%-28s  %s\n", left, right)
	}
}

func tileText(i int, t games.Tile, matched map[string]bool) string {
	s := fmt.Sprintf("%2d. %s", i+1, t.Text)
	if matched[t.ID] {
		return theme.Hint.Render(s + " ✓")
	}
	return s
}

// askQuestion prints q and reads an option. It reports false when the
// learner quits or stdin ends.
func askQuestion(in *bufio.Scanner, number int, q profile.Question) (int, bool) {
	fmt.Println(components.QuestionView{Number: number, Question: q, Chosen: -1}.View())
	for {
		fmt.Print("Answer (A-D, q to stop): ")
		if !in.Scan() {
			return -1, false
		}
		line := strings.TrimSpace(in.Text())
		if strings.EqualFold(line, "q") {
			return -1, false
		}
		if opt := components.ParseOption(line); opt >= 0 && opt < len(q.Options) {
			return opt, true
		}
	}
}

// revealAnswer prints the answered question with the correct option marked.
func revealAnswer(number int, q profile.Question, chosen int) {
	fmt.Println(components.QuestionView{Number: number, Question: q, Chosen: chosen, Reveal: true}.View())
}
