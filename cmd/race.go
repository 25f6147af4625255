package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/daily"
	"github.com/abhisek/examprep/internal/games"
	"github.com/abhisek/examprep/internal/progress"
)

var raceCmd = &cobra.Command{
	Use:   "race",
	Short: "Race against the clock to match words to definitions",
	Long: `Race against the clock to match words to definitions.

By default the race runs over the learning-center training batch. With
--daily it runs over the browsed daily stage, or the starred set with
--starred. Starred races are not recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		useDaily, _ := cmd.Flags().GetBool("daily")
		starred, _ := cmd.Flags().GetBool("starred")
		rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if !useDaily && !starred {
				center := a.Learning(ctx)
				return playRace(ctx, func(onChange func(games.RaceState)) (*games.RaceRunner, error) {
					return center.Race(ctx, rng, onChange)
				})
			}

			mode := daily.StageMode
			if starred {
				mode = daily.StarredMode
			}
			v := a.Daily.View(a.Pool, mode)
			board, key, ok := a.Daily.RaceBoard(v)
			if ok {
				printBest(a, board, key)
			}
			return playRace(ctx, func(onChange func(games.RaceState)) (*games.RaceRunner, error) {
				race, err := games.NewRace(games.RaceConfig{
					Rewards: games.DailyRewards,
					Rec:     a.Tracker,
					Rng:     rng,
					Board:   board,
					Key:     key,
				}, v.Words)
				if err != nil {
					return nil, err
				}
				return games.NewRaceRunner(race, a.Clock, a.Logger, onChange), nil
			})
		})
	},
}

func printBest(a *app.App, board progress.Board, key string) {
	if ms, ok := progress.BestTime(a.State.Snapshot(), board, key); ok {
		fmt.Printf("Best time: %.2fs\n", float64(ms)/1000)
	}
}

func init() {
	raceCmd.Flags().Bool("daily", false, "Race over the browsed daily stage")
	raceCmd.Flags().Bool("starred", false, "Race over the starred words")
}
