package learning

import (
	"context"
	"math/rand/v2"

	"github.com/abhisek/examprep/internal/games"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/vocab"
)

// Deck returns a flashcard deck over the active batch.
func (c *Center) Deck(ctx context.Context) (*vocab.Deck, error) {
	batch, err := c.Batch(ctx)
	if err != nil {
		return nil, err
	}
	return vocab.NewDeck(batch), nil
}

// Matching starts a training matching grid over the active batch. A
// cleared grid reseeds itself with a fresh batch.
func (c *Center) Matching(ctx context.Context, rng *rand.Rand) (*games.MatchingRunner, error) {
	batch, err := c.Batch(ctx)
	if err != nil {
		return nil, err
	}
	cfg := games.MatchingConfig{
		Clock:   c.clk,
		Rewards: games.TrainingRewards,
		Rec:     c.tracker,
		Source:  c,
		Rng:     rng,
		Logger:  c.logger,
	}
	return games.NewMatchingRunner(cfg, batch, c.words.ShortDefinitions(ctx, batch)), nil
}

// Race starts a training race over the active batch, recording the finish
// time under the batch fingerprint.
func (c *Center) Race(ctx context.Context, rng *rand.Rand, onChange func(games.RaceState)) (*games.RaceRunner, error) {
	batch, err := c.Batch(ctx)
	if err != nil {
		return nil, err
	}
	race, err := games.NewRace(games.RaceConfig{
		Rewards: games.TrainingRewards,
		Rec:     c.tracker,
		Rng:     rng,
		Board:   progress.SessionBoard,
		Key:     RaceKey(batch),
	}, batch)
	if err != nil {
		return nil, err
	}
	return games.NewRaceRunner(race, c.clk, c.logger, onChange), nil
}
