package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/config"
	"github.com/abhisek/examprep/internal/profile"
)

func openTakeApp(t *testing.T) (*app.App, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	cfg := config.FromEnv(func(string) string { return "" })
	a, err := app.Open(context.Background(), cfg, filepath.Join(t.TempDir(), "examprep.db"), nil, app.WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Sessions.Begin(context.Background(), profile.Math)
	require.NoError(t, err)
	require.Zero(t, clk.Pending())
	return a, clk
}

func TestTakeSession_InterruptFlushesElapsed(t *testing.T) {
	a, clk := openTakeApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string)
	done := make(chan error, 1)
	go func() { done <- takeSession(ctx, a, profile.Math, lines) }()

	require.Eventually(t, func() bool { return clk.Pending() > 0 }, time.Second, time.Millisecond)
	clk.Advance(3 * time.Second)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("takeSession did not return after cancellation")
	}
	assert.Equal(t, 3, a.Sessions.Get(profile.Math).ElapsedTime, "elapsed time is saved below the checkpoint interval")
	assert.Zero(t, clk.Pending(), "timer is stopped")
}

func TestTakeSession_QuitKeepsAnswers(t *testing.T) {
	a, clk := openTakeApp(t)
	first := a.Sessions.Get(profile.Math).Questions[0]

	lines := make(chan string, 2)
	lines <- "A"
	lines <- "q"
	require.NoError(t, takeSession(context.Background(), a, profile.Math, lines))

	s := a.Sessions.Get(profile.Math)
	assert.Equal(t, 0, s.UserAnswers[first.ID])
	assert.Len(t, s.UserAnswers, 1)
	assert.False(t, s.IsSubmitted)
	assert.Zero(t, clk.Pending())
}
