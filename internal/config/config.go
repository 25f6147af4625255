// Package config loads runtime settings from the environment and an
// optional .env file, and builds the process logger.
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/session"
)

// AppName names the data directory and database file.
const AppName = "examprep"

// Config stores runtime configuration.
type Config struct {
	// DBPath is empty when the default XDG location should be used.
	DBPath              string
	LogLevel            slog.Level
	QuestionsPerSession int
	SpellingCount       int
	SyncLessons         bool
	LLM                 llm.Config
}

// Load reads .env when present and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv llm.Getenv) Config {
	return Config{
		DBPath:              getenv("EXAMPREP_DB"),
		LogLevel:            parseLevel(getenv("EXAMPREP_LOG_LEVEL")),
		QuestionsPerSession: intEnv(getenv, "EXAMPREP_QUESTIONS_PER_SESSION", session.DefaultQuestionsPerSession),
		SpellingCount:       intEnv(getenv, "EXAMPREP_SPELLING_COUNT", session.DefaultSpellingCount),
		SyncLessons:         boolEnv(getenv, "EXAMPREP_SYNC_LESSONS", true),
		LLM:                 llm.ConfigFromEnv(getenv),
	}
}

func intEnv(getenv llm.Getenv, key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(getenv(key)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func boolEnv(getenv llm.Getenv, key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(getenv(key)))
	if err != nil {
		return fallback
	}
	return b
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn
	}
	return l
}

// NewLogger returns a text logger on w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}
