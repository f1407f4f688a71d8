package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Guilherme-Lopesz/spendsense/internal/llm"
	"github.com/Guilherme-Lopesz/spendsense/internal/service"
	"github.com/Guilherme-Lopesz/spendsense/internal/storage"
)

// initStorage opens the database and runs pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/spendsense/spendsense.db"
	}
	dbPath = expandPath(dbPath)

	if dir := filepath.Dir(dbPath); dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initClassifier builds the AI classifier from configuration. The API key
// comes from config or the provider's conventional environment variable.
func initClassifier() (*llm.Classifier, error) {
	provider := viper.GetString("llm.provider")

	cfg := llm.Config{
		Provider:    provider,
		APIKey:      apiKeyFor(provider),
		Model:       viper.GetString("llm.model"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}

	return llm.NewClassifier(cfg, slog.Default())
}

func apiKeyFor(provider string) string {
	if key := viper.GetString("llm.api_key"); key != "" {
		return key
	}
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

// interCallDelay reads the pause between AI calls, defaulting when unset.
func interCallDelay() time.Duration {
	if viper.IsSet("llm.call_delay") {
		return viper.GetDuration("llm.call_delay")
	}
	return 0 // engine applies its default
}

// currentUser returns the user ID the command operates on.
func currentUser() int64 {
	return viper.GetInt64("user")
}

// expandPath expands $HOME, env vars and a leading tilde.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
