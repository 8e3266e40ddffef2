package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/YvodeRooij/casecoach/pkg/config"
	"github.com/YvodeRooij/casecoach/pkg/interview"
	"github.com/YvodeRooij/casecoach/pkg/model"
	"github.com/YvodeRooij/casecoach/pkg/store"
)

// newLogger creates the CLI's structured logger.
func newLogger() *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logrus.NewEntry(log)
}

// openStore picks the persistence backend from configuration: the JSON
// filesystem store when a data directory is configured, otherwise SQLite.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DataDir != "" {
		return store.NewFSStore(cfg.DataDir)
	}
	return store.NewSQLite(cfg.DBPath)
}

// newChatModel builds the configured model provider.
func newChatModel(ctx context.Context, cfg *config.Config) (model.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return model.NewOpenAIModel(cfg.OpenAIKey, cfg.OpenAIModel), nil
	case config.ProviderGemini:
		return model.NewGeminiModel(ctx, cfg.GeminiKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
}

// loadPrompts loads the prompt packs, preferring a configured override
// directory over the builtin ones.
func loadPrompts(cfg *config.Config) (interview.PromptResolver, error) {
	if cfg.PromptDir != "" {
		return interview.LoadPromptDir(cfg.PromptDir)
	}
	return interview.LoadBuiltinPrompts()
}
