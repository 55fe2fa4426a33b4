// Package cli implements the secsentry command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"secsentry/configs"
	"secsentry/internal/assessment"
	"secsentry/internal/config"
	"secsentry/internal/embedding"
)

var rootCmd = &cobra.Command{
	Use:   "secsentry",
	Short: "Adaptive security assessment interview engine",
	Long: `SecSentry conducts adaptive security assessment interviews: it classifies
answers into security domains by embedding similarity, scores them against
best practices and risk indicators, rotates between domains, and compiles
the conversation into a risk report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates configuration, including a .env file when
// one is present.
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildCatalog loads the configured knowledge base, falling back to the
// embedded default.
func buildCatalog(cfg *config.Config) (*assessment.Catalog, error) {
	if cfg.CatalogPath != "" {
		return assessment.LoadCatalog(cfg.CatalogPath)
	}
	return assessment.ParseCatalog(configs.DefaultKnowledgeBase)
}

// buildProvider creates the embedding provider with caching on top.
func buildProvider(cfg *config.Config) (embedding.Provider, error) {
	httpProvider, err := embedding.NewHTTPProvider(embedding.Config{
		APIKey:    cfg.Embedding.APIKey,
		Endpoint:  cfg.Embedding.Endpoint,
		Model:     cfg.Embedding.Model,
		MaxTokens: cfg.Embedding.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return embedding.NewCachedProvider(httpProvider), nil
}
