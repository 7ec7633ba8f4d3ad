// Package main provides the idiomchain service and its offline tools.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/service/internal/config"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
)

var cfg *config.Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "idiomchain",
		Short:        "Idiom-chain match server, benchmark and training tools",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			cfg = config.Load()
			cfg.SetupLogging()
		},
	}
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBenchCmd())
	rootCmd.AddCommand(newDatasetCmd())
	rootCmd.AddCommand(newScoreCmd())
	return rootCmd
}

func loadLexicon() (*engine.Lexicon, error) {
	records, err := engine.LoadCorpusFile(cfg.Storage.CorpusPath)
	if err != nil {
		return nil, err
	}
	return engine.NewLexicon(records)
}

// playerFlags holds the endpoint flags shared by bench and dataset. Per-model
// values override the shared --base-url/--api-key.
type playerFlags struct {
	baseURL, apiKey   string
	baseURLA, apiKeyA string
	baseURLB, apiKeyB string
	modelA, modelB    string
}

func (p *playerFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&p.baseURL, "base-url", "", "API base URL for both models")
	f.StringVar(&p.apiKey, "api-key", "", "API key for both models")
	f.StringVar(&p.baseURLA, "base-url-a", "", "API base URL for model A")
	f.StringVar(&p.apiKeyA, "api-key-a", "", "API key for model A")
	f.StringVar(&p.baseURLB, "base-url-b", "", "API base URL for model B")
	f.StringVar(&p.apiKeyB, "api-key-b", "", "API key for model B")
	f.StringVar(&p.modelA, "model-a", "", "model A name")
	f.StringVar(&p.modelB, "model-b", "", "model B name")
	_ = cmd.MarkFlagRequired("model-a")
	_ = cmd.MarkFlagRequired("model-b")
}

func (p *playerFlags) configs() (models.ModelConfig, models.ModelConfig) {
	a := models.ModelConfig{BaseURL: firstNonEmpty(p.baseURLA, p.baseURL), APIKey: firstNonEmpty(p.apiKeyA, p.apiKey), Model: p.modelA}
	b := models.ModelConfig{BaseURL: firstNonEmpty(p.baseURLB, p.baseURL), APIKey: firstNonEmpty(p.apiKeyB, p.apiKey), Model: p.modelB}
	return a, b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
