package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/service/internal/dataset"
	"github.com/jason-s-yu/idiomchain/service/internal/llm"
)

func newDatasetCmd() *cobra.Command {
	var (
		players        playerFlags
		numGames       int
		maxConcurrency int
		mode           string
		systemPrompt   string
		output         string
	)
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Collect training prompts from self-play matches into a JSONL file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			lx, err := loadLexicon()
			if err != nil {
				return fmt.Errorf("load lexicon: %w", err)
			}
			rules := cfg.Rules()
			if mode != "" {
				rules.Mode = engine.ParseMode(mode)
			}
			gen := &dataset.Generator{
				Lexicon:      lx,
				Source:       llm.NewClient(cfg.Game.LLMTimeout),
				Rules:        rules,
				SystemPrompt: systemPrompt,
			}
			a, b := players.configs()
			samples, err := gen.Generate(ctx, a, b, numGames, maxConcurrency)
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return errors.New("no samples collected, nothing written")
			}

			if err := writeSamples(output, samples); err != nil {
				return err
			}
			log.Infof("Wrote %d samples to %s", len(samples), output)
			return nil
		},
	}
	players.register(cmd)
	cmd.Flags().IntVar(&numGames, "num-games", 100, "number of games")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 5, "games in flight")
	cmd.Flags().StringVar(&mode, "validation-mode", "", "same_char, homophone or same_char_sound")
	cmd.Flags().StringVar(&systemPrompt, "system-prompt", "", "custom system prompt")
	cmd.Flags().StringVarP(&output, "output", "o", "dataset.jsonl", "output path")
	return cmd
}

// writeSamples writes samples to path as JSONL and reports a failed close.
func writeSamples(path string, samples []dataset.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := dataset.WriteJSONL(f, samples); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
