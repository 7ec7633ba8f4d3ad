package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jason-s-yu/idiomchain/service/internal/benchmark"
	"github.com/jason-s-yu/idiomchain/service/internal/database"
	"github.com/jason-s-yu/idiomchain/service/internal/llm"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
)

func newBenchCmd() *cobra.Command {
	var (
		players        playerFlags
		numWords       int
		maxConcurrency int
		mode           string
		systemPrompt   string
		record         bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Play paired matches between two models and print the summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			lx, err := loadLexicon()
			if err != nil {
				return fmt.Errorf("load lexicon: %w", err)
			}
			runner := &benchmark.Runner{
				Lexicon: lx,
				Source:  llm.NewClient(cfg.Game.LLMTimeout),
				Rules:   cfg.Rules(),
				BroadcastFn: func(ev models.Event) {
					if p, ok := ev.Data.(models.ProgressEvent); ok {
						r := p.CurrentResult
						log.Infof("[%d/%d] %s first=%s winner=%s (%s)", p.Completed, p.Total, r.StartWord, r.FirstPlayer, r.Winner, r.Reason)
					}
				},
			}
			if record {
				store, err := database.Open(ctx, cfg.Storage.DatabaseURL, cfg.Storage.DBPath)
				if err != nil {
					return fmt.Errorf("open battle store: %w", err)
				}
				defer store.Close()
				runner.Recorder = store
			}
			if maxConcurrency <= 0 {
				maxConcurrency = cfg.Benchmark.MaxConcurrency
			}

			a, b := players.configs()
			summary, err := runner.Run(ctx, models.BenchmarkRequest{
				ModelA:         a,
				ModelB:         b,
				NumWords:       numWords,
				MaxConcurrency: maxConcurrency,
				ValidationMode: mode,
				SystemPrompt:   systemPrompt,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
	players.register(cmd)
	cmd.Flags().IntVar(&numWords, "num-words", 10, "number of start phrases; each is played twice")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "matches in flight (default BENCHMARK_MAX_CONCURRENCY)")
	cmd.Flags().StringVar(&mode, "validation-mode", "", "same_char, homophone or same_char_sound")
	cmd.Flags().StringVar(&systemPrompt, "system-prompt", "", "custom system prompt")
	cmd.Flags().BoolVar(&record, "record", false, "persist every match to the battle store")
	return cmd
}
