// internal/dataset/dataset.go
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	engine "github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/engine/agent"
	"github.com/jason-s-yu/idiomchain/service/internal/battle"
	"github.com/jason-s-yu/idiomchain/service/internal/llm"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// RewardModel names the rule-based reward and the phrase to continue.
type RewardModel struct {
	Style       string `json:"style"`
	GroundTruth string `json:"ground_truth"`
}

// Sample is one training prompt: the conversation a player saw right before
// it was asked to move, plus the state its reply is scored against.
type Sample struct {
	DataSource  string          `json:"data_source"`
	Prompt      []llm.Message   `json:"prompt"`
	RewardModel RewardModel     `json:"reward_model"`
	ExtraInfo   agent.ExtraInfo `json:"extra_info"`
}

// Generator collects samples from self-play matches.
type Generator struct {
	Lexicon      *engine.Lexicon
	Source       battle.MoveSource
	Rules        engine.Rules
	SystemPrompt string
	Rand         *rand.Rand
}

// PlayGame runs one match from start and returns one sample per turn, taken
// before the move source is called. The match ends at the first failed turn.
func (g *Generator) PlayGame(ctx context.Context, a, b models.ModelConfig, start string) []Sample {
	var samples []Sample
	m := battle.NewBattle(g.Lexicon, start, a, b, g.Source)
	m.Rules = g.Rules
	m.SystemPrompt = g.SystemPrompt
	m.OnTurnStart = func(req battle.MoveRequest) {
		samples = append(samples, newSample(req))
	}
	m.Run(ctx)
	return samples
}

func newSample(req battle.MoveRequest) Sample {
	prev := req.PreviousPhrase()
	return Sample{
		DataSource:  agent.DataSource,
		Prompt:      llm.BuildMessages(req.History, req.Side, req.StartPhrase, req.SystemPrompt),
		RewardModel: RewardModel{Style: "rule", GroundTruth: prev},
		ExtraInfo: agent.ExtraInfo{
			PreviousPhrase: prev,
			UsedPhrases:    req.Used,
			RoundNum:       req.Round,
			ValidationMode: req.Mode.String(),
		},
	}
}

// Generate plays numGames matches over distinct sampled start phrases, at
// most maxConcurrency at a time. Samples are grouped by game in start-phrase
// sampling order.
func (g *Generator) Generate(ctx context.Context, a, b models.ModelConfig, numGames, maxConcurrency int) ([]Sample, error) {
	starts := g.Lexicon.Sample(numGames, g.Rand)
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	sem := semaphore.NewWeighted(int64(maxConcurrency))
	eg, egctx := errgroup.WithContext(ctx)

	perGame := make([][]Sample, len(starts))
	var (
		mu        sync.Mutex
		completed int
		collected int
	)
	for i, start := range starts {
		eg.Go(func() error {
			if err := sem.Acquire(egctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			if err := egctx.Err(); err != nil {
				return err
			}
			perGame[i] = g.PlayGame(egctx, a, b, start)

			mu.Lock()
			completed++
			collected += len(perGame[i])
			log.Infof("Dataset: %d/%d games, %d samples", completed, len(starts), collected)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []Sample
	for _, s := range perGame {
		out = append(out, s...)
	}
	return out, nil
}

// WriteJSONL writes one JSON object per line.
func WriteJSONL(w io.Writer, samples []Sample) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, s := range samples {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("write sample %d: %w", i, err)
		}
	}
	return nil
}
