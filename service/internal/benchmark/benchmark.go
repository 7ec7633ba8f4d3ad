// internal/benchmark/benchmark.go
package benchmark

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/service/internal/battle"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Runner plays paired matches over sampled start phrases. Every phrase is
// played twice, once with each model moving first, and results are reported
// in the request's own A/B frame.
type Runner struct {
	Lexicon  *engine.Lexicon
	Source   battle.MoveSource
	Recorder battle.Recorder // optional
	Rules    engine.Rules

	// Rand drives start-phrase sampling; a nil Rand uses the global source.
	Rand *rand.Rand

	// BroadcastFn receives one progress event per finished match, in
	// completion order, then the summary.
	BroadcastFn func(ev models.Event)
}

// SamplePhrases picks min(n, lexicon size) distinct phrases uniformly.
func (r *Runner) SamplePhrases(n int) []string {
	return r.Lexicon.Sample(n, r.Rand)
}

// Run plays the benchmark to completion. It only fails when ctx is
// cancelled; individual match failures are outcomes, not errors.
func (r *Runner) Run(ctx context.Context, req models.BenchmarkRequest) (models.BenchmarkSummary, error) {
	id := uuid.New()
	phrases := r.SamplePhrases(req.NumWords)
	total := 2 * len(phrases)
	limit := req.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	log.WithFields(log.Fields{
		"benchmark":   id,
		"model_a":     req.ModelA.Model,
		"model_b":     req.ModelB.Model,
		"matches":     total,
		"concurrency": limit,
	}).Info("benchmark started")

	sem := semaphore.NewWeighted(int64(limit))
	g, gctx := errgroup.WithContext(ctx)

	var (
		mu        sync.Mutex
		completed int
		results   = make([]models.BenchmarkBattleResult, 0, total)
	)
	for _, phrase := range phrases {
		for _, first := range []engine.Side{engine.SideA, engine.SideB} {
			g.Go(func() error {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)
				if err := gctx.Err(); err != nil {
					return err
				}

				res := r.playOne(gctx, req, phrase, first)

				mu.Lock()
				defer mu.Unlock()
				completed++
				results = append(results, res)
				r.fireEvent(models.Event{Event: models.EventProgress, Data: models.ProgressEvent{
					Completed:     completed,
					Total:         total,
					CurrentResult: res,
				}})
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		log.Warnf("Benchmark %s: aborted after %d/%d matches: %v", id, completed, total, err)
		return models.BenchmarkSummary{}, err
	}

	summary := Summarize(req.ModelA.Model, req.ModelB.Model, results)
	r.fireEvent(models.Event{Event: models.EventSummary, Data: summary})
	log.WithFields(log.Fields{
		"benchmark": id,
		"a_wins":    summary.ModelAWins,
		"b_wins":    summary.ModelBWins,
		"draws":     summary.Draws,
	}).Info("benchmark finished")
	return summary, nil
}

// playOne runs a single match. When B moves first the models trade seats
// and the winner is mapped back.
func (r *Runner) playOne(ctx context.Context, req models.BenchmarkRequest, phrase string, first engine.Side) models.BenchmarkBattleResult {
	a, b := req.ModelA, req.ModelB
	if first == engine.SideB {
		a, b = b, a
	}
	m := battle.NewBattle(r.Lexicon, phrase, a, b, r.Source)
	m.Rules = r.Rules
	if req.ValidationMode != "" {
		m.Rules.Mode = engine.ParseMode(req.ValidationMode)
	}
	m.SystemPrompt = req.SystemPrompt
	m.Recorder = r.Recorder

	res := m.Run(ctx)
	winner := res.Winner
	if first == engine.SideB {
		winner = winner.Swap()
	}
	return models.BenchmarkBattleResult{
		StartWord:   phrase,
		FirstPlayer: first,
		Winner:      winner,
		Reason:      res.Reason,
		Rounds:      res.Rounds,
		BattleID:    res.BattleID,
	}
}

func (r *Runner) fireEvent(ev models.Event) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

// Summarize aggregates benchmark results. Win rates are 0 when there are no
// results. Battles are returned sorted by start phrase, then first side.
func Summarize(nameA, nameB string, results []models.BenchmarkBattleResult) models.BenchmarkSummary {
	s := models.BenchmarkSummary{
		TotalBattles: len(results),
		ModelAName:   nameA,
		ModelBName:   nameB,
		Battles:      make([]models.BenchmarkBattleResult, len(results)),
	}
	copy(s.Battles, results)
	sort.SliceStable(s.Battles, func(i, j int) bool {
		if s.Battles[i].StartWord != s.Battles[j].StartWord {
			return s.Battles[i].StartWord < s.Battles[j].StartWord
		}
		return s.Battles[i].FirstPlayer < s.Battles[j].FirstPlayer
	})

	for _, r := range results {
		switch r.Winner.Utility(engine.SideA) {
		case 1:
			s.ModelAWins++
		case -1:
			s.ModelBWins++
		default:
			s.Draws++
		}

		wins, losses, draws := &s.ModelAFirstWins, &s.ModelAFirstLosses, &s.ModelAFirstDraws
		if r.FirstPlayer == engine.SideB {
			wins, losses, draws = &s.ModelBFirstWins, &s.ModelBFirstLosses, &s.ModelBFirstDraws
		}
		switch r.Winner.Utility(r.FirstPlayer) {
		case 1:
			*wins++
		case -1:
			*losses++
		default:
			*draws++
		}
	}
	if s.TotalBattles > 0 {
		s.ModelAWinRate = float64(s.ModelAWins) / float64(s.TotalBattles)
		s.ModelBWinRate = float64(s.ModelBWins) / float64(s.TotalBattles)
	}
	return s
}
