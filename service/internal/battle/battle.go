// internal/battle/battle.go
package battle

import (
	"context"
	"strings"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"
)

// MoveRequest is everything a move source is given for one turn. History is
// passed in full on every call; sources need no session affinity.
type MoveRequest struct {
	Player       models.ModelConfig
	Side         engine.Side
	StartPhrase  string
	History      []string // accepted phrases in play order, start phrase excluded
	Used         []string
	Round        int
	Mode         engine.Mode
	SystemPrompt string
}

// PreviousPhrase returns the phrase the requesting side must continue.
func (r MoveRequest) PreviousPhrase() string {
	if n := len(r.History); n > 0 {
		return r.History[n-1]
	}
	return r.StartPhrase
}

// MoveSource produces a move claim for one turn. Any returned error is a
// failed turn for the requesting side.
type MoveSource interface {
	NextMove(ctx context.Context, req MoveRequest) (engine.MoveClaim, error)
}

// SourceFunc adapts a function to MoveSource.
type SourceFunc func(ctx context.Context, req MoveRequest) (engine.MoveClaim, error)

// NextMove calls f.
func (f SourceFunc) NextMove(ctx context.Context, req MoveRequest) (engine.MoveClaim, error) {
	return f(ctx, req)
}

// Recorder persists a finished match and returns its record ID.
type Recorder interface {
	InsertBattle(ctx context.Context, rec models.BattleRecord) (int64, error)
}

// Battle runs a single match from a start phrase to a verdict.
// A Battle is single-use and owns its game state exclusively.
type Battle struct {
	ID           uuid.UUID
	Lexicon      *engine.Lexicon
	Rules        engine.Rules
	Players      [2]models.ModelConfig // [0] plays A, [1] plays B
	StartPhrase  string
	SystemPrompt string

	Source   MoveSource
	Recorder Recorder // optional

	// Communication callbacks.
	BroadcastFn func(ev models.Event)      // round events in turn order, then the result
	OnTurnStart func(req MoveRequest)      // before each move-source call
	OnRound     func(ev models.RoundEvent) // after each turn is recorded

	rounds []models.RoundEvent
}

// NewBattle creates a match with default rules.
func NewBattle(lx *engine.Lexicon, start string, a, b models.ModelConfig, src MoveSource) *Battle {
	id, _ := uuid.NewRandom()
	return &Battle{
		ID:          id,
		Lexicon:     lx,
		Rules:       engine.DefaultRules(),
		Players:     [2]models.ModelConfig{a, b},
		StartPhrase: start,
		Source:      src,
	}
}

// Run plays the match to completion. Turns are strictly sequential; the only
// blocking calls are the move source, the event callbacks and the recorder.
// Move-source errors become failed turns and never escape Run.
func (b *Battle) Run(ctx context.Context) models.BattleResult {
	g := engine.NewGame(b.StartPhrase, b.Rules)
	log.WithFields(log.Fields{"battle": b.ID, "start": g.StartPhrase, "mode": g.Rules.Mode}).Info("battle started")

	var verdict engine.Verdict
	for {
		if g.RoundLimitReached() {
			verdict = g.Draw()
			break
		}
		if v, over := b.playTurn(ctx, g); over {
			verdict = v
			break
		}
	}
	if verdict.Reversed {
		log.Printf("Battle %s: ruling reversed at round %d: %s", b.ID, g.Round, verdict.Reason)
	}

	result := models.BattleResult{
		Winner:   verdict.Winner,
		Reason:   verdict.Reason,
		Rounds:   g.RoundsPlayed(),
		History:  g.FullHistory(),
		BattleID: b.persist(ctx, g, verdict),
	}
	b.fireEvent(models.Event{Event: models.EventResult, Data: result})
	log.WithFields(log.Fields{"battle": b.ID, "winner": result.Winner, "rounds": result.Rounds}).Infof("battle ended: %s", result.Reason)
	return result
}

// playTurn runs one turn for g.Current. It returns the verdict and true when
// the turn ended the match.
func (b *Battle) playTurn(ctx context.Context, g *engine.GameState) (engine.Verdict, bool) {
	side := g.Current
	player := b.player(side)
	req := b.request(g)
	if b.OnTurnStart != nil {
		b.OnTurnStart(req)
	}

	claim, err := b.Source.NextMove(ctx, req)
	if err != nil {
		log.Warnf("Battle %s: %s move source failed at round %d: %v", b.ID, side.Label(), g.Round, err)
		b.recordRound(ctx, models.RoundEvent{
			Round:   g.Round,
			Player:  side,
			Model:   player.Model,
			Success: false,
			Valid:   false,
			Message: "move source failed",
		})
		return g.Fail(b.Lexicon, engine.SourceFailureReason(side)), true
	}

	// A claim without a phrase is treated as a resignation.
	if !claim.Success || strings.TrimSpace(claim.Phrase) == "" {
		msg := ""
		if claim.Success {
			msg = "no phrase submitted"
		}
		b.recordRound(ctx, models.RoundEvent{
			Round:   g.Round,
			Player:  side,
			Model:   player.Model,
			Word:    claim.Phrase,
			Success: false,
			Valid:   true,
			Message: msg,
		})
		return g.Fail(b.Lexicon, engine.ResignReason(side)), true
	}

	verr := g.Validate(b.Lexicon, claim.Phrase)
	ev := models.RoundEvent{
		Round:    g.Round,
		Player:   side,
		Model:    player.Model,
		Word:     claim.Phrase,
		NextWord: claim.Witness,
		Success:  true,
		Valid:    verr == nil,
	}
	if verr != nil {
		ev.Message = verr.Error()
	}
	b.recordRound(ctx, ev)
	if verr != nil {
		return g.Fail(b.Lexicon, engine.RejectReason(side, verr)), true
	}

	g.Accept(claim.Phrase, claim.Witness)
	return engine.Verdict{}, false
}

func (b *Battle) player(s engine.Side) models.ModelConfig {
	if s == engine.SideA {
		return b.Players[0]
	}
	return b.Players[1]
}

func (b *Battle) request(g *engine.GameState) MoveRequest {
	history := make([]string, len(g.History))
	copy(history, g.History)
	return MoveRequest{
		Player:       b.player(g.Current),
		Side:         g.Current,
		StartPhrase:  g.StartPhrase,
		History:      history,
		Used:         g.Used.Slice(),
		Round:        g.Round,
		Mode:         g.Rules.Mode,
		SystemPrompt: b.SystemPrompt,
	}
}

// Rounds returns the turn records of a finished battle.
func (b *Battle) Rounds() []models.RoundEvent {
	out := make([]models.RoundEvent, len(b.rounds))
	copy(out, b.rounds)
	return out
}

// persist stores the finished match and returns its record ID, or 0 when no
// recorder is configured or the write fails.
func (b *Battle) persist(ctx context.Context, g *engine.GameState, v engine.Verdict) int64 {
	if b.Recorder == nil {
		return 0
	}
	id, err := b.Recorder.InsertBattle(ctx, models.BattleRecord{
		ModelAName: b.Players[0].Model,
		ModelBName: b.Players[1].Model,
		StartWord:  g.StartPhrase,
		Winner:     v.Winner,
		Reason:     v.Reason,
		History:    b.Rounds(),
	})
	if err != nil {
		log.Errorf("Battle %s: failed to persist result: %v", b.ID, err)
		return 0
	}
	return id
}
