// internal/handlers/ws.go
package handlers

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/jason-s-yu/idiomchain/service/internal/battle"
	"github.com/jason-s-yu/idiomchain/service/internal/benchmark"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"
)

// errorData is the payload of an error event.
type errorData struct {
	Message string `json:"message"`
}

// handleBattleWS runs one match per connection. The client sends a
// BattleRequest as its first message and then receives round events and the
// result.
func (s *Server) handleBattleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warnf("battle ws accept: %v", err)
		return
	}
	defer conn.CloseNow()
	ctx := r.Context()

	var req models.BattleRequest
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		sendError(ctx, conn, "invalid battle request")
		conn.Close(websocket.StatusUnsupportedData, "invalid battle request")
		return
	}
	if !s.Lexicon.Exists(req.StartWord) {
		sendError(ctx, conn, "start phrase is not in the lexicon")
		conn.Close(websocket.StatusPolicyViolation, "unknown start phrase")
		return
	}

	b := battle.NewBattle(s.Lexicon, req.StartWord, req.ModelA, req.ModelB, s.Source)
	b.Rules = s.rulesFor(req.ValidationMode)
	b.SystemPrompt = req.SystemPrompt
	b.Recorder = s.recorder()
	b.BroadcastFn = func(ev models.Event) {
		if err := wsjson.Write(ctx, conn, ev); err != nil {
			log.Warnf("Battle %s: write %s event: %v", b.ID, ev.Event, err)
		}
	}
	b.Run(ctx)
	conn.Close(websocket.StatusNormalClosure, "battle finished")
}

// handleBenchmarkWS runs one benchmark per connection and streams progress
// events followed by the summary.
func (s *Server) handleBenchmarkWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warnf("benchmark ws accept: %v", err)
		return
	}
	defer conn.CloseNow()
	ctx := r.Context()

	var req models.BenchmarkRequest
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		sendError(ctx, conn, "invalid benchmark request")
		conn.Close(websocket.StatusUnsupportedData, "invalid benchmark request")
		return
	}
	if req.MaxConcurrency <= 0 {
		req.MaxConcurrency = s.BenchmarkConcurrency
	}

	runner := &benchmark.Runner{
		Lexicon:  s.Lexicon,
		Source:   s.Source,
		Recorder: s.recorder(),
		Rules:    s.Rules,
		BroadcastFn: func(ev models.Event) {
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				log.Warnf("benchmark: write %s event: %v", ev.Event, err)
			}
		},
	}
	if _, err := runner.Run(ctx, req); err != nil {
		sendError(ctx, conn, err.Error())
		conn.Close(websocket.StatusInternalError, "benchmark aborted")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "benchmark finished")
}

// recorder returns the store as a battle recorder, or nil when none is set.
func (s *Server) recorder() battle.Recorder {
	if s.Store == nil {
		return nil
	}
	return s.Store
}

func sendError(ctx context.Context, conn *websocket.Conn, msg string) {
	ev := models.Event{Event: models.EventError, Data: errorData{Message: msg}}
	if err := wsjson.Write(ctx, conn, ev); err != nil {
		log.Debugf("write error event: %v", err)
	}
}
