// internal/handlers/server.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	engine "github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/service/internal/battle"
	"github.com/jason-s-yu/idiomchain/service/internal/database"
	"github.com/jason-s-yu/idiomchain/service/internal/llm"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"
)

// Server exposes matches, benchmarks and stored records over HTTP.
type Server struct {
	Lexicon *engine.Lexicon
	Source  battle.MoveSource
	Store   database.Store // optional
	Rules   engine.Rules

	// BenchmarkConcurrency is used when a request leaves max_concurrency unset.
	BenchmarkConcurrency int
	// JWTSecret enables bearer-token checks on every route when set.
	JWTSecret string
}

// Routes builds the request multiplexer.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /default-system-prompt", s.handleDefaultPrompt)
	mux.HandleFunc("GET /battles", s.handleListBattles)
	mux.HandleFunc("GET /battles/{id}", s.handleGetBattle)
	mux.HandleFunc("GET /ws/battle", s.handleBattleWS)
	mux.HandleFunc("GET /ws/benchmark", s.handleBenchmarkWS)
	return RequireToken(s.JWTSecret, mux)
}

func (s *Server) handleDefaultPrompt(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"system_prompt": llm.DefaultSystemPrompt})
}

func (s *Server) handleListBattles(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusOK, []models.BattleRecord{})
		return
	}
	list, err := s.Store.ListBattles(r.Context())
	if err != nil {
		log.Errorf("list battles: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list battles")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid battle id")
		return
	}
	if s.Store == nil {
		writeError(w, http.StatusNotFound, database.ErrNotFound.Error())
		return
	}
	rec, err := s.Store.GetBattle(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		log.Errorf("get battle %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load battle")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// rulesFor applies a request's validation mode over the server rules.
func (s *Server) rulesFor(mode string) engine.Rules {
	rules := s.Rules
	if mode != "" {
		rules.Mode = engine.ParseMode(mode)
	}
	return rules
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
