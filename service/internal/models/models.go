// internal/models/models.go
package models

import (
	"time"

	engine "github.com/jason-s-yu/idiomchain/engine"
)

// ModelConfig identifies one player: an OpenAI-compatible endpoint and model name.
type ModelConfig struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

// BattleRequest starts a single match.
type BattleRequest struct {
	ModelA         ModelConfig `json:"model_a"`
	ModelB         ModelConfig `json:"model_b"`
	StartWord      string      `json:"start_word"`
	ValidationMode string      `json:"validation_mode,omitempty"`
	SystemPrompt   string      `json:"system_prompt,omitempty"`
}

// RoundEvent records one turn. Message carries the validation detail.
type RoundEvent struct {
	Round    int         `json:"round"`
	Player   engine.Side `json:"player"`
	Model    string      `json:"model"`
	Word     string      `json:"word"`
	NextWord string      `json:"next_word,omitempty"`
	Success  bool        `json:"success"`
	Valid    bool        `json:"valid"`
	Message  string      `json:"message"`
}

// ResultEvent is the terminal record of a match.
type ResultEvent struct {
	Winner   engine.Winner `json:"winner"`
	Reason   string        `json:"reason"`
	Rounds   int           `json:"rounds"`
	History  []string      `json:"history"`
	BattleID int64         `json:"battle_id"`
}

// BattleResult is the outcome a match runner returns to its caller.
type BattleResult = ResultEvent

// BattleRecord is a persisted match.
type BattleRecord struct {
	ID         int64         `json:"id"`
	ModelAName string        `json:"model_a_name"`
	ModelBName string        `json:"model_b_name"`
	StartWord  string        `json:"start_word"`
	Winner     engine.Winner `json:"winner"`
	Reason     string        `json:"reason"`
	CreatedAt  time.Time     `json:"created_at"`
	History    []RoundEvent  `json:"history,omitempty"`
}

// BenchmarkRequest runs paired matches over randomly sampled start phrases.
type BenchmarkRequest struct {
	ModelA         ModelConfig `json:"model_a"`
	ModelB         ModelConfig `json:"model_b"`
	NumWords       int         `json:"num_words"`
	MaxConcurrency int         `json:"max_concurrency"`
	ValidationMode string      `json:"validation_mode,omitempty"`
	SystemPrompt   string      `json:"system_prompt,omitempty"`
}

// BenchmarkBattleResult is one match of a benchmark, with Winner already
// mapped to the benchmark's own A/B frame.
type BenchmarkBattleResult struct {
	StartWord   string        `json:"start_word"`
	FirstPlayer engine.Side   `json:"first_player"`
	Winner      engine.Winner `json:"winner"`
	Reason      string        `json:"reason"`
	Rounds      int           `json:"rounds"`
	BattleID    int64         `json:"battle_id"`
}

// ProgressEvent is emitted once per finished benchmark match, in completion order.
type ProgressEvent struct {
	Completed     int                   `json:"completed"`
	Total         int                   `json:"total"`
	CurrentResult BenchmarkBattleResult `json:"current_result"`
}

// BenchmarkSummary aggregates a finished benchmark.
type BenchmarkSummary struct {
	TotalBattles      int                     `json:"total_battles"`
	ModelAName        string                  `json:"model_a_name"`
	ModelBName        string                  `json:"model_b_name"`
	ModelAWins        int                     `json:"model_a_wins"`
	ModelBWins        int                     `json:"model_b_wins"`
	Draws             int                     `json:"draws"`
	ModelAWinRate     float64                 `json:"model_a_win_rate"`
	ModelBWinRate     float64                 `json:"model_b_win_rate"`
	ModelAFirstWins   int                     `json:"model_a_first_wins"`
	ModelAFirstLosses int                     `json:"model_a_first_losses"`
	ModelAFirstDraws  int                     `json:"model_a_first_draws"`
	ModelBFirstWins   int                     `json:"model_b_first_wins"`
	ModelBFirstLosses int                     `json:"model_b_first_losses"`
	ModelBFirstDraws  int                     `json:"model_b_first_draws"`
	Battles           []BenchmarkBattleResult `json:"battles"`
}

// EventType names a streamed event.
type EventType string

const (
	EventRound    EventType = "round"
	EventResult   EventType = "result"
	EventProgress EventType = "progress"
	EventSummary  EventType = "summary"
	EventError    EventType = "error"
)

// Event is the envelope streamed to clients.
type Event struct {
	Event EventType `json:"event"`
	Data  any       `json:"data"`
}
