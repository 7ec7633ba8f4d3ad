// Package agent scores single moves as reinforcement-learning rewards
// and recovers the game state a training sample was taken from.
package agent

import (
	"encoding/json"
	"strconv"
	"strings"

	engine "github.com/jason-s-yu/idiomchain/engine"
)

// ExtraInfo is the game state attached to a training sample.
type ExtraInfo struct {
	PreviousPhrase string   `json:"previous_word"`
	UsedPhrases    []string `json:"used_words"`
	RoundNum       int      `json:"round_num"`
	ValidationMode string   `json:"validation_mode"`
}

// Map converts the info to the loosely-typed form trainers pass back in.
func (e ExtraInfo) Map() map[string]any {
	used := make([]any, len(e.UsedPhrases))
	for i, p := range e.UsedPhrases {
		used[i] = p
	}
	return map[string]any{
		"previous_word":   e.PreviousPhrase,
		"used_words":      used,
		"round_num":       e.RoundNum,
		"validation_mode": e.ValidationMode,
	}
}

// GameContext is the state a single move is scored against.
type GameContext struct {
	PreviousPhrase string
	Used           engine.PhraseSet
	RoundNum       int
	Mode           engine.Mode
}

// ResolveGameContext recovers the scoring context of a sample.
//
// Structured extra info wins when it names a previous phrase; otherwise
// groundTruth is tried as a JSON-encoded context; otherwise groundTruth is
// the previous phrase itself and the only used phrase.
func ResolveGameContext(groundTruth string, extra map[string]any) GameContext {
	if _, ok := extra["previous_word"]; ok {
		return contextFromMap(extra)
	}
	if obj, ok := decodeObject(groundTruth); ok {
		if _, ok := obj["previous_word"]; ok {
			return contextFromMap(obj)
		}
	}
	prev := strings.TrimSpace(groundTruth)
	ctx := GameContext{
		PreviousPhrase: prev,
		Used:           engine.NewPhraseSet(),
		RoundNum:       intField(extra["round_num"], 1),
		Mode:           engine.ParseMode(stringField(extra["validation_mode"])),
	}
	if prev != "" {
		ctx.Used.Add(prev)
	}
	return ctx
}

func contextFromMap(m map[string]any) GameContext {
	return GameContext{
		PreviousPhrase: stringField(m["previous_word"]),
		Used:           engine.NewPhraseSet(stringsField(m["used_words"])...),
		RoundNum:       intField(m["round_num"], 1),
		Mode:           engine.ParseMode(stringField(m["validation_mode"])),
	}
}

func stringsField(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, stringField(e))
		}
		return out
	}
	return nil
}

func intField(v any, def int) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
	}
	return def
}
