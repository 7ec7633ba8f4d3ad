// Package engine implements the idiom-chain rules.
//
// It holds the phrase lexicon, the chain matcher, and the per-match state,
// all synchronous and free of I/O. The service layer drives a GameState turn
// by turn, and the agent sub-package scores single moves for training.
package engine

// GameState holds one match. It is owned by a single match runner and is
// never shared. Used always equals {StartPhrase} ∪ History.
type GameState struct {
	StartPhrase string
	History     []string  // accepted phrases in play order, start phrase excluded
	Used        PhraseSet // start phrase plus every accepted phrase
	Current     Side
	Round       int

	// Last accepted move's side and its self-declared continuation witness.
	// LastAccepted is empty until the first move is accepted.
	LastAccepted Side
	LastWitness  string

	Rules Rules
}

// NewGame initializes a match at round 1 with side A to move.
func NewGame(start string, rules Rules) *GameState {
	start = normalize(start)
	return &GameState{
		StartPhrase: start,
		History:     make([]string, 0, rules.maxRounds()),
		Used:        NewPhraseSet(start),
		Current:     SideA,
		Round:       1,
		Rules:       rules,
	}
}

// PreviousPhrase returns the phrase the current side must continue.
func (g *GameState) PreviousPhrase() string {
	if n := len(g.History); n > 0 {
		return g.History[n-1]
	}
	return g.StartPhrase
}

// Validate checks phrase as the current side's move.
func (g *GameState) Validate(lx *Lexicon, phrase string) error {
	return lx.Validate(g.Rules.Mode, phrase, g.PreviousPhrase(), g.Used)
}

// Accept records a validated move, remembers its witness, and passes the turn.
// The caller must have validated phrase first.
func (g *GameState) Accept(phrase, witness string) {
	phrase = normalize(phrase)
	g.LastAccepted = g.Current
	g.LastWitness = normalize(witness)
	g.History = append(g.History, phrase)
	g.Used.Add(phrase)
	g.Current = g.Current.Opponent()
	g.Round++
}

// RoundLimitReached reports whether the match has run past the round cap.
func (g *GameState) RoundLimitReached() bool {
	return g.Round > g.Rules.maxRounds()
}

// RoundsPlayed returns the round count to report, capped at the limit.
func (g *GameState) RoundsPlayed() int {
	if g.RoundLimitReached() {
		return g.Rules.maxRounds()
	}
	return g.Round
}

// FullHistory returns the start phrase followed by every accepted phrase.
func (g *GameState) FullHistory() []string {
	out := make([]string, 0, len(g.History)+1)
	out = append(out, g.StartPhrase)
	return append(out, g.History...)
}
