package engine

import (
	"slices"
	"strings"
)

// Side identifies one of the two seats in a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Label returns the human-readable seat name used in reason strings.
func (s Side) Label() string { return "player " + string(s) }

// Winner is the outcome label of a finished match: "A", "B" or "draw".
type Winner string

const (
	WinnerA    Winner = "A"
	WinnerB    Winner = "B"
	WinnerDraw Winner = "draw"
)

// WinnerOf converts a side into the matching outcome label.
func WinnerOf(s Side) Winner {
	if s == SideA {
		return WinnerA
	}
	return WinnerB
}

// Swap mirrors the label into the other A/B frame. Draw is unchanged.
func (w Winner) Swap() Winner {
	switch w {
	case WinnerA:
		return WinnerB
	case WinnerB:
		return WinnerA
	}
	return w
}

// Mode selects which (leading, trailing) projection the chain matcher compares.
type Mode uint8

const (
	ModeExactChar        Mode = iota // same character
	ModeHomophone                    // same toneless syllable
	ModeExactCharAndTone             // same character and same toned syllable
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeHomophone:
		return "homophone"
	case ModeExactCharAndTone:
		return "same_char_sound"
	default:
		return "same_char"
	}
}

// ParseMode maps a wire name to a Mode. Unknown names fall back to ModeExactChar.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "homophone":
		return ModeHomophone
	case "same_char_sound":
		return ModeExactCharAndTone
	default:
		return ModeExactChar
	}
}

// MoveClaim is one turn's output from a move source.
// Witness is the phrase the player claims can legally follow their own Phrase.
type MoveClaim struct {
	Phrase  string `json:"word"`
	Witness string `json:"next_word,omitempty"`
	Success bool   `json:"success"`
}

// PhraseSet is an unordered set of phrases.
type PhraseSet map[string]struct{}

// NewPhraseSet builds a set from the given phrases.
func NewPhraseSet(phrases ...string) PhraseSet {
	s := make(PhraseSet, len(phrases))
	for _, p := range phrases {
		s[normalize(p)] = struct{}{}
	}
	return s
}

// Contains reports whether p is in the set. A nil set contains nothing.
func (s PhraseSet) Contains(p string) bool {
	_, ok := s[normalize(p)]
	return ok
}

// Add inserts p in place.
func (s PhraseSet) Add(p string) { s[normalize(p)] = struct{}{} }

// With returns a copy of the set with p added. The receiver is not modified.
func (s PhraseSet) With(p string) PhraseSet {
	out := make(PhraseSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[normalize(p)] = struct{}{}
	return out
}

// Len returns the number of phrases in the set.
func (s PhraseSet) Len() int { return len(s) }

// Slice returns the members sorted.
func (s PhraseSet) Slice() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
