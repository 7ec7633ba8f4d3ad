package engine

import (
	"errors"
	"fmt"
)

// Validation failures. ErrChainMismatch is always wrapped with the
// mode-specific detail; use errors.Is to classify.
var (
	ErrNotInLexicon  = errors.New("phrase not in lexicon")
	ErrChainMismatch = errors.New("chain mismatch")
	ErrAlreadyUsed   = errors.New("phrase already used")
)

// Matches reports whether candidate may follow previous under mode.
// It returns nil on success and an ErrChainMismatch-wrapping error otherwise.
// Unknown modes use same-character semantics.
func (lx *Lexicon) Matches(mode Mode, previous, candidate string) error {
	switch mode {
	case ModeHomophone:
		return lx.matchHomophone(previous, candidate)
	case ModeExactCharAndTone:
		return lx.matchCharAndTone(previous, candidate)
	default:
		return matchChar(previous, candidate)
	}
}

// matchChar: candidate's first character equals previous's last character.
func matchChar(previous, candidate string) error {
	trail := lastRune(normalize(previous))
	lead := firstRune(normalize(candidate))
	if lead == "" || lead != trail {
		return fmt.Errorf("%w: leading character %q does not match %q", ErrChainMismatch, lead, trail)
	}
	return nil
}

// matchHomophone compares toneless syllables, falling back to characters
// when either syllable is unknown.
func (lx *Lexicon) matchHomophone(previous, candidate string) error {
	_, trail := lx.Projection(previous, false)
	lead, _ := lx.Projection(candidate, false)
	if trail == "" || lead == "" {
		return matchChar(previous, candidate)
	}
	if lead != trail {
		return fmt.Errorf("%w: leading syllable %q does not match %q", ErrChainMismatch, lead, trail)
	}
	return nil
}

// matchCharAndTone requires the character match and, when both toned
// syllables are known, the same toned syllable.
func (lx *Lexicon) matchCharAndTone(previous, candidate string) error {
	if err := matchChar(previous, candidate); err != nil {
		return err
	}
	_, trail := lx.Projection(previous, true)
	lead, _ := lx.Projection(candidate, true)
	if trail == "" || lead == "" {
		return nil
	}
	if lead != trail {
		return fmt.Errorf("%w: leading tone %q does not match %q", ErrChainMismatch, lead, trail)
	}
	return nil
}

// Validate checks candidate as the move after previous: existence first,
// then chaining, then uniqueness against used. It is pure; the same inputs
// always produce the same result.
func (lx *Lexicon) Validate(mode Mode, candidate, previous string, used PhraseSet) error {
	if !lx.Exists(candidate) {
		return ErrNotInLexicon
	}
	if err := lx.Matches(mode, previous, candidate); err != nil {
		return err
	}
	if used.Contains(candidate) {
		return ErrAlreadyUsed
	}
	return nil
}

// CountContinuations returns how many unused lexicon phrases share phrase's
// trailing projection under mode. It is a difficulty heuristic, not a
// legality check: in the phonetic modes an unknown transcription counts as 0.
func (lx *Lexicon) CountContinuations(mode Mode, phrase string, used PhraseSet) int {
	var candidates PhraseSet
	switch mode {
	case ModeHomophone:
		if _, trail := lx.Projection(phrase, false); trail != "" {
			candidates = lx.byFirstSound[trail]
		}
	case ModeExactCharAndTone:
		if _, trail := lx.Projection(phrase, true); trail != "" {
			candidates = lx.byCharTone[charTone{lastRune(normalize(phrase)), trail}]
		}
	default:
		candidates = lx.byFirstChar[lastRune(normalize(phrase))]
	}
	n := 0
	for p := range candidates {
		if !used.Contains(p) {
			n++
		}
	}
	return n
}
