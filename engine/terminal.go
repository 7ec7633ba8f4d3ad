package engine

import "fmt"

// ReasonRoundLimit is the draw reason when the round cap is hit.
const ReasonRoundLimit = "round limit reached"

// Verdict is the terminal ruling of a match.
type Verdict struct {
	Winner   Winner
	Reason   string
	Reversed bool // the naive ruling was overturned by a bad witness
}

// ResolveFailure rules on a failed turn by side failing.
//
// The naive ruling is a win for failing's opponent. When the previous
// accepted move declared a witness, that witness is validated as a
// continuation of lastPhrase against used (which does not include the failed
// attempt). A legal witness keeps the naive ruling and the original reason;
// an illegal one reverses it in favour of failing. With no accepted move or
// no witness the naive ruling stands.
func ResolveFailure(lx *Lexicon, mode Mode, lastAccepted Side, witness, lastPhrase string, failing Side, used PhraseSet, reason string) Verdict {
	naive := Verdict{Winner: WinnerOf(failing.Opponent()), Reason: reason}
	if lastAccepted == "" || normalize(witness) == "" {
		return naive
	}
	if err := lx.Validate(mode, witness, lastPhrase, used); err == nil {
		return naive
	}
	return Verdict{
		Winner:   WinnerOf(failing),
		Reason:   fmt.Sprintf("%s could not prove a continuation existed", lastAccepted.Label()),
		Reversed: true,
	}
}

// Fail applies ResolveFailure to the current side of g.
func (g *GameState) Fail(lx *Lexicon, reason string) Verdict {
	return ResolveFailure(lx, g.Rules.Mode, g.LastAccepted, g.LastWitness, g.PreviousPhrase(), g.Current, g.Used, reason)
}

// Draw returns the round-limit verdict.
func (g *GameState) Draw() Verdict {
	return Verdict{Winner: WinnerDraw, Reason: ReasonRoundLimit}
}

// SourceFailureReason is the reason for a move source that errored.
func SourceFailureReason(s Side) string { return s.Label() + " move source failed" }

// ResignReason is the reason for a self-declared resignation.
func ResignReason(s Side) string { return s.Label() + " resigned" }

// RejectReason is the reason for a move that failed validation. The
// validation error text is kept verbatim, including any chain detail.
func RejectReason(s Side, err error) string {
	if err == nil {
		return s.Label() + " invalid move"
	}
	return s.Label() + " " + err.Error()
}
