package engine

import (
	"errors"
	"testing"
)

func TestNewGame(t *testing.T) {
	g := NewGame("一心一意", DefaultRules())
	if g.Round != 1 || g.Current != SideA {
		t.Errorf("expected round 1 side A, got round %d side %s", g.Round, g.Current)
	}
	if g.LastAccepted != "" || g.LastWitness != "" {
		t.Error("expected no accepted move")
	}
	if !g.Used.Contains("一心一意") || g.Used.Len() != 1 {
		t.Errorf("expected used = {start}, got %v", g.Used.Slice())
	}
	if g.PreviousPhrase() != "一心一意" {
		t.Errorf("expected previous = start, got %s", g.PreviousPhrase())
	}
}

func TestAcceptAdvances(t *testing.T) {
	lx := newTestLexicon(t)
	g := NewGame("一心一意", DefaultRules())

	if err := g.Validate(lx, "意气风发"); err != nil {
		t.Fatalf("expected valid move, got %v", err)
	}
	g.Accept("意气风发", "发人深省")

	if g.Round != 2 || g.Current != SideB {
		t.Errorf("expected round 2 side B, got round %d side %s", g.Round, g.Current)
	}
	if g.LastAccepted != SideA || g.LastWitness != "发人深省" {
		t.Errorf("unexpected last accepted (%s, %s)", g.LastAccepted, g.LastWitness)
	}
	if g.PreviousPhrase() != "意气风发" {
		t.Errorf("expected previous 意气风发, got %s", g.PreviousPhrase())
	}

	// Used == {start} ∪ history.
	full := g.FullHistory()
	if len(full) != 2 || full[0] != "一心一意" || full[1] != "意气风发" {
		t.Errorf("unexpected full history %v", full)
	}
	if g.Used.Len() != len(full) {
		t.Errorf("used set size %d != history size %d", g.Used.Len(), len(full))
	}
	for _, p := range full {
		if !g.Used.Contains(p) {
			t.Errorf("used set missing %s", p)
		}
	}

	if err := g.Validate(lx, "意气风发"); !errors.Is(err, ErrChainMismatch) {
		t.Errorf("expected chain mismatch for replay after 意气风发, got %v", err)
	}
}

func TestRoundLimit(t *testing.T) {
	g := NewGame("一心一意", Rules{MaxRounds: 2})
	if g.RoundLimitReached() {
		t.Fatal("limit reached at start")
	}
	g.Accept("意气风发", "")
	if g.RoundLimitReached() {
		t.Fatal("limit reached after round 1")
	}
	g.Accept("发人深省", "")
	if !g.RoundLimitReached() {
		t.Fatal("expected limit after round 2")
	}
	if g.RoundsPlayed() != 2 {
		t.Errorf("expected 2 rounds reported, got %d", g.RoundsPlayed())
	}
	if v := g.Draw(); v.Winner != WinnerDraw || v.Reason != ReasonRoundLimit {
		t.Errorf("unexpected draw verdict %+v", v)
	}
}

func TestZeroRulesUseDefaultCap(t *testing.T) {
	g := NewGame("一心一意", Rules{})
	g.Round = MaxRounds
	if g.RoundLimitReached() {
		t.Error("round 30 must still be playable")
	}
	g.Round = MaxRounds + 1
	if !g.RoundLimitReached() {
		t.Error("round 31 must hit the cap")
	}
}

func TestWinnerSwapAndUtility(t *testing.T) {
	if WinnerA.Swap() != WinnerB || WinnerB.Swap() != WinnerA || WinnerDraw.Swap() != WinnerDraw {
		t.Error("Swap is not a mirror")
	}
	if WinnerA.Utility(SideA) != 1 || WinnerA.Utility(SideB) != -1 {
		t.Error("unexpected utility for A win")
	}
	if WinnerDraw.Utility(SideA) != 0 || WinnerDraw.Utility(SideB) != 0 {
		t.Error("draw must be zero for both")
	}
}
