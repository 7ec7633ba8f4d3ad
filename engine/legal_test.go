package engine

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// Matches
// ---------------------------------------------------------------------------

// TestMatchesExactCharProperty checks, for every pair in the corpus, that the
// same-character mode accepts exactly when first char == previous last char.
func TestMatchesExactCharProperty(t *testing.T) {
	lx := newTestLexicon(t)
	for _, p1 := range lx.Phrases() {
		for _, p2 := range lx.Phrases() {
			r1, _ := lx.Record(p1)
			r2, _ := lx.Record(p2)
			want := r2.FirstChar == r1.LastChar
			got := lx.Matches(ModeExactChar, p1, p2) == nil
			if got != want {
				t.Errorf("Matches(%s -> %s) = %v, want %v", p1, p2, got, want)
			}
		}
	}
}

func TestMatchesModes(t *testing.T) {
	lx := newTestLexicon(t)
	cases := []struct {
		name     string
		mode     Mode
		prev     string
		cand     string
		wantPass bool
	}{
		{"char ok", ModeExactChar, "一心一意", "意气风发", true},
		{"char homophone rejected", ModeExactChar, "一心一意", "易如反掌", false},
		{"homophone same syllable", ModeHomophone, "一心一意", "易如反掌", true},
		{"homophone xing", ModeHomophone, "发人深省", "兴高采烈", true},
		{"homophone same char different sound", ModeHomophone, "发人深省", "省吃俭用", false},
		{"homophone unknown falls back to char", ModeHomophone, "发扬光大", "大智若愚", true},
		{"homophone unknown prev, char mismatch", ModeHomophone, "大智若愚", "意气风发", false},
		{"tone ok", ModeExactCharAndTone, "一心一意", "意气风发", true},
		{"tone mismatch on same char", ModeExactCharAndTone, "发人深省", "省吃俭用", false},
		{"tone requires char", ModeExactCharAndTone, "一心一意", "易如反掌", false},
		{"tone unknown, char suffices", ModeExactCharAndTone, "发扬光大", "大智若愚", true},
		{"unknown mode uses char", Mode(99), "一心一意", "意气风发", true},
		{"unknown mode rejects homophone", Mode(99), "一心一意", "易如反掌", false},
		{"empty candidate", ModeExactChar, "一心一意", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := lx.Matches(tc.mode, tc.prev, tc.cand)
			if tc.wantPass && err != nil {
				t.Errorf("expected match, got %v", err)
			}
			if !tc.wantPass {
				if err == nil {
					t.Error("expected mismatch, got nil")
				} else if !errors.Is(err, ErrChainMismatch) {
					t.Errorf("expected ErrChainMismatch, got %v", err)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidateOrder(t *testing.T) {
	lx := newTestLexicon(t)
	used := NewPhraseSet("一心一意", "意气风发")

	if err := lx.Validate(ModeExactChar, "意味深长", "一心一意", used); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := lx.Validate(ModeExactChar, "意想不到", "一心一意", used); !errors.Is(err, ErrNotInLexicon) {
		t.Errorf("expected ErrNotInLexicon, got %v", err)
	}
	if err := lx.Validate(ModeExactChar, "发扬光大", "一心一意", used); !errors.Is(err, ErrChainMismatch) {
		t.Errorf("expected ErrChainMismatch, got %v", err)
	}
	if err := lx.Validate(ModeExactChar, "意气风发", "一心一意", used); !errors.Is(err, ErrAlreadyUsed) {
		t.Errorf("expected ErrAlreadyUsed, got %v", err)
	}
	// Chaining is checked before uniqueness.
	if err := lx.Validate(ModeExactChar, "一心一意", "意气风发", used); !errors.Is(err, ErrChainMismatch) {
		t.Errorf("expected ErrChainMismatch before ErrAlreadyUsed, got %v", err)
	}
}

func TestValidateIdempotent(t *testing.T) {
	lx := newTestLexicon(t)
	used := NewPhraseSet("一心一意")
	for _, cand := range []string{"意气风发", "易如反掌", "一心一意", "不存在的"} {
		first := lx.Validate(ModeHomophone, cand, "一心一意", used)
		second := lx.Validate(ModeHomophone, cand, "一心一意", used)
		if (first == nil) != (second == nil) || (first != nil && first.Error() != second.Error()) {
			t.Errorf("%s: %v then %v", cand, first, second)
		}
	}
	if used.Len() != 1 {
		t.Errorf("Validate mutated used set: %v", used.Slice())
	}
}

// ---------------------------------------------------------------------------
// CountContinuations
// ---------------------------------------------------------------------------

func TestCountContinuations(t *testing.T) {
	lx := newTestLexicon(t)
	cases := []struct {
		mode   Mode
		phrase string
		used   PhraseSet
		want   int
	}{
		{ModeExactChar, "一心一意", nil, 2},
		{ModeExactChar, "一心一意", NewPhraseSet("意气风发"), 1},
		{ModeHomophone, "一心一意", NewPhraseSet("一心一意"), 3},
		{ModeHomophone, "大智若愚", nil, 0},
		{ModeExactCharAndTone, "一心一意", nil, 2},
		{ModeExactCharAndTone, "发人深省", nil, 0},
		{ModeExactChar, "发人深省", nil, 1},
		{Mode(42), "一心一意", nil, 2},
	}
	for _, tc := range cases {
		if got := lx.CountContinuations(tc.mode, tc.phrase, tc.used); got != tc.want {
			t.Errorf("CountContinuations(%v, %s) = %d, want %d", tc.mode, tc.phrase, got, tc.want)
		}
	}
}

// TestCountContinuationsMonotonic: growing the used set never raises the count.
func TestCountContinuationsMonotonic(t *testing.T) {
	lx := newTestLexicon(t)
	for _, mode := range []Mode{ModeExactChar, ModeHomophone, ModeExactCharAndTone} {
		for _, p := range lx.Phrases() {
			used := NewPhraseSet()
			prev := lx.CountContinuations(mode, p, used)
			for _, u := range lx.Phrases() {
				used = used.With(u)
				cur := lx.CountContinuations(mode, p, used)
				if cur > prev {
					t.Fatalf("mode %v phrase %s: count rose from %d to %d after adding %s", mode, p, prev, cur, u)
				}
				prev = cur
			}
			if prev != 0 {
				t.Errorf("mode %v phrase %s: expected 0 with everything used, got %d", mode, p, prev)
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"same_char":       ModeExactChar,
		"homophone":       ModeHomophone,
		"same_char_sound": ModeExactCharAndTone,
		" HOMOPHONE ":     ModeHomophone,
		"":                ModeExactChar,
		"pinyin":          ModeExactChar,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Errorf("ParseMode(%q) = %v, want %v", in, got, want)
		}
	}
	for _, m := range []Mode{ModeExactChar, ModeHomophone, ModeExactCharAndTone} {
		if ParseMode(m.String()) != m {
			t.Errorf("round trip failed for %v", m)
		}
	}
}
