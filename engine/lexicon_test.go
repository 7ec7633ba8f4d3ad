package engine

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewLexiconEmpty(t *testing.T) {
	if _, err := NewLexicon(nil); !errors.Is(err, ErrEmptyLexicon) {
		t.Errorf("expected ErrEmptyLexicon, got %v", err)
	}
}

func TestNewLexiconDuplicateKeepsFirst(t *testing.T) {
	lx, err := NewLexicon([]PhraseRecord{
		NewPhraseRecord("一心一意", "yi", "yi", "yī xīn yī yì"),
		NewPhraseRecord("一心一意", "x", "x", "x x"),
	})
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}
	if lx.Len() != 1 {
		t.Errorf("expected 1 phrase, got %d", lx.Len())
	}
	if lead, _ := lx.Projection("一心一意", false); lead != "yi" {
		t.Errorf("expected first record to win, got leading %q", lead)
	}
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func TestExists(t *testing.T) {
	lx := newTestLexicon(t)
	if !lx.Exists("一心一意") {
		t.Error("expected 一心一意 to exist")
	}
	if !lx.Exists("  一心一意 ") {
		t.Error("expected surrounding whitespace to be ignored")
	}
	if lx.Exists("一二三四") {
		t.Error("expected unknown phrase to be absent")
	}
}

func TestProjection(t *testing.T) {
	lx := newTestLexicon(t)

	lead, trail := lx.Projection("发人深省", false)
	if lead != "fa" || trail != "xing" {
		t.Errorf("toneless: got (%q, %q)", lead, trail)
	}
	lead, trail = lx.Projection("发人深省", true)
	if lead != "fā" || trail != "xǐng" {
		t.Errorf("toned: got (%q, %q)", lead, trail)
	}
	lead, trail = lx.Projection("不存在的", true)
	if lead != "" || trail != "" {
		t.Errorf("unknown phrase: expected empty projection, got (%q, %q)", lead, trail)
	}
}

func TestProjectionWithoutTranscription(t *testing.T) {
	lx := newTestLexicon(t)
	rec, ok := lx.Record("大智若愚")
	if !ok {
		t.Fatal("expected 大智若愚 in lexicon")
	}
	if rec.FirstChar != "大" || rec.LastChar != "愚" {
		t.Errorf("expected character data, got (%q, %q)", rec.FirstChar, rec.LastChar)
	}
	for _, toned := range []bool{false, true} {
		if lead, trail := lx.Projection("大智若愚", toned); lead != "" || trail != "" {
			t.Errorf("toned=%v: expected unknown projection, got (%q, %q)", toned, lead, trail)
		}
	}
}

func TestPhrasesByLeadingChar(t *testing.T) {
	lx := newTestLexicon(t)
	got := lx.PhrasesByLeadingChar("意")
	want := []string{"意味深长", "意气风发"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(lx.PhrasesByLeadingChar("龙")) != 0 {
		t.Error("expected no phrases for unused leading char")
	}
}

func TestPhrasesSortedCopy(t *testing.T) {
	lx := newTestLexicon(t)
	ps := lx.Phrases()
	if len(ps) != len(testRecords) {
		t.Fatalf("expected %d phrases, got %d", len(testRecords), len(ps))
	}
	for i := 1; i < len(ps); i++ {
		if ps[i-1] > ps[i] {
			t.Fatalf("phrases not sorted at %d: %q > %q", i, ps[i-1], ps[i])
		}
	}
	ps[0] = "mutated"
	if lx.Phrases()[0] == "mutated" {
		t.Error("Phrases must return a copy")
	}
}

// TestConcurrentReads exercises the read-only contract under the race detector.
func TestConcurrentReads(t *testing.T) {
	lx := newTestLexicon(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = lx.Exists("意气风发")
				_ = lx.CountContinuations(ModeHomophone, "一心一意", NewPhraseSet("一心一意"))
				_ = lx.Validate(ModeExactCharAndTone, "省吃俭用", "发人深省", nil)
			}
		}()
	}
	wg.Wait()
}

func TestSample(t *testing.T) {
	lx := newTestLexicon(t)
	r := rand.New(rand.NewPCG(7, 11))

	got := lx.Sample(4, r)
	if len(got) != 4 {
		t.Fatalf("Sample(4) returned %d phrases", len(got))
	}
	seen := map[string]bool{}
	for _, p := range got {
		if !lx.Exists(p) {
			t.Errorf("sampled %q is not in the lexicon", p)
		}
		if seen[p] {
			t.Errorf("sampled %q twice", p)
		}
		seen[p] = true
	}

	if n := len(lx.Sample(100, r)); n != lx.Len() {
		t.Errorf("Sample(100) = %d phrases, want %d", n, lx.Len())
	}
	if n := len(lx.Sample(-1, nil)); n != 0 {
		t.Errorf("Sample(-1) = %d phrases, want 0", n)
	}
}
