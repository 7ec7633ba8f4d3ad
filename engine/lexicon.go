package engine

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrCorruptCorpus = errors.New("corrupt corpus")
	ErrEmptyLexicon  = errors.New("lexicon is empty")
)

// PhraseRecord is the immutable per-phrase data derived from the corpus.
type PhraseRecord struct {
	Text      string
	FirstChar string
	LastChar  string
	First     string // leading syllable, toneless
	Last      string // trailing syllable, toneless
	FirstTone string // leading syllable, toned
	LastTone  string // trailing syllable, toned
}

// charTone keys the same_char_sound continuation index.
type charTone struct {
	char string
	tone string
}

// Lexicon indexes the phrase corpus. It is never mutated after NewLexicon
// returns, so any number of matches may read it concurrently without locking.
type Lexicon struct {
	records      map[string]PhraseRecord
	phrases      []string
	byFirstChar  map[string]PhraseSet
	byFirstSound map[string]PhraseSet
	byCharTone   map[charTone]PhraseSet
}

// NewLexicon builds the lookup structures. Duplicate texts keep the first record.
func NewLexicon(records []PhraseRecord) (*Lexicon, error) {
	if len(records) == 0 {
		return nil, ErrEmptyLexicon
	}
	lx := &Lexicon{
		records:      make(map[string]PhraseRecord, len(records)),
		phrases:      make([]string, 0, len(records)),
		byFirstChar:  make(map[string]PhraseSet),
		byFirstSound: make(map[string]PhraseSet),
		byCharTone:   make(map[charTone]PhraseSet),
	}
	for _, rec := range records {
		rec.Text = normalize(rec.Text)
		if rec.Text == "" {
			return nil, ErrCorruptCorpus
		}
		if _, dup := lx.records[rec.Text]; dup {
			continue
		}
		if rec.FirstChar == "" {
			rec.FirstChar = firstRune(rec.Text)
		}
		if rec.LastChar == "" {
			rec.LastChar = lastRune(rec.Text)
		}
		lx.records[rec.Text] = rec
		lx.phrases = append(lx.phrases, rec.Text)

		addTo(lx.byFirstChar, rec.FirstChar, rec.Text)
		if rec.First != "" {
			addTo(lx.byFirstSound, rec.First, rec.Text)
		}
		if rec.FirstTone != "" {
			addTo(lx.byCharTone, charTone{rec.FirstChar, rec.FirstTone}, rec.Text)
		}
	}
	sort.Strings(lx.phrases)
	return lx, nil
}

func addTo[K comparable](idx map[K]PhraseSet, key K, phrase string) {
	set, ok := idx[key]
	if !ok {
		set = make(PhraseSet)
		idx[key] = set
	}
	set[phrase] = struct{}{}
}

// Exists reports whether phrase is in the corpus.
func (lx *Lexicon) Exists(phrase string) bool {
	_, ok := lx.records[normalize(phrase)]
	return ok
}

// Record returns the stored record for phrase.
func (lx *Lexicon) Record(phrase string) (PhraseRecord, bool) {
	rec, ok := lx.records[normalize(phrase)]
	return rec, ok
}

// Projection returns the (leading, trailing) syllables of phrase, toned or
// toneless. Both are empty when the phrase or its transcription is unknown.
func (lx *Lexicon) Projection(phrase string, toned bool) (leading, trailing string) {
	rec, ok := lx.records[normalize(phrase)]
	if !ok {
		return "", ""
	}
	if toned {
		return rec.FirstTone, rec.LastTone
	}
	return rec.First, rec.Last
}

// PhrasesByLeadingChar returns the sorted phrases starting with char.
func (lx *Lexicon) PhrasesByLeadingChar(char string) []string {
	return lx.byFirstChar[normalize(char)].Slice()
}

// Phrases returns a sorted copy of every phrase in the lexicon.
func (lx *Lexicon) Phrases() []string {
	out := make([]string, len(lx.phrases))
	copy(out, lx.phrases)
	return out
}

// Sample returns min(n, Len()) distinct phrases chosen uniformly at random.
// A nil r uses the global source.
func (lx *Lexicon) Sample(n int, r *rand.Rand) []string {
	pool := lx.Phrases()
	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:max(0, min(n, len(pool)))]
}

// Len returns the number of distinct phrases.
func (lx *Lexicon) Len() int { return len(lx.phrases) }

// normalize trims and NFC-normalizes phrase text so that lookups are
// insensitive to composed/decomposed input.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

func lastRune(s string) string {
	r, size := utf8.DecodeLastRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}
