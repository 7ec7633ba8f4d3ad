package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// corpusEntry is one element of the JSON corpus array.
// first/last are toneless syllables, pinyin is the space-separated toned transcription.
type corpusEntry struct {
	Word   string `json:"word"`
	First  string `json:"first"`
	Last   string `json:"last"`
	Pinyin string `json:"pinyin"`
}

// LoadCorpus decodes a JSON array of phrase entries.
// An entry without a word is a corrupt corpus; a missing transcription is not.
func LoadCorpus(r io.Reader) ([]PhraseRecord, error) {
	var entries []corpusEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCorpus, err)
	}
	records := make([]PhraseRecord, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Word) == "" {
			return nil, fmt.Errorf("%w: entry %d has no word", ErrCorruptCorpus, i)
		}
		records = append(records, NewPhraseRecord(e.Word, e.First, e.Last, e.Pinyin))
	}
	return records, nil
}

// LoadCorpusFile reads and decodes the corpus at path.
func LoadCorpusFile(path string) ([]PhraseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return LoadCorpus(f)
}

// NewPhraseRecord derives a record from raw corpus fields.
// Toneless syllables come from first/last; toned syllables from the first and
// last tokens of pinyin. Any of them may be empty (unknown).
func NewPhraseRecord(text, first, last, pinyin string) PhraseRecord {
	text = normalize(text)
	rec := PhraseRecord{
		Text:      text,
		FirstChar: firstRune(text),
		LastChar:  lastRune(text),
		First:     strings.ToLower(strings.TrimSpace(first)),
		Last:      strings.ToLower(strings.TrimSpace(last)),
	}
	if tokens := strings.Fields(normalize(pinyin)); len(tokens) > 0 {
		rec.FirstTone = strings.ToLower(tokens[0])
		rec.LastTone = strings.ToLower(tokens[len(tokens)-1])
	}
	return rec
}
