package engine

import "testing"

// testRecords is a small corpus with deliberate homophone and tone traps:
// 省 is xǐng at the end of 发人深省 but shěng at the start of 省吃俭用.
var testRecords = []PhraseRecord{
	NewPhraseRecord("一心一意", "yi", "yi", "yī xīn yī yì"),
	NewPhraseRecord("意气风发", "yi", "fa", "yì qì fēng fā"),
	NewPhraseRecord("意味深长", "yi", "chang", "yì wèi shēn cháng"),
	NewPhraseRecord("易如反掌", "yi", "zhang", "yì rú fǎn zhǎng"),
	NewPhraseRecord("发人深省", "fa", "xing", "fā rén shēn xǐng"),
	NewPhraseRecord("发扬光大", "fa", "da", "fā yáng guāng dà"),
	NewPhraseRecord("省吃俭用", "sheng", "yong", "shěng chī jiǎn yòng"),
	NewPhraseRecord("兴高采烈", "xing", "lie", "xìng gāo cǎi liè"),
	NewPhraseRecord("用心良苦", "yong", "ku", "yòng xīn liáng kǔ"),
	NewPhraseRecord("大智若愚", "", "", ""),
}

func newTestLexicon(t *testing.T) *Lexicon {
	t.Helper()
	lx, err := NewLexicon(testRecords)
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}
	return lx
}
