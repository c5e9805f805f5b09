package services

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectLanguage guesses the ISO 639-1 code of a post's description so the
// feed can be filtered per-language later. Returns "unknown" when the text
// is too short to judge.
func DetectLanguage(content string) string {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllSpokenLanguages().
			WithLowAccuracyMode().
			Build()
	})

	if lang, ok := detector.DetectLanguageOf(content); ok {
		return lang.IsoCode639_1().String()
	}
	return "unknown"
}
