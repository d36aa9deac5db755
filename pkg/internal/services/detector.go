package services

import (
	"strings"
	"sync"

	"github.com/hashtagwatch/monitor/pkg/internal/models"
	"github.com/pemistahl/lingua-go"
	"github.com/spf13/viper"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectLanguage guesses the ISO 639-3 code of a post body. Used only when
// the search payload carries no language and detection is enabled; otherwise
// the undetermined bucket applies.
func DetectLanguage(text string) string {
	if !viper.GetBool("monitor.detect_language") {
		return models.LangUndetermined
	}

	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllSpokenLanguages().
			Build()
	})

	if language, ok := detector.DetectLanguageOf(text); ok {
		return strings.ToLower(language.IsoCode639_3().String())
	}
	return models.LangUndetermined
}
