package translation

import (
	"github.com/leonelquinteros/gotext"
	"strings"
)

// Configure loads the catalogue for lang from dir. Missing catalogues are not an error,
// messages then fall back to their English msgid.
func Configure(dir, lang string) {
	gotext.Configure(dir, strings.ToLower(lang), "default")
}

func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}

	return lang
}

func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
