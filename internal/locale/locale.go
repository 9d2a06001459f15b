// Package locale holds the two display languages and language detection.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a display language stored in the player's settings.
type Language string

const (
	Japanese Language = "ja"
	English  Language = "en"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == Japanese || l == English
}

// Other returns the opposite language, used by the language toggle.
func (l Language) Other() Language {
	if l == Japanese {
		return English
	}
	return Japanese
}

// Label returns the short label shown in the language switcher.
func (l Language) Label() string {
	if l == Japanese {
		return "JP"
	}
	return "EN"
}

// Pick returns ja or en depending on l.
func (l Language) Pick(ja, en string) string {
	if l == Japanese {
		return ja
	}
	return en
}

// Text is a string localized into both display languages.
type Text struct {
	Ja string `json:"ja"`
	En string `json:"en"`
}

// In returns the text for lang, falling back to English when the
// Japanese text is empty.
func (t Text) In(lang Language) string {
	if lang == Japanese && t.Ja != "" {
		return t.Ja
	}
	return t.En
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Japanese})

// Detect maps a POSIX locale value such as "ja_JP.UTF-8" to a Language.
// Anything that does not match Japanese resolves to English.
func Detect(posix string) Language {
	tag, ok := parsePOSIX(posix)
	if !ok {
		return English
	}
	_, idx, conf := matcher.Match(tag)
	if idx == 1 && conf != language.No {
		return Japanese
	}
	return English
}

// parsePOSIX converts "ll_CC.charset@modifier" into a BCP 47 tag.
func parsePOSIX(s string) (language.Tag, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
