package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// aliases covers word forms and ISO 639-2/B codes that BCP 47 parsing does
// not resolve on its own.
var aliases = map[string]string{
	"ger": "de", "fre": "fr", "chi": "zh", "dut": "nl", "cze": "cs", "gre": "el",

	"english":    "en",
	"german":     "de",
	"deutsch":    "de",
	"french":     "fr",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"polish":     "pl",
	"czech":      "cs",
	"greek":      "el",
	"turkish":    "tr",
	"russian":    "ru",
	"ukrainian":  "uk",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
	"arabic":     "ar",
	"hindi":      "hi",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"mandarin":   "zh",
}

// tagKeys are the stream tag keys that carry a language, in priority order.
var tagKeys = []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}

func parseBase(code string) (string, bool) {
	tag, err := xlanguage.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", false
	}
	// Base infers a likely language for "und" and bare scripts; only an
	// explicitly written base language counts.
	base, confidence := tag.Base()
	if confidence != xlanguage.Exact {
		return "", false
	}
	return base.String(), true
}

// Normalize returns the code handed to transcription backends: the shortest
// ISO 639 form of the base language ("German", "ger", "deu" and "de-AT" all
// give "de"). Two-letter codes are returned as given, so Whisper codes such
// as "tl" and "jw" are not replaced by their BCP 47 successors.
// Unrecognized input passes through lowercased.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if len(code) == 2 && isLetters(code) {
		return code
	}
	if alias, ok := aliases[code]; ok {
		return alias
	}
	if base, ok := parseBase(code); ok {
		return base
	}
	return code
}

// ToISO2 returns the ISO 639-1 code for code, or "" when the language has
// no two-letter form.
func ToISO2(code string) string {
	n := Normalize(code)
	if len(n) != 2 || !isLetters(n) {
		return ""
	}
	return n
}

// DisplayName returns the English name of a language code.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	if tag, err := xlanguage.Parse(Normalize(code)); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}

// Matches reports whether two codes name the same base language.
// Empty or undetermined codes never match.
func Matches(a, b string) bool {
	a, b = Normalize(a), Normalize(b)
	if a == "" || a == "und" || b == "und" {
		return false
	}
	return a == b
}

// ExtractFromTags returns the lowercased language recorded in stream
// metadata tags, or "".
func ExtractFromTags(tags map[string]string) string {
	for _, key := range tagKeys {
		value := strings.TrimSpace(strings.ReplaceAll(tags[key], "\x00", ""))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
