package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"de":       "de",
		"DE":       "de",
		"deu":      "de",
		"ger":      "de",
		"German":   "de",
		"deutsch":  "de",
		"de-AT":    "de",
		"eng":      "en",
		"en-US":    "en",
		"fre":      "fr",
		"fra":      "fr",
		"pt-BR":    "pt",
		"zh_Hant":  "zh",
		"chi":      "zh",
		"nor":      "no",
		"yue":      "yue",
		"klingon":  "klingon",
		" ":        "",
		"":         "",
		"Mandarin": "zh",
		"und":      "und",
		"tl":       "tl",
		"jw":       "jw",
		"iw":       "iw",
	}
	for input, want := range tests {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

// whisperCodes are the language codes accepted by Whisper-family models.
var whisperCodes = []string{
	"en", "zh", "de", "es", "ru", "ko", "fr", "ja", "pt", "tr", "pl", "ca", "nl",
	"ar", "sv", "it", "id", "hi", "fi", "vi", "he", "uk", "el", "ms", "cs", "ro",
	"da", "hu", "ta", "no", "th", "ur", "hr", "bg", "lt", "la", "mi", "ml", "cy",
	"sk", "te", "fa", "lv", "bn", "sr", "az", "sl", "kn", "et", "mk", "br", "eu",
	"is", "hy", "ne", "mn", "bs", "kk", "sq", "sw", "gl", "mr", "pa", "si", "km",
	"sn", "yo", "so", "af", "oc", "ka", "be", "tg", "sd", "gu", "am", "yi", "lo",
	"uz", "fo", "ht", "ps", "tk", "nn", "mt", "sa", "lb", "my", "bo", "tl", "mg",
	"as", "tt", "haw", "ln", "ha", "ba", "jw", "su", "yue",
}

func TestNormalizeKeepsWhisperCodes(t *testing.T) {
	for _, code := range whisperCodes {
		if got := Normalize(code); got != code {
			t.Errorf("Normalize(%q) = %q, want it unchanged", code, got)
		}
		if len(code) == 2 {
			if got := ToISO2(code); got != code {
				t.Errorf("ToISO2(%q) = %q, want it unchanged", code, got)
			}
		}
	}
}

func TestToISO2(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en", "en"},
		{"spa", "es"},
		{"dut", "nl"},
		{"GERMAN", "de"},
		{"xy", "xy"},
		{"yue", ""},
		{"q1", ""},
		{"q1z9", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.want {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"de", "German"},
		{"ger", "German"},
		{"english", "English"},
		{"zho", "Chinese"},
		{"yue", "Cantonese"},
		{"q1", "Q1"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"de", "ger", true},
		{"de", "deu", true},
		{"en-GB", "eng", true},
		{"de", "en", false},
		{"de", "", false},
		{"", "", false},
		{"und", "und", false},
		{"und", "en", false},
		{"en", "und", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.a, tt.b); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestExtractFromTags(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"nil", nil, ""},
		{"lowercase key", map[string]string{"language": "eng"}, "eng"},
		{"uppercase value", map[string]string{"LANGUAGE": "GER"}, "ger"},
		{"ietf", map[string]string{"language_ietf": "de-CH"}, "de-ch"},
		{"nul padded", map[string]string{"language": "fra\x00"}, "fra"},
		{"priority", map[string]string{"lang": "en", "language": "de"}, "de"},
		{"blank", map[string]string{"language": "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFromTags(tt.tags); got != tt.want {
				t.Errorf("ExtractFromTags(%v) = %q, want %q", tt.tags, got, tt.want)
			}
		})
	}
}
