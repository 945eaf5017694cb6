package audio

import (
	"strings"

	"mediascribe/internal/language"
	"mediascribe/internal/media/ffprobe"
)

// Selection describes the audio stream chosen for transcription.
type Selection struct {
	Primary      ffprobe.Stream
	PrimaryIndex int
	// LanguageMatch reports whether the chosen stream is tagged with the
	// requested language.
	LanguageMatch bool
	AudioCount    int
}

// Found reports whether any audio stream was selected.
func (s Selection) Found() bool { return s.PrimaryIndex >= 0 }

// Label returns a short human-readable summary of the selected stream.
func (s Selection) Label() string {
	if !s.Found() {
		return ""
	}
	parts := []string{s.Primary.CodecName}
	if lang := language.ExtractFromTags(s.Primary.Tags); lang != "" {
		parts = append(parts, lang)
	}
	if title := normalizeTitle(s.Primary.Tags); title != "" {
		parts = append(parts, title)
	}
	return strings.Join(parts, " ")
}

// Select picks the stream to transcribe. Streams tagged with the requested
// language win, then the default-flagged stream, then container order.
// Commentary tracks rank last.
func Select(streams []ffprobe.Stream, lang string) Selection {
	candidates := buildCandidates(streams, lang)
	if len(candidates) == 0 {
		return Selection{PrimaryIndex: -1}
	}
	best := candidates[0]
	bestScore := scorePrimary(best)
	for _, cand := range candidates[1:] {
		if score := scorePrimary(cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	return Selection{
		Primary:       best.stream,
		PrimaryIndex:  best.stream.Index,
		LanguageMatch: best.languageMatch,
		AudioCount:    len(candidates),
	}
}

type candidate struct {
	stream         ffprobe.Stream
	order          int
	languageMatch  bool
	commentary     bool
	defaultFlagged bool
}

func scorePrimary(cand candidate) float64 {
	score := 0.0
	if cand.languageMatch {
		score += 100
	}
	if cand.defaultFlagged {
		score += 10
	}
	if cand.commentary {
		score -= 500
	}
	// Prefer earlier tracks when scores tie.
	score -= float64(cand.order) * 0.1
	return score
}

func buildCandidates(streams []ffprobe.Stream, lang string) []candidate {
	result := make([]candidate, 0, len(streams))
	order := 0
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		title := normalizeTitle(stream.Tags)
		result = append(result, candidate{
			stream:         stream,
			order:          order,
			languageMatch:  language.Matches(language.ExtractFromTags(stream.Tags), lang),
			commentary:     strings.Contains(title, "commentary"),
			defaultFlagged: stream.Disposition != nil && stream.Disposition["default"] == 1,
		})
		order++
	}
	return result
}

func normalizeTitle(tags map[string]string) string {
	for _, key := range []string{"title", "TITLE", "handler_name"} {
		if value, ok := tags[key]; ok {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}
