package subtitles

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// subtitleDurationToleranceSeconds is how far the last cue may run past the
// end of the media before it is reported.
const subtitleDurationToleranceSeconds = 2.0

func countSRTCues(content string) int {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// subtitleBounds returns the earliest start and latest end across all cues
// plus the number of timing lines that could not be parsed or run backwards.
func subtitleBounds(content string) (first, last float64, invalid int) {
	first = math.Inf(1)
	found := false
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			invalid++
			continue
		}
		start, errStart := parseSRTTimestamp(parts[0])
		end, errEnd := parseSRTTimestamp(parts[1])
		if errStart != nil || errEnd != nil || end < start {
			invalid++
			continue
		}
		found = true
		if start < first {
			first = start
		}
		if end > last {
			last = end
		}
	}
	if !found {
		return 0, 0, invalid
	}
	return first, last, invalid
}

func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// Normalize period to comma (SRT standard uses comma for milliseconds)
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// ValidateSRTContent checks an SRT file for format issues.
// Returns a list of issues found; empty slice means validation passed.
// mediaSeconds enables the duration check when positive.
func ValidateSRTContent(path string, mediaSeconds float64) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error: %v", err)}
	}
	return validateSRT(string(data), mediaSeconds)
}

func validateSRT(content string, mediaSeconds float64) []string {
	var issues []string

	if countSRTCues(content) == 0 {
		return append(issues, "empty_subtitle_file")
	}

	_, last, invalid := subtitleBounds(content)
	if invalid > 0 {
		issues = append(issues, fmt.Sprintf("invalid_timestamps: count=%d", invalid))
	}

	if mediaSeconds > 0 && last-mediaSeconds > subtitleDurationToleranceSeconds {
		issues = append(issues, fmt.Sprintf("cue_past_media_end: delta=%.1fs", last-mediaSeconds))
	}

	return issues
}
