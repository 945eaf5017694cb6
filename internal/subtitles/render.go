package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mediascribe/internal/transcribe"
)

// FormatTimestamp renders seconds as HH:MM:SS,mmm rounded to the nearest
// millisecond. Negative and non-finite values render as zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	msTotal := int64(math.Round(seconds * 1000))
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// RenderSRT formats segments as numbered SRT cues. Every cue, including the
// last, is followed by a blank line.
func RenderSRT(segments []transcribe.Segment) []byte {
	var b strings.Builder
	for i, seg := range segments {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(FormatTimestamp(seg.Start))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(seg.End))
		b.WriteByte('\n')
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}

// RenderText joins the trimmed segment texts with newlines. There is no
// trailing newline.
func RenderText(segments []transcribe.Segment) []byte {
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = strings.TrimSpace(seg.Text)
	}
	return []byte(strings.Join(lines, "\n"))
}
