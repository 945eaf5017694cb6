package audio

import (
	"context"
	"fmt"
	"strings"

	"mediascribe/internal/media/ffprobe"
)

// Tools names the executables used to prepare audio. An empty FFprobe skips
// stream selection and lets ffmpeg choose.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// Prepared describes the audio file handed to a recognizer.
type Prepared struct {
	Path      string
	Selection Selection
	// ProbeErr is set when ffprobe failed and ffmpeg picked the stream.
	ProbeErr error
}

// Prepare selects the audio stream of source that best matches lang and
// decodes it to dest.
func Prepare(ctx context.Context, tools Tools, source, lang, dest string) (Prepared, error) {
	prepared := Prepared{Path: dest, Selection: Selection{PrimaryIndex: -1}}
	if strings.TrimSpace(tools.FFprobe) != "" {
		probe, err := ffprobe.Inspect(ctx, tools.FFprobe, source)
		if err != nil {
			if ctx.Err() != nil {
				return prepared, ctx.Err()
			}
			prepared.ProbeErr = err
		} else {
			prepared.Selection = Select(probe.Streams, lang)
			if prepared.Selection.AudioCount == 0 {
				return prepared, fmt.Errorf("prepare audio: %s has no audio streams", source)
			}
		}
	}
	if err := Extract(ctx, tools.FFmpeg, source, prepared.Selection.PrimaryIndex, dest); err != nil {
		return prepared, err
	}
	return prepared, nil
}
