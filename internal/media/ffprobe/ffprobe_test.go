package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac", "channels": 2, "sample_rate": "48000",
     "tags": {"language": "ger"}, "disposition": {"default": 1}},
    {"index": 2, "codec_type": "audio", "codec_name": "ac3", "channels": 6, "tags": {"language": "eng"}}
  ],
  "format": {"filename": "talk.mkv", "nb_streams": 3, "duration": "123.45", "format_name": "matroska,webm"}
}`

func TestParseAndHelpers(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n := len(result.AudioStreams()); n != 2 {
		t.Fatalf("expected 2 audio streams, got %d", n)
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	audio := result.AudioStreams()
	if audio[0].Tags["language"] != "ger" || audio[0].Disposition["default"] != 1 {
		t.Fatalf("unexpected first audio stream: %+v", audio[0])
	}
}

func TestDurationHandlesInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if (Result{}).DurationSeconds() != 0 {
		t.Fatal("expected zero duration for empty value")
	}
}

func TestDurationFallsBackToAudioStreams(t *testing.T) {
	result := Result{
		Format: Format{Duration: "N/A"},
		Streams: []Stream{
			{CodecType: "video", Duration: "99.0"},
			{CodecType: "audio", Duration: "41.5"},
			{CodecType: "audio", Duration: "42.25"},
		},
	}
	if got := result.DurationSeconds(); got != 42.25 {
		t.Fatalf("expected longest audio stream duration, got %v", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectUsesBinary(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "ffprobe")
	body := "#!/bin/sh\ncat <<'JSON'\n" + sampleJSON + "\nJSON\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	result, err := Inspect(context.Background(), script, filepath.Join(dir, "talk.mkv"))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.Format.FormatName != "matroska,webm" {
		t.Fatalf("unexpected format %q", result.Format.FormatName)
	}
}

func TestInspectReportsFailure(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'Invalid data found' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(context.Background(), script, "x.mp4"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if _, err := Inspect(context.Background(), script, " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
