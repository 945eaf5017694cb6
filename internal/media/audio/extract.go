package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

// Whisper-family models expect 16 kHz mono 16-bit PCM.
const (
	SampleRate = 16000
	Channels   = 1
	BitDepth   = 16

	compressedBitrate = "48k"
)

// ExtractArgs builds the ffmpeg arguments that decode source into 16 kHz
// mono audio at dest. A ".mp3" destination is encoded at a low bitrate for
// upload; anything else is written as 16-bit PCM WAV. A negative streamIndex
// lets ffmpeg pick the stream.
func ExtractArgs(source string, streamIndex int, dest string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
	}
	if streamIndex >= 0 {
		args = append(args, "-map", fmt.Sprintf("0:%d", streamIndex))
	}
	args = append(args,
		"-vn",
		"-sn",
		"-dn",
		"-ac", fmt.Sprint(Channels),
		"-ar", fmt.Sprint(SampleRate),
	)
	if strings.EqualFold(filepath.Ext(dest), ".mp3") {
		args = append(args, "-c:a", "libmp3lame", "-b:a", compressedBitrate)
	} else {
		args = append(args, "-c:a", "pcm_s16le")
	}
	return append(args, dest)
}

// Extract decodes the audio of source into a 16 kHz mono WAV at dest using
// the given ffmpeg executable.
func Extract(ctx context.Context, ffmpegBinary, source string, streamIndex int, dest string) error {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, ExtractArgs(source, streamIndex, dest)...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// WAVInfo describes a decoded WAV header.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// InspectWAV reads the header of a WAV file.
func InspectWAV(path string) (WAVInfo, error) {
	fh, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("open wav: %w", err)
	}
	defer fh.Close()

	dec := wav.NewDecoder(fh)
	if !dec.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("open wav: %s is not a valid wav file", path)
	}
	info := WAVInfo{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if d, err := dec.Duration(); err == nil {
		info.Duration = d
	}
	return info, nil
}

// VerifyWAV checks that path is the 16 kHz mono 16-bit WAV whisper models
// consume.
func VerifyWAV(path string) (WAVInfo, error) {
	info, err := InspectWAV(path)
	if err != nil {
		return info, err
	}
	if info.SampleRate != SampleRate {
		return info, fmt.Errorf("unsupported sample rate: %d", info.SampleRate)
	}
	if info.Channels != Channels {
		return info, fmt.Errorf("unsupported number of channels: %d", info.Channels)
	}
	if info.BitDepth != BitDepth {
		return info, fmt.Errorf("unsupported bit depth: %d", info.BitDepth)
	}
	return info, nil
}
