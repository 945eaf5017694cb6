// Package audio prepares media for speech recognition.
//
// Select picks the audio stream to transcribe from ffprobe metadata.
// Extract decodes it to 16 kHz mono PCM with an explicitly configured
// ffmpeg, and VerifyWAV checks the result with github.com/go-audio/wav.
package audio
