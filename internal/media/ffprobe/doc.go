// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and returns the parsed Result. Helper methods expose
// the audio streams and the container duration used to pick a transcription
// track and to sanity-check subtitle timing.
package ffprobe
