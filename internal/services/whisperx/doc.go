// Package whisperx runs WhisperX through uvx as a transcription backend.
//
// Each file is decoded to a 16 kHz mono WAV with the configured ffmpeg,
// transcribed by a `uvx whisperx` child process writing JSON into a temporary
// directory, and parsed back into timed segments. The ffmpeg directory is
// added to the child's PATH only.
package whisperx
