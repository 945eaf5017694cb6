// Package whispercpp runs the whisper.cpp command-line tool as a
// transcription backend and downloads the ggml models it needs.
package whispercpp
