// Package services defines shared utilities consumed by the batch runner, the
// model loader, and the speech-recognition backends.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and the current media file for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures as
//     fatal (usage, load) or per-file (transcription, io), and map them to
//     process exit codes.
//
// Backend implementations live in subpackages (whisperx, whispercpp,
// openaiasr) and report failures through these markers so the runner can
// decide whether to continue with the next file.
package services
