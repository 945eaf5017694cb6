// Package batch runs a loaded transcription model over discovered media
// files and writes one .srt and one .txt per file.
//
// Files are processed sequentially in discovery order and existing outputs
// are skipped unless overwrite is enabled. A failure on one file is recorded
// in the summary and the run moves on. Outputs are written atomically, and
// an advisory lock keeps two runs out of the same output directory.
package batch
