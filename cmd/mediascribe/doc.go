// Command mediascribe batch-transcribes the audio and video files in a
// directory into SRT subtitles and plain-text transcripts.
//
// The root command runs a transcription batch. Subcommands:
//
//	config init [path]   write a sample configuration file
//	config show          print the resolved configuration
//	doctor               check tools, models and directories
//	models download      fetch ggml models for the whispercpp backend
//
// Exit status is 0 when every file was written or skipped, 2 for usage
// errors and 1 for everything else.
package main
