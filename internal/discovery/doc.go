// Package discovery finds the audio and video files a batch run will
// transcribe.
package discovery
