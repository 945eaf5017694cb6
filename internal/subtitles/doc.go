// Package subtitles renders transcription segments into SRT subtitle and
// plain-text transcript bytes, and sanity-checks written SRT files.
//
// Rendering is pure: identical segments always produce identical bytes.
package subtitles
