// Package transcribe defines the narrow model interface every
// speech-recognition backend implements, the timed Segment type, and compute
// device selection.
package transcribe
