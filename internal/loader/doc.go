// Package loader turns the resolved run configuration into a loaded
// transcription backend.
package loader
