// Package openaiasr sends compressed audio to the OpenAI transcription API
// and maps the verbose JSON segments onto transcript segments.
package openaiasr
