// Package language normalizes the language codes given on the command line
// before they reach a transcription backend.
//
// Codes are parsed as BCP 47 tags via golang.org/x/text/language; a small
// alias table covers English word forms and ISO 639-2/B codes. Unknown codes
// pass through unchanged so the backend reports them.
package language
