// Package preflight provides readiness checks for the executables, models,
// APIs and directories that a transcription run depends on.
//
// The doctor command renders every result; the run command uses
// CheckSystemDeps to fail fast before loading a model.
package preflight
