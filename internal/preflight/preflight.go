package preflight

import (
	"context"
	"fmt"

	"mediascribe/internal/config"
	"mediascribe/internal/deps"
	"mediascribe/internal/transcribe"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional results never fail the run.
	Optional bool
}

// FromStatus converts a dependency status into a check result.
func FromStatus(s deps.Status) Result {
	res := Result{Name: s.Name, Passed: s.Available, Optional: s.Optional}
	if s.Available {
		res.Detail = s.Path
	} else {
		res.Detail = s.Detail
		if s.Description != "" {
			res.Detail = fmt.Sprintf("%s (%s)", s.Detail, s.Description)
		}
	}
	return res
}

// RunAll executes every check that applies to the resolved run.
func RunAll(ctx context.Context, cfg *config.Config, run config.RunConfig) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results,
		CheckInputDirectory("Input directory", run.InputDir),
		CheckOutputDirectory("Output directory", run.OutputDir),
	)
	for _, status := range CheckSystemDeps(cfg, run) {
		results = append(results, FromStatus(status))
	}

	switch run.Backend {
	case config.BackendWhisperCPP:
		results = append(results, CheckWhisperCPPModel(cfg.WhisperCPP.ModelDir, run.ModelSize))
	case config.BackendOpenAI:
		results = append(results, CheckOpenAI(ctx, cfg.OpenAI))
	}
	if run.Backend != config.BackendOpenAI {
		var probe transcribe.Probe
		if !run.ForceCPU {
			probe = transcribe.NvidiaProbe(cfg.NvidiaSMIBinary())
		}
		results = append(results, CheckAccelerator(ctx, probe))
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
