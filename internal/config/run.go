package config

import (
	"fmt"
	"strings"
)

// RunConfig is the immutable record a single batch invocation runs with.
type RunConfig struct {
	InputDir       string
	OutputDir      string
	Language       string
	ModelSize      string
	Backend        string
	ForceCPU       bool
	Overwrite      bool
	ValidateOutput bool
	FFmpegPath     string
	FFprobePath    string
}

// Overrides carries command-line values. Nil fields leave the config value
// untouched so flag defaults never mask the config file.
type Overrides struct {
	InputDir       *string
	OutputDir      *string
	Language       *string
	ModelSize      *string
	Backend        *string
	ForceCPU       *bool
	Overwrite      *bool
	ValidateOutput *bool
	FFmpegPath     *string
}

// ResolveRun merges overrides onto the loaded configuration and produces the
// run record. The output directory defaults to the input directory.
func ResolveRun(cfg *Config, o Overrides) (RunConfig, error) {
	if cfg == nil {
		def := Default()
		if err := def.normalize(); err != nil {
			return RunConfig{}, err
		}
		cfg = &def
	}
	t := cfg.Transcribe
	run := RunConfig{
		InputDir:       t.InputDir,
		OutputDir:      t.OutputDir,
		Language:       t.Language,
		ModelSize:      t.Model,
		Backend:        t.Backend,
		ForceCPU:       t.ForceCPU,
		Overwrite:      t.Overwrite,
		ValidateOutput: t.ValidateOutput,
		FFmpegPath:     cfg.FFmpegBinary(),
		FFprobePath:    cfg.FFprobeBinary(),
	}

	applyString(&run.InputDir, o.InputDir)
	applyString(&run.OutputDir, o.OutputDir)
	applyString(&run.Language, o.Language)
	applyString(&run.ModelSize, o.ModelSize)
	applyString(&run.Backend, o.Backend)
	applyBool(&run.ForceCPU, o.ForceCPU)
	applyBool(&run.Overwrite, o.Overwrite)
	applyBool(&run.ValidateOutput, o.ValidateOutput)
	if o.FFmpegPath != nil && strings.TrimSpace(*o.FFmpegPath) != "" {
		ffmpeg, err := expandExecutable(*o.FFmpegPath)
		if err != nil {
			return RunConfig{}, fmt.Errorf("--ffmpeg: %w", err)
		}
		run.FFmpegPath = ffmpeg
	}

	run.Backend = strings.ToLower(run.Backend)
	if err := ValidateBackend(run.Backend); err != nil {
		return RunConfig{}, err
	}

	if run.InputDir == "" {
		run.InputDir = defaultInputDir
	}
	var err error
	if run.InputDir, err = expandPath(run.InputDir); err != nil {
		return RunConfig{}, fmt.Errorf("input directory: %w", err)
	}
	if run.OutputDir == "" {
		run.OutputDir = run.InputDir
	} else if run.OutputDir, err = expandPath(run.OutputDir); err != nil {
		return RunConfig{}, fmt.Errorf("output directory: %w", err)
	}
	return run, nil
}

func applyString(dst *string, value *string) {
	if value == nil {
		return
	}
	if trimmed := strings.TrimSpace(*value); trimmed != "" {
		*dst = trimmed
	}
}

func applyBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}
