package main

import (
	"github.com/spf13/cobra"

	"mediascribe/internal/config"
	"mediascribe/internal/services"
)

// runFlags are the flags shared by the transcription run and doctor.
type runFlags struct {
	input          string
	output         string
	language       string
	model          string
	backend        string
	ffmpeg         string
	cpu            bool
	force          bool
	skipExisting   bool
	validateOutput bool
}

func (f *runFlags) register(cmd *cobra.Command, withRunOptions bool) {
	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", defaults.Transcribe.InputDir, "Directory to scan for media files")
	flags.StringVarP(&f.output, "output", "o", "", "Output directory (default: the input directory)")
	flags.StringVarP(&f.model, "model", "m", defaults.Transcribe.Model, "Model size (tiny, base, small, medium, large, ...)")
	flags.StringVarP(&f.backend, "backend", "b", defaults.Transcribe.Backend, "Transcription backend (whisperx, whispercpp, openai)")
	flags.StringVar(&f.ffmpeg, "ffmpeg", "", "ffmpeg executable (default: resolve ffmpeg on PATH)")
	flags.BoolVarP(&f.cpu, "cpu", "c", false, "Force CPU processing")
	if !withRunOptions {
		return
	}
	flags.StringVarP(&f.language, "language", "l", defaults.Transcribe.Language, "Transcription language code")
	flags.BoolVar(&f.force, "force", defaults.Transcribe.Overwrite, "Overwrite existing outputs (use --force=false to skip them)")
	flags.BoolVar(&f.skipExisting, "skip-existing", false, "Skip files whose outputs already exist (same as --force=false)")
	flags.BoolVar(&f.validateOutput, "validate-output", false, "Check written subtitles for timestamp problems")
}

// overrides returns only the values the user set explicitly so the config
// file is never masked by flag defaults.
func (f *runFlags) overrides(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("input") {
		o.InputDir = &f.input
	}
	if changed("output") {
		o.OutputDir = &f.output
	}
	if changed("language") {
		o.Language = &f.language
	}
	if changed("model") {
		o.ModelSize = &f.model
	}
	if changed("backend") {
		o.Backend = &f.backend
	}
	if changed("ffmpeg") {
		o.FFmpegPath = &f.ffmpeg
	}
	if changed("cpu") {
		o.ForceCPU = &f.cpu
	}
	if changed("validate-output") {
		o.ValidateOutput = &f.validateOutput
	}
	if changed("skip-existing") && f.skipExisting {
		if changed("force") && f.force {
			return o, services.Usagef("--force and --skip-existing cannot be combined")
		}
		overwrite := false
		o.Overwrite = &overwrite
	} else if changed("force") {
		o.Overwrite = &f.force
	}
	return o, nil
}

func (f *runFlags) resolve(cmd *cobra.Command, cfg *config.Config) (config.RunConfig, error) {
	o, err := f.overrides(cmd)
	if err != nil {
		return config.RunConfig{}, err
	}
	run, err := config.ResolveRun(cfg, o)
	if err != nil {
		return config.RunConfig{}, services.Usagef("%v", err)
	}
	return run, nil
}
