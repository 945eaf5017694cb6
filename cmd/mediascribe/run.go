package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mediascribe/internal/batch"
	"mediascribe/internal/config"
	"mediascribe/internal/deps"
	"mediascribe/internal/discovery"
	"mediascribe/internal/language"
	"mediascribe/internal/loader"
	"mediascribe/internal/logging"
	"mediascribe/internal/media/audio"
	"mediascribe/internal/preflight"
	"mediascribe/internal/services"
	"mediascribe/internal/transcribe"
)

// loadModel is replaced in tests.
var loadModel = loader.Load

// acceleratorProbe is replaced in tests.
var acceleratorProbe = func(cfg *config.Config) transcribe.Probe {
	return transcribe.NvidiaProbe(cfg.NvidiaSMIBinary())
}

func runTranscribe(cmd *cobra.Command, ctx *commandContext, flags *runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	run, err := flags.resolve(cmd, cfg)
	if err != nil {
		return err
	}
	baseLogger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	runCtx := services.WithRunID(cmd.Context(), uuid.NewString())
	logger := logging.WithContext(runCtx, baseLogger)
	logger.Info("run started",
		logging.String("input_dir", run.InputDir),
		logging.String("output_dir", run.OutputDir),
		logging.String("backend", run.Backend),
		logging.String("model", run.ModelSize),
		logging.String("language", language.DisplayName(run.Language)),
		logging.String("config", ctx.configPath),
	)

	files, err := discovery.Discover(run.InputDir)
	if err != nil {
		return err
	}
	logger.Info("media discovered", logging.Int("files", len(files)))

	statuses := preflight.CheckSystemDeps(cfg, run)
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, fmt.Sprintf("%s (%s)", m.Name, m.Detail))
		}
		return services.Wrap(services.ErrLoad, "preflight", "check dependencies",
			"missing "+strings.Join(names, ", "), nil)
	}
	for _, s := range statuses {
		if s.Optional && !s.Available {
			logger.Warn("optional dependency unavailable",
				logging.String("dependency", s.Name),
				logging.String("detail", s.Detail),
			)
			if s.Name == "FFprobe" {
				run.FFprobePath = ""
			}
		}
	}

	device := transcribe.DeviceCPU
	if run.Backend != config.BackendOpenAI {
		device = transcribe.SelectDevice(runCtx, run.ForceCPU, acceleratorProbe(cfg), logger)
	}

	model, err := loadModel(runCtx, loader.Options{
		Backend:   run.Backend,
		ModelSize: run.ModelSize,
		Device:    device,
		Tools:     audio.Tools{FFmpeg: run.FFmpegPath, FFprobe: run.FFprobePath},
		Config:    cfg,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := model.Close(); err != nil {
			logger.Warn("failed to release model", logging.Error(err))
		}
	}()

	summary, runErr := batch.NewRunner(model, run, logger).Run(runCtx, files)
	out := cmd.OutOrStdout()
	if len(summary.Results) > 0 {
		fmt.Fprintln(out, renderSummary(summary, shouldColorize(out)))
	}
	fmt.Fprintln(out, summaryLine(summary))
	return runErr
}
