package loader

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"mediascribe/internal/config"
	"mediascribe/internal/logging"
	"mediascribe/internal/media/audio"
	"mediascribe/internal/services"
	"mediascribe/internal/services/openaiasr"
	"mediascribe/internal/services/whispercpp"
	"mediascribe/internal/services/whisperx"
	"mediascribe/internal/transcribe"
)

// Options selects and configures the backend to load.
type Options struct {
	Backend   string
	ModelSize string
	Device    transcribe.Device
	Tools     audio.Tools
	// Config supplies backend sections and tool paths. Nil uses defaults.
	Config *config.Config
	Logger *slog.Logger
}

// Backend is a transcription model with an explicit load step.
type Backend interface {
	transcribe.Model
	Load(ctx context.Context) error
}

// Build constructs the backend named by opts without loading it.
func Build(opts Options) (Backend, error) {
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	tools := opts.Tools
	if strings.TrimSpace(tools.FFmpeg) == "" {
		tools.FFmpeg = cfg.FFmpegBinary()
	}
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = cfg.Transcribe.Backend
	}

	switch backend {
	case config.BackendWhisperX:
		return whisperx.NewService(whisperx.Config{
			Model:       opts.ModelSize,
			CUDAEnabled: opts.Device.Accelerated(),
			BatchSize:   cfg.WhisperX.BatchSize,
			ComputeType: cfg.WhisperX.ComputeType,
			VADMethod:   cfg.WhisperX.VADMethod,
			HFToken:     cfg.WhisperX.HFToken,
		}, cfg.UVXBinary(), tools, opts.Logger), nil
	case config.BackendWhisperCPP:
		return whispercpp.NewService(whispercpp.Config{
			Model:    opts.ModelSize,
			ModelDir: cfg.WhisperCPP.ModelDir,
			Threads:  cfg.WhisperCPP.Threads,
			UseGPU:   opts.Device.Accelerated(),
		}, cfg.WhisperCLIBinary(), tools, opts.Logger), nil
	case config.BackendOpenAI:
		return openaiasr.NewService(openaiasr.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Timeout: time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		}, tools, opts.Logger), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "loader", "select backend", "", config.ValidateBackend(backend))
	}
}

// Load builds the configured backend and runs its load step. Every failure
// is a load error.
func Load(ctx context.Context, opts Options) (transcribe.Model, error) {
	logger := logging.NewComponentLogger(opts.Logger, "loader")
	backend, err := Build(opts)
	if err != nil {
		return nil, services.Wrap(services.ErrLoad, "loader", "build backend", "", err)
	}
	start := time.Now()
	if err := backend.Load(ctx); err != nil {
		return nil, services.Wrap(services.ErrLoad, "loader", "load model",
			opts.Backend+" "+opts.ModelSize, err)
	}
	logger.Info("model loaded",
		logging.String("backend", opts.Backend),
		logging.String("model", opts.ModelSize),
		logging.String("device", opts.Device.String()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return backend, nil
}
