package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTranscribe()
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeWhisperX()
	if err := c.normalizeWhisperCPP(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

// Directories stay relative here; they are resolved against the working
// directory together with flag overrides in ResolveRun.
func (c *Config) normalizeTranscribe() {
	c.Transcribe.InputDir = strings.TrimSpace(c.Transcribe.InputDir)
	if c.Transcribe.InputDir == "" {
		c.Transcribe.InputDir = defaultInputDir
	}
	c.Transcribe.OutputDir = strings.TrimSpace(c.Transcribe.OutputDir)
	c.Transcribe.Language = strings.TrimSpace(c.Transcribe.Language)
	if c.Transcribe.Language == "" {
		c.Transcribe.Language = defaultLanguage
	}
	c.Transcribe.Model = strings.TrimSpace(c.Transcribe.Model)
	if c.Transcribe.Model == "" {
		c.Transcribe.Model = defaultModel
	}
	c.Transcribe.Backend = strings.ToLower(strings.TrimSpace(c.Transcribe.Backend))
	if c.Transcribe.Backend == "" {
		c.Transcribe.Backend = defaultBackend
	}
}

func (c *Config) normalizeTools() error {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = envFallback(defaultFFmpegEnvVar)
	}
	var err error
	if c.Tools.FFmpeg, err = expandExecutable(c.Tools.FFmpeg); err != nil {
		return fmt.Errorf("tools.ffmpeg: %w", err)
	}
	if c.Tools.FFprobe, err = expandExecutable(c.Tools.FFprobe); err != nil {
		return fmt.Errorf("tools.ffprobe: %w", err)
	}
	if c.Tools.UVX, err = expandExecutable(c.Tools.UVX); err != nil {
		return fmt.Errorf("tools.uvx: %w", err)
	}
	if c.Tools.NvidiaSMI, err = expandExecutable(c.Tools.NvidiaSMI); err != nil {
		return fmt.Errorf("tools.nvidia_smi: %w", err)
	}
	if c.Tools.WhisperCLI, err = expandExecutable(c.Tools.WhisperCLI); err != nil {
		return fmt.Errorf("tools.whisper_cli: %w", err)
	}
	return nil
}

func (c *Config) normalizeWhisperX() {
	c.WhisperX.VADMethod = strings.ToLower(strings.TrimSpace(c.WhisperX.VADMethod))
	if c.WhisperX.VADMethod == "" {
		c.WhisperX.VADMethod = defaultWhisperXVADMethod
	}
	if c.WhisperX.BatchSize <= 0 {
		c.WhisperX.BatchSize = defaultWhisperXBatchSize
	}
	c.WhisperX.ComputeType = strings.ToLower(strings.TrimSpace(c.WhisperX.ComputeType))
	c.WhisperX.HFToken = strings.TrimSpace(c.WhisperX.HFToken)
	if c.WhisperX.HFToken == "" {
		c.WhisperX.HFToken = envFallback("HUGGING_FACE_HUB_TOKEN", "HF_TOKEN")
	}
}

func (c *Config) normalizeWhisperCPP() error {
	if strings.TrimSpace(c.WhisperCPP.ModelDir) == "" {
		c.WhisperCPP.ModelDir = defaultWhisperCPPModelDir
	}
	var err error
	if c.WhisperCPP.ModelDir, err = expandPath(strings.TrimSpace(c.WhisperCPP.ModelDir)); err != nil {
		return fmt.Errorf("whispercpp.model_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = envFallback(defaultOpenAIAPIKeyEnvVar)
	}
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = envFallback(defaultOpenAIBaseURLEnvVar)
	}
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeout
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogFileMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
	return nil
}

// FFmpegBinary returns the configured ffmpeg executable or the PATH default.
func (c *Config) FFmpegBinary() string {
	return orDefault(c.Tools.FFmpeg, defaultFFmpegCommand)
}

// FFprobeBinary returns the configured ffprobe executable or the PATH default.
func (c *Config) FFprobeBinary() string {
	return orDefault(c.Tools.FFprobe, defaultFFprobeCommand)
}

// UVXBinary returns the uvx executable used to launch WhisperX.
func (c *Config) UVXBinary() string {
	return orDefault(c.Tools.UVX, defaultUVXCommand)
}

// NvidiaSMIBinary returns the executable used to probe for CUDA devices.
func (c *Config) NvidiaSMIBinary() string {
	return orDefault(c.Tools.NvidiaSMI, defaultNvidiaSMICommand)
}

// WhisperCLIBinary returns the whisper.cpp command-line executable.
func (c *Config) WhisperCLIBinary() string {
	return orDefault(c.Tools.WhisperCLI, defaultWhisperCLICommand)
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

// envFallback returns the first non-blank value among the named variables.
func envFallback(names ...string) string {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
