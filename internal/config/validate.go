package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Language and model names are
// deliberately not checked here; the backend rejects values it cannot load.
func (c *Config) Validate() error {
	if err := c.validateTranscribe(); err != nil {
		return err
	}
	if err := c.validateWhisperX(); err != nil {
		return err
	}
	if err := c.validateWhisperCPP(); err != nil {
		return err
	}
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscribe() error {
	return ValidateBackend(c.Transcribe.Backend)
}

// ValidateBackend reports an error when name is not a supported backend.
func ValidateBackend(name string) error {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, candidate := range Backends() {
		if normalized == candidate {
			return nil
		}
	}
	return fmt.Errorf("transcribe.backend: unsupported backend %q (supported: %s)", name, strings.Join(Backends(), ", "))
}

func (c *Config) validateWhisperX() error {
	switch c.WhisperX.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("whisperx.vad_method: unsupported value %q (expected silero or pyannote)", c.WhisperX.VADMethod)
	}
	if c.WhisperX.BatchSize <= 0 {
		return errors.New("whisperx.batch_size must be positive")
	}
	return nil
}

func (c *Config) validateWhisperCPP() error {
	if c.WhisperCPP.Threads < 0 {
		return errors.New("whispercpp.threads must be >= 0")
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.TimeoutSeconds <= 0 {
		return errors.New("openai.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB <= 0 {
		return errors.New("logging.max_size_mb must be positive")
	}
	return nil
}
