package config

const (
	defaultConfigPath          = "~/.config/mediascribe/config.toml"
	defaultInputDir            = "."
	defaultLanguage            = "de"
	defaultModel               = "base"
	defaultBackend             = BackendWhisperX
	defaultOverwrite           = true
	defaultWhisperXBatchSize   = 4
	defaultWhisperXVADMethod   = "silero"
	defaultWhisperCPPModelDir  = "~/.local/share/mediascribe/models"
	defaultOpenAIModel         = "whisper-1"
	defaultOpenAITimeout       = 600
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogFileMaxSizeMB    = 20
	defaultLogFileMaxBackups   = 5
	defaultLogFileMaxAgeDays   = 30
	defaultFFmpegCommand       = "ffmpeg"
	defaultFFprobeCommand      = "ffprobe"
	defaultUVXCommand          = "uvx"
	defaultNvidiaSMICommand    = "nvidia-smi"
	defaultWhisperCLICommand   = "whisper-cli"
	defaultFFmpegEnvVar        = "MEDIASCRIBE_FFMPEG"
	defaultOpenAIAPIKeyEnvVar  = "OPENAI_API_KEY"
	defaultOpenAIBaseURLEnvVar = "OPENAI_BASE_URL"
)

// Backend names accepted by transcribe.backend and --backend.
const (
	BackendWhisperX   = "whisperx"
	BackendWhisperCPP = "whispercpp"
	BackendOpenAI     = "openai"
)

// Backends lists the supported backend names in display order.
func Backends() []string {
	return []string{BackendWhisperX, BackendWhisperCPP, BackendOpenAI}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transcribe: Transcribe{
			InputDir:  defaultInputDir,
			Language:  defaultLanguage,
			Model:     defaultModel,
			Backend:   defaultBackend,
			Overwrite: defaultOverwrite,
		},
		WhisperX: WhisperX{
			BatchSize: defaultWhisperXBatchSize,
			VADMethod: defaultWhisperXVADMethod,
		},
		WhisperCPP: WhisperCPP{
			ModelDir: defaultWhisperCPPModelDir,
		},
		OpenAI: OpenAI{
			Model:          defaultOpenAIModel,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogFileMaxSizeMB,
			MaxBackups: defaultLogFileMaxBackups,
			MaxAgeDays: defaultLogFileMaxAgeDays,
		},
	}
}
