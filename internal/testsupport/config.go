package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mediascribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Input lives under <base>/input and output under <base>/output.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Transcribe.InputDir = filepath.Join(base, "input")
	cfgVal.Transcribe.OutputDir = filepath.Join(base, "output")
	cfgVal.WhisperCPP.ModelDir = filepath.Join(base, "models")
	for _, dir := range []string{cfgVal.Transcribe.InputDir, cfgVal.Transcribe.OutputDir, cfgVal.WhisperCPP.ModelDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackend selects the transcription backend on the test config.
func WithBackend(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcribe.Backend = name
	}
}

// WithStubbedBinaries writes succeeding stub executables for the provided
// names into <base>/bin and points the tool settings at them. If names is
// empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		for _, name := range names {
			path := WriteExecutable(b.t, binDir, name, "exit 0\n")
			switch name {
			case "ffmpeg":
				b.cfg.Tools.FFmpeg = path
			case "ffprobe":
				b.cfg.Tools.FFprobe = path
			case "uvx":
				b.cfg.Tools.UVX = path
			case "nvidia-smi":
				b.cfg.Tools.NvidiaSMI = path
			case "whisper-cli":
				b.cfg.Tools.WhisperCLI = path
			}
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Transcribe.InputDir)
}
