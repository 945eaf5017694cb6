package whisperx

// Config holds the knobs exposed through the [whisperx] config section.
// Zero values fall back to the package defaults.
type Config struct {
	Model       string
	CUDAEnabled bool
	BatchSize   int
	ComputeType string
	// VADMethod is "silero" or "pyannote"; pyannote needs HFToken.
	VADMethod string
	HFToken   string
}

const (
	DefaultModel     = "base"
	DefaultBatchSize = 4

	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"

	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"

	UVXCommand    = "uvx"
	FFmpegCommand = "ffmpeg"
)

// Package indexes handed to uvx. CUDA builds of torch live on the PyTorch
// index; everything else comes from PyPI.
const (
	CUDAIndexURL = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL = "https://pypi.org/simple"
)

// decodeFlags are passed on every run. They favor sentence-level cues and
// deterministic decoding over throughput.
var decodeFlags = []string{
	"--output_format", "json",
	"--segment_resolution", "sentence",
	"--chunk_size", "15",
	"--vad_onset", "0.08",
	"--vad_offset", "0.07",
	"--beam_size", "5",
	"--temperature", "0.0",
	"--print_progress", "False",
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.VADMethod == "" {
		c.VADMethod = VADMethodSilero
	}
	if c.ComputeType == "" && !c.CUDAEnabled {
		c.ComputeType = CPUComputeType
	}
	return c
}
