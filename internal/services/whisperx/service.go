package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"mediascribe/internal/deps"
	langpkg "mediascribe/internal/language"
	"mediascribe/internal/logging"
	"mediascribe/internal/media/audio"
	"mediascribe/internal/transcribe"
)

// CommandRunner executes an external command with the given environment.
type CommandRunner func(ctx context.Context, env []string, name string, args ...string) error

// Service transcribes media through `uvx whisperx`.
type Service struct {
	cfg           Config
	uvxBinary     string
	tools         audio.Tools
	logger        *slog.Logger
	commandRunner CommandRunner
}

// NewService creates a WhisperX service. Empty binaries resolve from PATH.
func NewService(cfg Config, uvxBinary string, tools audio.Tools, logger *slog.Logger) *Service {
	if strings.TrimSpace(uvxBinary) == "" {
		uvxBinary = UVXCommand
	}
	if strings.TrimSpace(tools.FFmpeg) == "" {
		tools.FFmpeg = FFmpegCommand
	}
	return &Service{
		cfg:       cfg,
		uvxBinary: uvxBinary,
		tools:     tools,
		logger:    logging.NewComponentLogger(logger, "whisperx"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.withDefaults().Model
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// Load verifies that uvx and ffmpeg can be executed. Model weights are
// fetched by WhisperX on first use.
func (s *Service) Load(context.Context) error {
	if s.commandRunner != nil {
		return nil
	}
	if _, err := deps.Resolve(s.uvxBinary); err != nil {
		return fmt.Errorf("whisperx: %w", err)
	}
	if _, err := deps.Resolve(s.tools.FFmpeg); err != nil {
		return fmt.Errorf("whisperx: %w", err)
	}
	return nil
}

// Transcribe extracts the audio of path, runs WhisperX on it, and returns
// the parsed segments.
func (s *Service) Transcribe(ctx context.Context, path, language string) ([]transcribe.Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("transcribe: source path required")
	}
	workDir, err := os.MkdirTemp("", "mediascribe-whisperx-*")
	if err != nil {
		return nil, fmt.Errorf("transcribe: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "audio.wav")
	if err := s.extract(ctx, path, language, wavPath); err != nil {
		return nil, err
	}

	args := s.buildArgs(wavPath, workDir, language)
	if err := s.run(ctx, s.uvxBinary, args...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	segments, err := LoadSegments(filepath.Join(workDir, "audio.json"))
	if err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}
	return toSegments(segments), nil
}

// Close releases nothing; each transcription is a separate process.
func (s *Service) Close() error { return nil }

func (s *Service) extract(ctx context.Context, source, language, dest string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, nil, s.tools.FFmpeg, audio.ExtractArgs(source, -1, dest)...)
	}
	prepared, err := audio.Prepare(ctx, s.tools, source, langpkg.Normalize(language), dest)
	if err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	if prepared.ProbeErr != nil {
		s.logger.Debug("ffprobe failed; letting ffmpeg choose the audio stream", logging.Error(prepared.ProbeErr))
	} else if prepared.Selection.Found() {
		s.logger.Debug("audio stream selected",
			logging.Int("stream_index", prepared.Selection.PrimaryIndex),
			logging.String("stream", prepared.Selection.Label()),
			logging.Bool("language_match", prepared.Selection.LanguageMatch),
		)
	}
	return nil
}

// run executes a command, using the custom runner if set. The child gets
// the ffmpeg directory on its PATH because WhisperX decodes through ffmpeg.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	env := deps.ChildEnv(os.Environ(), deps.ToolDir(s.tools.FFmpeg))
	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if s.commandRunner != nil {
		return s.commandRunner(ctx, env, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = env
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(name), err, tail(string(output), 800))
	}
	return nil
}

// buildArgs constructs the uvx command line for one WhisperX run.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	cfg := s.cfg.withDefaults()

	args := make([]string, 0, 40)
	if cfg.CUDAEnabled {
		args = append(args, "--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", cfg.Model,
		"--batch_size", strconv.Itoa(cfg.BatchSize),
		"--output_dir", outputDir,
	)
	args = append(args, decodeFlags...)

	args = append(args, "--vad_method", cfg.VADMethod)
	if cfg.VADMethod == VADMethodPyannote && cfg.HFToken != "" {
		args = append(args, "--hf_token", cfg.HFToken)
	}
	if lang := langpkg.Normalize(language); lang != "" {
		args = append(args, "--language", lang)
	}

	device := CPUDevice
	if cfg.CUDAEnabled {
		device = CUDADevice
	}
	args = append(args, "--device", device)
	if cfg.ComputeType != "" {
		args = append(args, "--compute_type", cfg.ComputeType)
	}
	return args
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload.Segments, nil
}

func toSegments(in []Segment) []transcribe.Segment {
	out := make([]transcribe.Segment, 0, len(in))
	for _, seg := range in {
		out = append(out, transcribe.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return out
}

func tail(output string, limit int) string {
	output = strings.TrimSpace(output)
	if len(output) <= limit {
		return output
	}
	return "..." + output[len(output)-limit:]
}
