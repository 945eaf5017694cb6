package whispercpp

import (
	"context"
	"encoding/json"
	"errors"
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

// CLICommand is the whisper.cpp command-line executable.
const CLICommand = "whisper-cli"

// Config captures runtime settings for the whisper.cpp backend.
type Config struct {
	// Model is a size name ("base") resolved to ggml-<size>.bin in ModelDir,
	// or a path to a .bin file.
	Model    string
	ModelDir string
	// Threads passed to whisper-cli; zero keeps its default.
	Threads int
	UseGPU  bool
}

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service transcribes media through the whisper-cli executable.
type Service struct {
	cfg           Config
	binary        string
	tools         audio.Tools
	logger        *slog.Logger
	commandRunner CommandRunner
}

// NewService creates a whisper.cpp service. An empty binary resolves
// whisper-cli from PATH.
func NewService(cfg Config, binary string, tools audio.Tools, logger *slog.Logger) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = CLICommand
	}
	if strings.TrimSpace(tools.FFmpeg) == "" {
		tools.FFmpeg = "ffmpeg"
	}
	return &Service{
		cfg:    cfg,
		binary: binary,
		tools:  tools,
		logger: logging.NewComponentLogger(logger, "whispercpp"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.commandRunner = runner
}

// ModelPath returns the ggml model file the service will load.
func (s *Service) ModelPath() string {
	return ModelPath(s.cfg.ModelDir, s.cfg.Model)
}

// modelAliases maps size names that have no ggml file of their own to the
// release they stand for.
var modelAliases = map[string]string{
	"large": "large-v3",
}

// ModelPath resolves a model size or file name to a path under dir. Paths
// are returned unchanged.
func ModelPath(dir, model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		model = "base"
	}
	if strings.ContainsRune(model, os.PathSeparator) {
		return model
	}
	name := strings.TrimSuffix(strings.TrimPrefix(model, "ggml-"), ".bin")
	if alias, ok := modelAliases[name]; ok {
		name = alias
	}
	return filepath.Join(dir, "ggml-"+name+".bin")
}

// Load verifies the executables and the model file.
func (s *Service) Load(context.Context) error {
	if s.commandRunner == nil {
		if _, err := deps.Resolve(s.binary); err != nil {
			return fmt.Errorf("whispercpp: %w", err)
		}
		if _, err := deps.Resolve(s.tools.FFmpeg); err != nil {
			return fmt.Errorf("whispercpp: %w", err)
		}
	}
	path := s.ModelPath()
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("whispercpp: model %s not found (run `mediascribe models download %s`)", path, s.cfg.Model)
		}
		return fmt.Errorf("whispercpp: stat model: %w", err)
	}
	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("whispercpp: model %s is not a model file", path)
	}
	s.logger.Debug("model located", logging.String("model_path", path))
	return nil
}

// Transcribe decodes path to 16 kHz mono WAV, runs whisper-cli on it and
// parses the JSON transcript.
func (s *Service) Transcribe(ctx context.Context, path, language string) ([]transcribe.Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("transcribe: source path required")
	}
	workDir, err := os.MkdirTemp("", "mediascribe-whispercpp-*")
	if err != nil {
		return nil, fmt.Errorf("transcribe: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	lang := langpkg.Normalize(language)
	wavPath := filepath.Join(workDir, "audio.wav")
	if s.commandRunner != nil {
		if err := s.commandRunner(ctx, s.tools.FFmpeg, audio.ExtractArgs(path, -1, wavPath)...); err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
	} else {
		prepared, err := audio.Prepare(ctx, s.tools, path, lang, wavPath)
		if err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
		if prepared.ProbeErr != nil {
			s.logger.Debug("ffprobe failed; letting ffmpeg choose the audio stream", logging.Error(prepared.ProbeErr))
		}
		info, err := audio.VerifyWAV(wavPath)
		if err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
		s.logger.Debug("audio extracted", logging.Duration("audio_duration", info.Duration))
	}

	outBase := filepath.Join(workDir, "transcript")
	if err := s.run(ctx, s.binary, s.buildArgs(wavPath, outBase, lang)...); err != nil {
		return nil, fmt.Errorf("whispercpp: %w", err)
	}
	segments, err := LoadSegments(outBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("whispercpp: %w", err)
	}
	return segments, nil
}

// Close releases nothing; each transcription is a separate process.
func (s *Service) Close() error { return nil }

func (s *Service) buildArgs(wavPath, outBase, language string) []string {
	args := []string{
		"-m", s.ModelPath(),
		"-f", wavPath,
		"-oj",
		"-of", outBase,
		"-np",
	}
	if language == "" {
		language = "auto"
	}
	args = append(args, "-l", language)
	if s.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(s.cfg.Threads))
	}
	if !s.cfg.UseGPU {
		args = append(args, "-ng")
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(output))
		if len(msg) > 800 {
			msg = "..." + msg[len(msg)-800:]
		}
		return fmt.Errorf("%s: %w: %s", filepath.Base(name), err, msg)
	}
	return nil
}

type cliPayload struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// LoadSegments parses the JSON written by `whisper-cli -oj`. Offsets are
// milliseconds.
func LoadSegments(jsonPath string) ([]transcribe.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload cliPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper-cli json: %w", err)
	}
	segments := make([]transcribe.Segment, 0, len(payload.Transcription))
	for _, item := range payload.Transcription {
		segments = append(segments, transcribe.Segment{
			Start: float64(item.Offsets.From) / 1000,
			End:   float64(item.Offsets.To) / 1000,
			Text:  item.Text,
		})
	}
	return segments, nil
}
