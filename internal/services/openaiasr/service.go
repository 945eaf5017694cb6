package openaiasr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"mediascribe/internal/deps"
	langpkg "mediascribe/internal/language"
	"mediascribe/internal/logging"
	"mediascribe/internal/media/audio"
	"mediascribe/internal/services"
	"mediascribe/internal/transcribe"
)

// DefaultModel is the hosted transcription model.
const DefaultModel = "whisper-1"

// ErrMissingAPIKey indicates no API key was configured.
var ErrMissingAPIKey = errors.New("openai api key is not configured")

// Config captures runtime settings for the hosted backend.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Service transcribes media through the OpenAI audio transcription API.
type Service struct {
	cfg    Config
	tools  audio.Tools
	logger *slog.Logger
	client *openai.Client
}

// NewService creates a hosted transcription service. The API client is
// built lazily by Load.
func NewService(cfg Config, tools audio.Tools, logger *slog.Logger) *Service {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if strings.TrimSpace(tools.FFmpeg) == "" {
		tools.FFmpeg = "ffmpeg"
	}
	return &Service{
		cfg:    cfg,
		tools:  tools,
		logger: logging.NewComponentLogger(logger, "openai"),
	}
}

func (s *Service) newClient() *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(s.cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(s.cfg.Timeout),
	}
	if s.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &client
}

// Load validates configuration and prepares the API client. No request is
// made; see HealthCheck.
func (s *Service) Load(context.Context) error {
	if s.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}
	if _, err := deps.Resolve(s.tools.FFmpeg); err != nil {
		return fmt.Errorf("openai: %w", err)
	}
	s.client = s.newClient()
	return nil
}

// HealthCheck confirms the API key can see the configured model.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}
	client := s.client
	if client == nil {
		client = s.newClient()
	}
	if _, err := client.Models.Get(ctx, s.cfg.Model); err != nil {
		return fmt.Errorf("openai: model %s: %w", s.cfg.Model, err)
	}
	return nil
}

// Transcribe compresses the audio of path to mono mp3 and uploads it.
func (s *Service) Transcribe(ctx context.Context, path, language string) ([]transcribe.Segment, error) {
	if s.client == nil {
		return nil, services.Wrap(services.ErrLoad, "openaiasr", "transcribe", "service not loaded", nil)
	}
	workDir, err := os.MkdirTemp("", "mediascribe-openai-*")
	if err != nil {
		return nil, fmt.Errorf("transcribe: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	lang := langpkg.Normalize(language)
	upload := filepath.Join(workDir, "audio.mp3")
	prepared, err := audio.Prepare(ctx, s.tools, path, lang, upload)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	if prepared.ProbeErr != nil {
		s.logger.Debug("ffprobe failed; letting ffmpeg choose the audio stream", logging.Error(prepared.ProbeErr))
	}

	file, err := os.Open(upload)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	params := openai.AudioTranscriptionNewParams{
		File:           file,
		Model:          openai.AudioModel(s.cfg.Model),
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}
	if iso := langpkg.ToISO2(lang); iso != "" {
		params.Language = openai.String(iso)
	}

	start := time.Now()
	response, err := s.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, classifyAPIError(err)
	}
	if response == nil {
		return nil, errors.New("openai: transcription API returned nil response")
	}
	s.logger.Debug("transcription response received",
		logging.String("model", s.cfg.Model),
		logging.Int("segments", len(response.Segments)),
		logging.Duration("latency", time.Since(start)),
	)
	return toSegments(response), nil
}

// classifyAPIError marks rejected credentials as a configuration error so
// the batch stops instead of failing every remaining file the same way.
func classifyAPIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		return services.Wrap(services.ErrConfiguration, "openaiasr", "transcribe", "api key rejected", err)
	}
	return fmt.Errorf("openai: %w", err)
}

// Close drops the API client.
func (s *Service) Close() error {
	s.client = nil
	return nil
}

func toSegments(response *openai.AudioTranscriptionNewResponseUnion) []transcribe.Segment {
	verbose := response.AsTranscriptionVerbose()
	if len(verbose.Segments) == 0 {
		text := strings.TrimSpace(verbose.Text)
		if text == "" {
			return nil
		}
		return []transcribe.Segment{{Start: 0, End: verbose.Duration, Text: text}}
	}
	segments := make([]transcribe.Segment, 0, len(verbose.Segments))
	for _, seg := range verbose.Segments {
		segments = append(segments, transcribe.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return segments
}
