package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"mediascribe/internal/config"
	"mediascribe/internal/discovery"
	"mediascribe/internal/fileutil"
	"mediascribe/internal/logging"
	"mediascribe/internal/media/ffprobe"
	"mediascribe/internal/services"
	"mediascribe/internal/subtitles"
	"mediascribe/internal/transcribe"
)

// LockFileName is the advisory lock held in the output directory for the
// duration of a run.
const LockFileName = ".mediascribe.lock"

// State is the outcome of one file.
type State string

const (
	StateSkipped State = "skipped"
	StateWritten State = "written"
	StateFailed  State = "failed"
)

// FileResult records what happened to one discovered file.
type FileResult struct {
	File     discovery.MediaFile
	State    State
	SRTPath  string
	TextPath string
	Segments int
	Elapsed  time.Duration
	// Issues are post-write validation warnings.
	Issues []string
	Err    error
}

// Summary aggregates the per-file results of a run.
type Summary struct {
	Results []FileResult
	Written int
	Skipped int
	Failed  int
	Elapsed time.Duration
}

func (s *Summary) add(res FileResult) {
	s.Results = append(s.Results, res)
	switch res.State {
	case StateWritten:
		s.Written++
	case StateSkipped:
		s.Skipped++
	case StateFailed:
		s.Failed++
	}
}

// DurationProbe reports the duration of a media file in seconds.
type DurationProbe func(ctx context.Context, path string) (float64, error)

// FFprobeDuration returns a DurationProbe backed by ffprobe.
func FFprobeDuration(binary string) DurationProbe {
	return func(ctx context.Context, path string) (float64, error) {
		result, err := ffprobe.Inspect(ctx, binary, path)
		if err != nil {
			return 0, err
		}
		return result.DurationSeconds(), nil
	}
}

// Runner transcribes discovered files one at a time with a loaded model.
type Runner struct {
	model  transcribe.Model
	run    config.RunConfig
	logger *slog.Logger
	// Probe supplies media durations for output validation. Nil skips the
	// duration check.
	Probe DurationProbe
}

// NewRunner creates a runner for the resolved run configuration.
func NewRunner(model transcribe.Model, run config.RunConfig, logger *slog.Logger) *Runner {
	r := &Runner{
		model:  model,
		run:    run,
		logger: logging.NewComponentLogger(logger, "batch"),
	}
	if run.ValidateOutput && strings.TrimSpace(run.FFprobePath) != "" {
		r.Probe = FFprobeDuration(run.FFprobePath)
	}
	return r
}

// OutputPaths returns the subtitle and text paths for a media file.
func OutputPaths(outputDir string, file discovery.MediaFile) (srt, text string) {
	return filepath.Join(outputDir, file.Stem+".srt"), filepath.Join(outputDir, file.Stem+".txt")
}

// Run processes files in order. A failing file is recorded and the batch
// continues; cancellation or a fatal error (services.IsFatal) stops the loop
// and returns that error.
// When any file failed the returned error wraps services.ErrBatchFailed.
func (r *Runner) Run(ctx context.Context, files []discovery.MediaFile) (summary Summary, err error) {
	start := time.Now()
	defer func() { summary.Elapsed = time.Since(start) }()

	if err := os.MkdirAll(r.run.OutputDir, 0o755); err != nil {
		return summary, services.Wrap(services.ErrIO, "batch", "create output directory", r.run.OutputDir, err)
	}
	lockPath := filepath.Join(r.run.OutputDir, LockFileName)
	lock := flock.New(lockPath)
	ok, lockErr := lock.TryLock()
	if lockErr != nil {
		return summary, services.Wrap(services.ErrIO, "batch", "acquire lock", lockPath, lockErr)
	}
	if !ok {
		return summary, services.Wrap(services.ErrIO, "batch", "acquire lock",
			"another mediascribe run is writing to "+r.run.OutputDir, nil)
	}
	defer func() {
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to remove output lock", logging.Error(err))
		}
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	r.logger.Info("batch started",
		logging.Int("files", len(files)),
		logging.String("output_dir", r.run.OutputDir),
		logging.Bool("overwrite", r.run.Overwrite),
	)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("batch cancelled", logging.Int("remaining", len(files)-i))
			return summary, err
		}
		fileCtx := services.WithFilePosition(ctx, i+1, len(files))
		fileCtx = services.WithFile(fileCtx, file.Path)
		res := r.processFile(fileCtx, file)
		summary.add(res)
		if err := ctx.Err(); err != nil {
			r.logger.Warn("batch cancelled", logging.Int("remaining", len(files)-i-1))
			return summary, err
		}
		if res.Err != nil && services.IsFatal(res.Err) {
			r.logger.Error("batch aborted",
				logging.Int("remaining", len(files)-i-1),
				logging.Error(res.Err),
			)
			return summary, res.Err
		}
	}

	r.logger.Info("batch finished",
		logging.Int("written", summary.Written),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", time.Since(start)),
	)
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d files failed", services.ErrBatchFailed, summary.Failed, len(files))
	}
	return summary, nil
}

func (r *Runner) processFile(ctx context.Context, file discovery.MediaFile) FileResult {
	logger := logging.WithContext(ctx, r.logger)
	srtPath, textPath := OutputPaths(r.run.OutputDir, file)
	res := FileResult{File: file, SRTPath: srtPath, TextPath: textPath}

	if !r.run.Overwrite {
		exists, err := anyExists(srtPath, textPath)
		if err != nil {
			res.State = StateFailed
			res.Err = services.Wrap(services.ErrIO, "batch", "check outputs", file.Stem, err)
			logger.Error("output check failed", logging.Error(res.Err))
			return res
		}
		if exists {
			res.State = StateSkipped
			logger.Info("outputs exist; skipping", logging.String("srt", srtPath))
			return res
		}
	}

	logger.Info("transcribing", logging.String("language", r.run.Language))
	start := time.Now()
	segments, err := r.model.Transcribe(ctx, file.Path, r.run.Language)
	if err != nil {
		res.State = StateFailed
		res.Elapsed = time.Since(start)
		res.Err = services.Wrap(services.ErrTranscription, "batch", "transcribe", file.Path, err)
		logger.Error("transcription failed",
			logging.Error(err),
			logging.Duration("elapsed", res.Elapsed),
		)
		return res
	}
	res.Segments = len(segments)

	if err := fileutil.WriteFileAtomic(srtPath, subtitles.RenderSRT(segments), 0o644); err != nil {
		res.State = StateFailed
		res.Elapsed = time.Since(start)
		res.Err = services.Wrap(services.ErrIO, "batch", "write subtitles", srtPath, err)
		logger.Error("write failed", logging.Error(err))
		return res
	}
	if err := fileutil.WriteFileAtomic(textPath, subtitles.RenderText(segments), 0o644); err != nil {
		res.State = StateFailed
		res.Elapsed = time.Since(start)
		res.Err = services.Wrap(services.ErrIO, "batch", "write transcript", textPath, err)
		logger.Error("write failed", logging.Error(err))
		return res
	}
	res.State = StateWritten
	res.Elapsed = time.Since(start)

	if r.run.ValidateOutput {
		res.Issues = r.validate(ctx, logger, file, srtPath)
	}

	logger.Info("transcription written",
		logging.Int("segments", res.Segments),
		logging.Duration("elapsed", res.Elapsed),
		logging.String("srt", srtPath),
		logging.String("txt", textPath),
	)
	return res
}

func (r *Runner) validate(ctx context.Context, logger *slog.Logger, file discovery.MediaFile, srtPath string) []string {
	var mediaSeconds float64
	if r.Probe != nil {
		seconds, err := r.Probe(ctx, file.Path)
		if err != nil {
			logger.Debug("duration probe failed", logging.Error(err))
		} else {
			mediaSeconds = seconds
		}
	}
	issues := subtitles.ValidateSRTContent(srtPath, mediaSeconds)
	if len(issues) > 0 {
		logger.Warn("subtitle validation issues", logging.String("issues", strings.Join(issues, "; ")))
	}
	return issues
}

func anyExists(paths ...string) (bool, error) {
	for _, p := range paths {
		exists, err := fileutil.Exists(p)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}
