package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"mediascribe/internal/config"
	"mediascribe/internal/deps"
	"mediascribe/internal/media/audio"
	"mediascribe/internal/services/openaiasr"
	"mediascribe/internal/services/whispercpp"
	"mediascribe/internal/transcribe"
)

// CheckOpenAI verifies that the transcription API is reachable and the key
// is valid. It uses a 30-second timeout and a single attempt.
func CheckOpenAI(ctx context.Context, cfg config.OpenAI) Result {
	const name = "OpenAI API"
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	svc := openaiasr.NewService(openaiasr.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: 30 * time.Second,
	}, audio.Tools{}, nil)
	if err := svc.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeAPIError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("model %s reachable", cfg.Model)}
}

// CheckInputDirectory verifies that the directory exists and can be listed.
func CheckInputDirectory(name, path string) Result {
	if res, ok := statDir(name, path); !ok {
		return res
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if res, ok := statDir(name, path); !ok {
		return res
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory accepts an existing writable directory, or a missing
// one whose nearest existing parent is writable.
func CheckOutputDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

func statDir(name, path string) (Result, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}, false
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}, false
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}, false
	}
	return Result{}, true
}

// CheckAccelerator reports whether a CUDA device is visible. A missing GPU
// is not a failure; transcription falls back to the cpu.
func CheckAccelerator(ctx context.Context, probe transcribe.Probe) Result {
	const name = "Accelerator"
	if probe == nil {
		return Result{Name: name, Passed: true, Detail: "not probed (cpu)"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	ok, err := probe(checkCtx)
	switch {
	case err != nil:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("probe failed, cpu will be used (%v)", err)}
	case ok:
		return Result{Name: name, Passed: true, Detail: "cuda available"}
	default:
		return Result{Name: name, Passed: true, Detail: "no gpu detected, cpu will be used"}
	}
}

// CheckWhisperCPPModel verifies that the ggml model file for size exists.
func CheckWhisperCPPModel(modelDir, size string) Result {
	const name = "whisper.cpp model"
	path := whispercpp.ModelPath(modelDir, size)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (missing; run `mediascribe models download %s`)", path, size)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() || info.Size() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a model file)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MB)", path, info.Size()>>20)}
}

// CheckSystemDeps evaluates the executables needed by the selected backend.
// Both the run command and the doctor command use this to avoid duplicating
// the requirements list.
func CheckSystemDeps(cfg *config.Config, run config.RunConfig) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     run.FFmpegPath,
			Description: "Required to decode media audio",
		},
		{
			Name:        "FFprobe",
			Command:     run.FFprobePath,
			Description: "Selects the audio stream and checks output duration",
			Optional:    !run.ValidateOutput,
		},
	}
	switch run.Backend {
	case config.BackendWhisperX:
		requirements = append(requirements,
			deps.Requirement{
				Name:        "uvx",
				Command:     cfg.UVXBinary(),
				Description: "Required for WhisperX-driven transcription",
			},
			deps.Requirement{
				Name:        "nvidia-smi",
				Command:     cfg.NvidiaSMIBinary(),
				Description: "Detects CUDA devices",
				Optional:    true,
			},
		)
	case config.BackendWhisperCPP:
		requirements = append(requirements,
			deps.Requirement{
				Name:        "whisper-cli",
				Command:     cfg.WhisperCLIBinary(),
				Description: "Required for whisper.cpp transcription",
			},
			deps.Requirement{
				Name:        "nvidia-smi",
				Command:     cfg.NvidiaSMIBinary(),
				Description: "Detects CUDA devices",
				Optional:    true,
			},
		)
	}
	return deps.CheckBinaries(requirements)
}

// summarizeAPIError produces a human-readable summary for API health check failures.
func summarizeAPIError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	return err.Error()
}
