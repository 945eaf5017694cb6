package transcribe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"mediascribe/internal/logging"
)

// Device is the compute target a model is loaded onto.
type Device string

const (
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
)

// Accelerated reports whether the device is a GPU.
func (d Device) Accelerated() bool { return d == DeviceCUDA }

func (d Device) String() string { return string(d) }

// Probe reports whether an accelerated device is available.
type Probe func(ctx context.Context) (bool, error)

// SelectDevice returns cuda when forceCPU is false and the probe finds a
// device. Probe errors fall back to cpu.
func SelectDevice(ctx context.Context, forceCPU bool, probe Probe, logger *slog.Logger) Device {
	logger = logging.NewComponentLogger(logger, "device")
	if forceCPU {
		logger.Info("cpu processing forced")
		return DeviceCPU
	}
	if probe == nil {
		return DeviceCPU
	}
	ok, err := probe(ctx)
	if err != nil {
		logger.Warn("accelerator probe failed; using cpu", logging.Error(err))
		return DeviceCPU
	}
	if !ok {
		logger.Info("no accelerator detected; using cpu")
		return DeviceCPU
	}
	logger.Info("accelerator detected", logging.String("device", string(DeviceCUDA)))
	return DeviceCUDA
}

// NvidiaProbe lists GPUs with `nvidia-smi -L`. A missing binary or a
// non-zero exit means no accelerator rather than an error.
func NvidiaProbe(binary string) Probe {
	if strings.TrimSpace(binary) == "" {
		binary = "nvidia-smi"
	}
	return func(ctx context.Context) (bool, error) {
		path, err := exec.LookPath(binary)
		if err != nil {
			return false, nil
		}
		out, err := exec.CommandContext(ctx, path, "-L").Output() //nolint:gosec
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return false, nil
			}
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, err
		}
		return countGPUs(out) > 0, nil
	}
}

func countGPUs(output []byte) int {
	count := 0
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if strings.HasPrefix(strings.TrimSpace(scanner.Text()), "GPU ") {
			count++
		}
	}
	return count
}
