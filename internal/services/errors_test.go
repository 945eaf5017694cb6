package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"mediascribe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscription, "whisperx", "transcribe", "uvx exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"whisperx", "transcribe", "uvx exited"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, services.ExitOK},
		{"usage", services.Usagef("input %q is not a directory", "/x"), services.ExitUsage},
		{"wrapped usage", fmt.Errorf("discover: %w", services.Usagef("no media")), services.ExitUsage},
		{"load", services.Wrap(services.ErrLoad, "loader", "open", "", errors.New("x")), services.ExitFailure},
		{"batch", services.ErrBatchFailed, services.ExitFailure},
		{"plain", errors.New("other"), services.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrLoad, "loader", "", "", nil)) {
		t.Fatal("expected load errors to be fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrTranscription, "batch", "", "", nil)) {
		t.Fatal("expected transcription errors to be per-file")
	}
	if services.IsFatal(services.Wrap(services.ErrIO, "batch", "write", "", nil)) {
		t.Fatal("expected io errors to be per-file")
	}
}
