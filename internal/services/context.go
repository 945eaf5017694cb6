package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	fileKey      contextKey = "file"
	fileIndexKey contextKey = "file_index"
)

// WithRunID annotates context with the batch run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFile annotates context with the media file currently being processed.
func WithFile(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, fileKey, path)
}

// FileFromContext returns the media file path if present.
func FileFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(fileKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// FilePosition carries the 1-based index of a file within the batch.
type FilePosition struct {
	Index int
	Count int
}

// WithFilePosition annotates context with the batch position of the current file.
func WithFilePosition(ctx context.Context, index, count int) context.Context {
	if index <= 0 || count <= 0 {
		return ctx
	}
	return context.WithValue(ctx, fileIndexKey, FilePosition{Index: index, Count: count})
}

// FilePositionFromContext returns the batch position if present.
func FilePositionFromContext(ctx context.Context) (FilePosition, bool) {
	pos, ok := ctx.Value(fileIndexKey).(FilePosition)
	return pos, ok
}
