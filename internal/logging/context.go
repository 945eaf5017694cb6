package logging

import (
	"context"
	"log/slog"

	"mediascribe/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one invocation of the batch.
	FieldRunID = "run_id"
	// FieldFile is the media file currently being processed.
	FieldFile = "file"
	// FieldFileIndex is the 1-based position of the file within the batch.
	FieldFileIndex = "file_index"
	// FieldFileCount is the total number of files in the batch.
	FieldFileCount = "file_count"
	FieldError     = "error"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if file, ok := services.FileFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFile, file))
	}
	if pos, ok := services.FilePositionFromContext(ctx); ok {
		fields = append(fields,
			slog.Int(FieldFileIndex, pos.Index),
			slog.Int(FieldFileCount, pos.Count),
		)
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
