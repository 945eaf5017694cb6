package transcribe

import "context"

// Segment is a contiguous span of transcribed speech. Start and End are
// seconds from the beginning of the media.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Model is a loaded speech-recognition model. Implementations return
// segments in chronological order.
type Model interface {
	Transcribe(ctx context.Context, path, language string) ([]Segment, error)
	Close() error
}

// ModelFunc adapts a function into a Model with a no-op Close.
type ModelFunc func(ctx context.Context, path, language string) ([]Segment, error)

func (f ModelFunc) Transcribe(ctx context.Context, path, language string) ([]Segment, error) {
	return f(ctx, path, language)
}

func (ModelFunc) Close() error { return nil }
