package openaiasr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mediascribe/internal/logging"
	"mediascribe/internal/media/audio"
	"mediascribe/internal/services"
	"mediascribe/internal/testsupport"
)

const verboseResponse = `{
  "task": "transcribe",
  "language": "german",
  "duration": 4.2,
  "text": "Hallo Welt. Noch ein Satz.",
  "segments": [
    {"id": 0, "seek": 0, "start": 0.0, "end": 1.8, "text": " Hallo Welt.", "tokens": [], "temperature": 0, "avg_logprob": -0.2, "compression_ratio": 1.1, "no_speech_prob": 0.01},
    {"id": 1, "seek": 0, "start": 1.8, "end": 4.2, "text": " Noch ein Satz.", "tokens": [], "temperature": 0, "avg_logprob": -0.2, "compression_ratio": 1.1, "no_speech_prob": 0.01}
  ]
}`

type recordedRequest struct {
	path   string
	fields map[string]string
	file   string
}

func newAPIServer(t *testing.T, status int, body string) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{path: r.URL.Path, fields: map[string]string{}}
		if r.Method == http.MethodPost {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			for key, values := range r.MultipartForm.Value {
				rec.fields[key] = values[0]
			}
			if f, hdr, err := r.FormFile("file"); err == nil {
				rec.file = hdr.Filename
				_, _ = io.Copy(io.Discard, f)
				_ = f.Close()
			}
		}
		mu.Lock()
		requests = append(requests, rec)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/models/") {
			_, _ = io.WriteString(w, `{"id":"whisper-1","object":"model","created":0,"owned_by":"openai"}`)
			return
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func stubFFmpeg(t *testing.T) string {
	t.Helper()
	return testsupport.WriteExecutable(t, t.TempDir(), "ffmpeg", "for last; do :; done\nprintf 'ID3' > \"$last\"\n")
}

func TestLoadRequiresAPIKey(t *testing.T) {
	svc := NewService(Config{}, audio.Tools{FFmpeg: stubFFmpeg(t)}, logging.NewNop())
	if err := svc.Load(context.Background()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if err := svc.HealthCheck(context.Background()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey from health check, got %v", err)
	}
}

func TestTranscribeUploadsCompressedAudio(t *testing.T) {
	srv, requests := newAPIServer(t, http.StatusOK, verboseResponse)
	svc := NewService(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Timeout: 5 * time.Second},
		audio.Tools{FFmpeg: stubFFmpeg(t)}, logging.NewNop())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	defer svc.Close()

	segments, err := svc.Transcribe(context.Background(), "/media/film.mkv", "German")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[1].Start != 1.8 || segments[1].End != 4.2 || segments[1].Text != " Noch ein Satz." {
		t.Fatalf("unexpected segment %+v", segments[1])
	}

	got := requests()
	if len(got) != 1 || got[0].path != "/audio/transcriptions" {
		t.Fatalf("unexpected requests %+v", got)
	}
	fields := got[0].fields
	if fields["model"] != DefaultModel || fields["language"] != "de" || fields["response_format"] != "verbose_json" {
		t.Fatalf("unexpected form fields %v", fields)
	}
	if !strings.HasSuffix(got[0].file, ".mp3") {
		t.Fatalf("expected mp3 upload, got %q", got[0].file)
	}
}

func TestTranscribeFallsBackToFullText(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusOK, `{"language":"english","duration":3.5,"text":" just text "}`)
	svc := NewService(Config{APIKey: "sk-test", BaseURL: srv.URL}, audio.Tools{FFmpeg: stubFFmpeg(t)}, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	segments, err := svc.Transcribe(context.Background(), "/media/a.mp3", "")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(segments) != 1 || segments[0].End != 3.5 || segments[0].Text != "just text" {
		t.Fatalf("unexpected segments %+v", segments)
	}
}

func TestTranscribeSurfacesAPIErrors(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	svc := NewService(Config{APIKey: "sk-bad", BaseURL: srv.URL}, audio.Tools{FFmpeg: stubFFmpeg(t)}, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Transcribe(context.Background(), "/media/a.mp3", "en")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if !errors.Is(err, services.ErrConfiguration) || !services.IsFatal(err) {
		t.Fatalf("expected rejected key to be a fatal configuration error, got %v", err)
	}
}

func TestTranscribeServerErrorIsNotFatal(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusBadRequest, `{"error":{"message":"unsupported file","type":"invalid_request_error"}}`)
	svc := NewService(Config{APIKey: "sk-test", BaseURL: srv.URL}, audio.Tools{FFmpeg: stubFFmpeg(t)}, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Transcribe(context.Background(), "/media/a.mp3", "en")
	if err == nil || services.IsFatal(err) {
		t.Fatalf("expected a per-file error, got %v", err)
	}
}

func TestTranscribeRequiresLoad(t *testing.T) {
	svc := NewService(Config{APIKey: "sk"}, audio.Tools{}, nil)
	if _, err := svc.Transcribe(context.Background(), "a.mp3", "en"); !errors.Is(err, services.ErrLoad) {
		t.Fatalf("expected load error before Load, got %v", err)
	}
}

func TestHealthCheckQueriesModel(t *testing.T) {
	srv, requests := newAPIServer(t, http.StatusOK, "{}")
	svc := NewService(Config{APIKey: "sk-test", BaseURL: srv.URL}, audio.Tools{}, nil)
	if err := svc.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
	got := requests()
	if len(got) != 1 || got[0].path != "/models/whisper-1" {
		t.Fatalf("unexpected requests %+v", got)
	}
}
