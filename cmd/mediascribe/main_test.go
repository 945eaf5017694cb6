package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediascribe/internal/config"
	"mediascribe/internal/loader"
	"mediascribe/internal/services"
	"mediascribe/internal/testsupport"
	"mediascribe/internal/transcribe"
)

type cliTestEnv struct {
	baseDir    string
	inputDir   string
	outputDir  string
	configPath string
	model      *testsupport.StubModel
	loads      []loader.Options
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("MEDIASCRIBE_FFMPEG", "")
	t.Setenv("OPENAI_API_KEY", "")

	binDir := filepath.Join(base, "bin")
	env := &cliTestEnv{
		baseDir:    base,
		inputDir:   filepath.Join(base, "input"),
		outputDir:  filepath.Join(base, "output"),
		configPath: filepath.Join(base, "config.toml"),
		model: testsupport.NewStubModel(
			transcribe.Segment{Start: 0, End: 1.5, Text: "hello"},
			transcribe.Segment{Start: 1.5, End: 3.2, Text: "world"},
		),
	}
	ffmpeg := testsupport.WriteExecutable(t, binDir, "ffmpeg", "exit 0\n")
	ffprobe := testsupport.WriteExecutable(t, binDir, "ffprobe", "exit 0\n")
	uvx := testsupport.WriteExecutable(t, binDir, "uvx", "exit 0\n")

	content := fmt.Sprintf(`[transcribe]
language = "de"

[tools]
ffmpeg = %q
ffprobe = %q
uvx = %q
nvidia_smi = %q
whisper_cli = %q

[whispercpp]
model_dir = %q

[logging]
level = "error"
`, ffmpeg, ffprobe, uvx,
		filepath.Join(binDir, "missing-nvidia-smi"),
		filepath.Join(binDir, "missing-whisper-cli"),
		filepath.Join(base, "models"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	prevLoad := loadModel
	prevProbe := acceleratorProbe
	loadModel = func(_ context.Context, opts loader.Options) (transcribe.Model, error) {
		env.loads = append(env.loads, opts)
		return env.model, nil
	}
	acceleratorProbe = func(*config.Config) transcribe.Probe {
		return func(context.Context) (bool, error) { return false, nil }
	}
	t.Cleanup(func() {
		loadModel = prevLoad
		acceleratorProbe = prevProbe
	})
	return env
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRunTranscribesDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.inputDir, "b/episode.mkv", "a.MP3", "notes.txt")

	stdout, _, err := env.run(t, "-i", env.inputDir, "-o", env.outputDir, "-m", "small")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	srt, err := os.ReadFile(filepath.Join(env.outputDir, "episode.srt"))
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	if string(srt) != "1\n00:00:00,000 --> 00:00:01,500\nhello\n\n2\n00:00:01,500 --> 00:00:03,200\nworld\n\n" {
		t.Fatalf("unexpected srt %q", srt)
	}
	txt, err := os.ReadFile(filepath.Join(env.outputDir, "a.txt"))
	if err != nil || string(txt) != "hello\nworld" {
		t.Fatalf("unexpected txt %q (%v)", txt, err)
	}

	calls := env.model.Calls()
	if len(calls) != 2 || filepath.Base(calls[0].Path) != "a.MP3" || calls[0].Language != "de" {
		t.Fatalf("unexpected calls %+v", calls)
	}
	if len(env.loads) != 1 || env.loads[0].ModelSize != "small" || env.loads[0].Device != transcribe.DeviceCPU {
		t.Fatalf("unexpected load options %+v", env.loads)
	}
	if env.model.Closed() != 1 {
		t.Fatalf("expected model closed once, got %d", env.model.Closed())
	}
	if !strings.Contains(stdout, "2 written, 0 skipped, 0 failed") {
		t.Fatalf("expected summary line, got %q", stdout)
	}
}

func TestRunOutputDefaultsToInput(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.inputDir, "clip.wav")

	if _, _, err := env.run(t, "-i", env.inputDir); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.inputDir, "clip.srt")); err != nil {
		t.Fatalf("expected srt next to media: %v", err)
	}
}

func TestRunSkipExisting(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.inputDir, "clip.wav")
	if err := os.MkdirAll(env.outputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(env.outputDir, "clip.srt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, flag := range []string{"--skip-existing", "--force=false"} {
		stdout, _, err := env.run(t, "-i", env.inputDir, "-o", env.outputDir, flag)
		if err != nil {
			t.Fatalf("%s: run returned error: %v", flag, err)
		}
		if !strings.Contains(stdout, "0 written, 1 skipped") {
			t.Fatalf("%s: unexpected summary %q", flag, stdout)
		}
	}
	if len(env.model.Calls()) != 0 {
		t.Fatalf("expected no transcription calls, got %+v", env.model.Calls())
	}
}

func TestRunUsageErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	emptyDir := filepath.Join(env.baseDir, "empty")
	testsupport.WriteFiles(t, emptyDir, "readme.md")

	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{"-i", filepath.Join(env.baseDir, "nope")}},
		{"no media", []string{"-i", emptyDir}},
		{"unknown flag", []string{"--bogus"}},
		{"bad backend", []string{"-i", emptyDir, "-b", "kaldi"}},
		{"conflicting force", []string{"-i", emptyDir, "--force", "--skip-existing"}},
		{"positional arg", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(t, tt.args...)
			if code := services.ExitCode(err); code != services.ExitUsage {
				t.Fatalf("expected exit %d, got %d (%v)", services.ExitUsage, code, err)
			}
		})
	}
	if len(env.loads) != 0 {
		t.Fatal("model must not be loaded on usage errors")
	}
}

func TestRunLoadFailureIsFatal(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.inputDir, "clip.wav")
	loadModel = func(context.Context, loader.Options) (transcribe.Model, error) {
		return nil, services.Wrap(services.ErrLoad, "loader", "load model", "", errors.New("out of memory"))
	}

	_, _, err := env.run(t, "-i", env.inputDir)
	if !errors.Is(err, services.ErrLoad) || services.ExitCode(err) != services.ExitFailure {
		t.Fatalf("expected load error with exit 1, got %v", err)
	}
}

func TestRunPartialFailureExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.inputDir, "a.wav", "b.wav")
	env.model.Errors["a.wav"] = errors.New("corrupt")

	stdout, _, err := env.run(t, "-i", env.inputDir, "-o", env.outputDir)
	if !errors.Is(err, services.ErrBatchFailed) || services.ExitCode(err) != services.ExitFailure {
		t.Fatalf("expected batch failure, got %v", err)
	}
	if !strings.Contains(stdout, "1 written, 0 skipped, 1 failed") {
		t.Fatalf("unexpected summary %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(env.outputDir, "b.srt")); err != nil {
		t.Fatalf("expected b.srt despite a.wav failing: %v", err)
	}
}

func TestRunMissingBackendBinaryIsLoadError(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.inputDir, "a.wav")

	_, _, err := env.run(t, "-i", env.inputDir, "-b", "whispercpp")
	if !errors.Is(err, services.ErrLoad) || !strings.Contains(err.Error(), "whisper-cli") {
		t.Fatalf("expected missing whisper-cli load error, got %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "generated", "mediascribe.toml")

	stdout, _, err := env.run(t, "config", "init", target)
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(stdout, target) {
		t.Fatalf("expected target path in output, got %q", stdout)
	}
	if _, _, err := env.run(t, "config", "init", target); services.ExitCode(err) != services.ExitUsage {
		t.Fatalf("expected usage error for existing config, got %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	withKey := strings.Replace(string(data), `api_key = ""`, `api_key = "sk-secret"`, 1)
	if err := os.WriteFile(target, []byte(withKey), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", target, "config", "show"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	if strings.Contains(out.String(), "sk-secret") || !strings.Contains(out.String(), redacted) {
		t.Fatalf("expected api key redacted, got %q", out.String())
	}
	if !strings.Contains(out.String(), "[transcribe]") {
		t.Fatalf("expected toml output, got %q", out.String())
	}
}

func TestDoctorReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFiles(t, env.inputDir, "a.wav")

	stdout, _, err := env.run(t, "doctor", "-i", env.inputDir)
	if err != nil {
		t.Fatalf("doctor returned error: %v\n%s", err, stdout)
	}
	for _, want := range []string{"FFmpeg", "uvx", "Accelerator", "All required checks passed"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("doctor output missing %q:\n%s", want, stdout)
		}
	}

	stdout, _, err = env.run(t, "doctor", "-i", env.inputDir, "-b", "whispercpp")
	if err == nil || services.ExitCode(err) != services.ExitFailure {
		t.Fatalf("expected doctor failure for whispercpp, got %v", err)
	}
	if !strings.Contains(stdout, "FAIL") {
		t.Fatalf("expected FAIL rows, got:\n%s", stdout)
	}
}

func TestModelsDownload(t *testing.T) {
	env := setupCLITestEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ggml-tiny.bin" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ggml-model"))
	}))
	defer srv.Close()

	dir := filepath.Join(env.baseDir, "dl")
	stdout, _, err := env.run(t, "models", "download", "tiny", "--dir", dir, "--base-url", srv.URL)
	if err != nil {
		t.Fatalf("models download returned error: %v", err)
	}
	if !strings.Contains(stdout, "Downloaded") {
		t.Fatalf("unexpected output %q", stdout)
	}
	if data, err := os.ReadFile(filepath.Join(dir, "ggml-tiny.bin")); err != nil || string(data) != "ggml-model" {
		t.Fatalf("unexpected model file %q (%v)", data, err)
	}
}
