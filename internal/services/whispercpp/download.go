package whispercpp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ModelBaseURL hosts the ggml model files.
const ModelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// ModelURL returns the download URL for a model size such as "base" or
// "large-v3-turbo-q5_0".
func ModelURL(base, model string) (string, error) {
	if base == "" {
		base = ModelBaseURL
	}
	name := filepath.Base(ModelPath("", model))
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = fmt.Sprintf("%s/%s", strings.TrimSuffix(u.Path, "/"), name)
	return u.String(), nil
}

// Downloader fetches ggml models into a directory.
type Downloader struct {
	Client  *http.Client
	BaseURL string
	Dir     string
}

// Download fetches model into d.Dir and returns its path. An existing file
// with the advertised size is kept. Partial downloads are removed.
func (d Downloader) Download(ctx context.Context, model string) (string, bool, error) {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	modelURL, err := ModelURL(d.BaseURL, model)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create model dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelURL, nil)
	if err != nil {
		return "", false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("%s: %s", modelURL, resp.Status)
	}

	path := ModelPath(d.Dir, model)
	if info, err := os.Stat(path); err == nil && info.Size() == resp.ContentLength {
		return path, false, nil
	}

	tmp, err := os.CreateTemp(d.Dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return "", false, err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", false, fmt.Errorf("download %s: %w", modelURL, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", false, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", false, err
	}
	return path, true, nil
}
