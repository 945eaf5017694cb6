package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// placeholder is the content of every file created by WriteFiles. Discovery
// only looks at names, so the bytes never need to decode.
var placeholder = bytes.Repeat([]byte{0x42}, 16)

// WriteFiles creates placeholder media files at the slash-separated relative
// paths under root, creating parent directories as needed, and returns their
// absolute paths in argument order.
func WriteFiles(t testing.TB, root string, rel ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(rel))
	for _, name := range rel {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, placeholder, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		paths = append(paths, path)
	}
	return paths
}

// WriteExecutable writes a /bin/sh script named name into dir and returns
// its path.
func WriteExecutable(t testing.TB, dir, name, body string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}
