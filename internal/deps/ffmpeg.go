package deps

import (
	"os"
	"path/filepath"
	"strings"
)

// ToolDir returns the directory containing an explicitly configured
// executable. Bare command names resolved from PATH return "".
func ToolDir(command string) string {
	command = strings.TrimSpace(command)
	if command == "" || !strings.ContainsRune(command, os.PathSeparator) {
		return ""
	}
	return filepath.Dir(command)
}

// ChildEnv returns a copy of env with dir prepended to PATH. It is used for
// child processes that locate a tool on their own, such as WhisperX finding
// ffmpeg, so the parent's environment is never mutated. A blank dir or one
// already on PATH returns env unchanged.
func ChildEnv(env []string, dir string) []string {
	out := append([]string(nil), env...)
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return out
	}
	for i, kv := range out {
		value, ok := strings.CutPrefix(kv, "PATH=")
		if !ok {
			continue
		}
		for _, entry := range filepath.SplitList(value) {
			if filepath.Clean(entry) == filepath.Clean(dir) {
				return out
			}
		}
		if value == "" {
			out[i] = "PATH=" + dir
		} else {
			out[i] = "PATH=" + dir + string(os.PathListSeparator) + value
		}
		return out
	}
	return append(out, "PATH="+dir)
}
