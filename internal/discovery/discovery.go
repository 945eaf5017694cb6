package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mediascribe/internal/fileutil"
	"mediascribe/internal/services"
)

var videoExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".wmv"}

var audioExtensions = []string{".mp3", ".wav", ".flac", ".aac", ".m4a"}

var mediaExtensions = func() map[string]struct{} {
	set := make(map[string]struct{}, len(videoExtensions)+len(audioExtensions))
	for _, ext := range videoExtensions {
		set[ext] = struct{}{}
	}
	for _, ext := range audioExtensions {
		set[ext] = struct{}{}
	}
	return set
}()

// MediaFile is a discovered audio or video file.
type MediaFile struct {
	Path string
	Stem string
}

// Extensions returns the supported extensions, video first, each with a
// leading dot.
func Extensions() []string {
	out := make([]string, 0, len(videoExtensions)+len(audioExtensions))
	out = append(out, videoExtensions...)
	return append(out, audioExtensions...)
}

// IsMedia reports whether path carries a supported extension, ignoring case.
func IsMedia(path string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Discover walks inputDir recursively and returns every regular media file,
// including symlinks to one, sorted by full path. A missing directory or an empty result is a usage
// error.
func Discover(inputDir string) ([]MediaFile, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Usagef("input directory %q does not exist", inputDir)
		}
		return nil, services.Wrap(services.ErrIO, "discovery", "stat input", inputDir, err)
	}
	if !info.IsDir() {
		return nil, services.Usagef("input path %q is not a directory", inputDir)
	}

	var files []MediaFile
	err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !IsMedia(path) || !isRegularFile(path, d) {
			return nil
		}
		files = append(files, MediaFile{Path: path, Stem: fileutil.Stem(path)})
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "discovery", "walk input", inputDir, fmt.Errorf("walk: %w", err))
	}
	if len(files) == 0 {
		return nil, services.Usagef("no media files found in %q", inputDir)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// isRegularFile reports whether d is a regular file. Symlinks are followed;
// links to directories or dangling links are not media.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
