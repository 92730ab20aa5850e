package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// formatFor maps a file extension to an export format.
func formatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, true
	case ".csv":
		return FormatCSV, true
	}
	return "", false
}

// ScanPath discovers export files at path. A file is returned as is
// when its extension is known; a directory is walked recursively.
// Results are sorted by path so imports are repeatable.
func ScanPath(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		f, ok := formatFor(path)
		if !ok {
			return nil, &UnknownFormatError{Path: path}
		}
		return []DiscoveredFile{{Path: path, Format: f}}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			// skip hidden directories such as .git
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if f, ok := formatFor(p); ok {
			files = append(files, DiscoveredFile{Path: p, Format: f})
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// UnknownFormatError is returned for a file with an unrecognised extension.
type UnknownFormatError struct {
	Path string
}

func (e *UnknownFormatError) Error() string {
	return "unsupported export file " + e.Path + " (want .jsonl, .ndjson or .csv)"
}
