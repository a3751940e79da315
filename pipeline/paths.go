package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the file extensions ResolveFiles keeps when the
// caller supplies none.
var DefaultExtensions = []string{".jsonld", ".json"}

// ResolveFiles expands glob patterns to concrete document files.
// Supports single-level (*) and recursive (**) wildcards; non-glob
// arguments must name existing files. Results are deduplicated and keep
// only the given extensions.
func ResolveFiles(patterns []string, extensions []string) ([]string, error) {
	keep := extensionSet(extensions)

	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern, keep)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	return resolved, nil
}

func resolvePattern(pattern string, keep map[string]bool) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory, not a document: %s", absPath)
		}
		// Explicit paths bypass the extension filter.
		return []string{absPath}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		if !keep[strings.ToLower(filepath.Ext(match))] {
			continue
		}
		absPath, err := filepath.Abs(match)
		if err != nil {
			continue
		}
		files = append(files, absPath)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no documents match pattern: %s", pattern)
	}

	return files, nil
}

func extensionSet(extensions []string) map[string]bool {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[strings.ToLower(ext)] = true
	}
	return set
}
