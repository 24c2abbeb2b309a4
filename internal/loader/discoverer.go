package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/flowforge/reflow-engine/internal/core"
)

// DefaultGlob matches every JSON document under an input directory.
const DefaultGlob = "**/*.json"

// discoverFiles globs pattern under root and returns the matched regular
// files, rejecting any match whose path lies outside root. The check is
// lexical: symlinks are not resolved.
func discoverFiles(root, pattern string) ([]string, error) {
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}
	fullPattern := filepath.Join(root, pattern)
	matches, err := doublestar.FilepathGlob(fullPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	files := make([]string, 0, len(matches))
	for _, match := range matches {
		rel, relErr := filepath.Rel(root, match)
		if relErr != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
			return nil, core.NewError(nil, "PATH_ESCAPE_ATTEMPT", map[string]any{
				"file": match,
				"root": root,
			})
		}
		info, statErr := os.Stat(match)
		if statErr != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}
	return files, nil
}

// validatePattern rejects absolute paths and parent-directory references in
// a glob pattern before it ever reaches the filesystem.
func validatePattern(pattern string) error {
	clean := filepath.Clean(pattern)
	if filepath.IsAbs(clean) {
		return fmt.Errorf("invalid glob pattern: absolute paths not allowed: %s", pattern)
	}
	for _, part := range strings.Split(clean, string(filepath.Separator)) {
		if part == ".." {
			return fmt.Errorf("invalid glob pattern: parent directory references not allowed: %s", pattern)
		}
	}
	return nil
}
