// Package fsglob enumerates configuration files under a project root. Both
// the web and extension resolvers use the same strategy: walk the tree,
// prune dependency caches, and keep files whose directory matches one of the
// caller's glob patterns.
package fsglob

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// dependency caches are never searched, regardless of the declared patterns.
const excludedDir = "node_modules"

// FindConfigurationFiles returns the paths of every file named fileName whose
// parent directory, relative to root, matches one of patterns. Patterns use
// glob syntax ("*", "web/*", "extensions/**"). The result is sorted so the
// output order is stable for a fixed filesystem state.
func FindConfigurationFiles(root string, patterns []string, fileName string) ([]string, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid directory pattern %q", p)
		}
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if d.IsDir() {
			if d.Name() == excludedDir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != fileName {
			return nil
		}

		relDir, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return nil
		}
		relDir = filepath.ToSlash(relDir)
		if relDir == "." {
			// Configuration files sit in a component directory, never at
			// the root itself.
			return nil
		}

		for _, p := range patterns {
			ok, err := doublestar.Match(p, relDir)
			if err != nil {
				continue
			}
			if ok {
				matches = append(matches, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerating %s files under %s: %w", fileName, root, err)
	}

	sort.Strings(matches)
	return matches, nil
}
