package extension

import (
	"os"
	"path/filepath"

	"github.com/shipyard-labs/shipyard/internal/specification"
)

// Candidate entry files, probed in order; the first existing one wins.
var (
	singleEntryPoints = []string{
		"index.js", "index.jsx", "index.ts", "index.tsx",
		"src/index.js", "src/index.jsx", "src/index.ts", "src/index.tsx",
	}
	functionEntryPoints = []string{
		"src/index.js", "src/index.ts", "src/main.rs",
	}
)

// resolveEntryPoint probes the directory for the entry file the
// specification expects. required reports whether absence is a problem:
// single-entry-point kinds must have one, functions may supply their entry
// point from elsewhere.
func resolveEntryPoint(dir string, spec *specification.Specification) (path string, required bool) {
	switch {
	case spec.SingleEntryPoint:
		return probe(dir, singleEntryPoints), true
	case spec.IsFunction:
		return probe(dir, functionEntryPoints), false
	default:
		return "", false
	}
}

// probe returns the first existing candidate joined to dir, or "".
func probe(dir string, candidates []string) string {
	for _, c := range candidates {
		path := filepath.Join(dir, filepath.FromSlash(c))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
