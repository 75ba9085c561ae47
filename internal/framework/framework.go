// Package framework detects the build framework of a web directory by
// inspecting its declared package dependencies. Detection is best-effort: an
// unrecognizable or absent package file yields an empty identifier, never an
// error.
package framework

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Known framework identifiers, probed in priority order so meta-frameworks
// win over the libraries they build on (e.g., a Next.js app also depends on
// react).
var probes = []struct {
	dependency string
	identifier string
}{
	{"next", "next"},
	{"@remix-run/react", "remix"},
	{"express", "express"},
	{"fastify", "fastify"},
	{"vite", "vite"},
	{"react", "react"},
}

type packageFile struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Detect returns the framework identifier for dir, or "" when none is
// recognized.
func Detect(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}

	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}

	for _, probe := range probes {
		if _, ok := pkg.Dependencies[probe.dependency]; ok {
			return probe.identifier
		}
		if _, ok := pkg.DevDependencies[probe.dependency]; ok {
			return probe.identifier
		}
	}
	return ""
}
