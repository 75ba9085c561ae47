// Package metadata derives package information for a project directory: the
// declared package name, its dependencies, the dependency manager in use,
// and whether the project is a workspace.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Dependency manager identifiers.
const (
	ManagerNPM  = "npm"
	ManagerYarn = "yarn"
	ManagerPNPM = "pnpm"
)

// Dependency is one declared package dependency.
type Dependency struct {
	Name    string
	Version string
}

type packageFile struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	// Workspaces is either an array of globs or an object with a
	// "packages" key; presence is all that matters here.
	Workspaces json.RawMessage `json:"workspaces"`
}

// readPackageFile parses dir/package.json. A missing file yields a zero
// value, not an error.
func readPackageFile(dir string) (packageFile, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return packageFile{}, nil
		}
		return packageFile{}, fmt.Errorf("reading package.json in %s: %w", dir, err)
	}

	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return packageFile{}, fmt.Errorf("parsing package.json in %s: %w", dir, err)
	}
	return pkg, nil
}

// PackageName returns the declared package name, or "" when no package file
// exists or it declares none.
func PackageName(dir string) (string, error) {
	pkg, err := readPackageFile(dir)
	if err != nil {
		return "", err
	}
	return pkg.Name, nil
}

// Dependencies returns the declared dependencies and dev dependencies,
// sorted by name.
func Dependencies(dir string) ([]Dependency, error) {
	pkg, err := readPackageFile(dir)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name, version := range pkg.DevDependencies {
		merged[name] = version
	}
	for name, version := range pkg.Dependencies {
		merged[name] = version
	}

	deps := make([]Dependency, 0, len(merged))
	for name, version := range merged {
		deps = append(deps, Dependency{Name: name, Version: version})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

// DependencyManager identifies the package manager from the lockfile present
// in dir. npm is the default when no lockfile gives a stronger signal.
func DependencyManager(dir string) string {
	if fileExists(filepath.Join(dir, "pnpm-lock.yaml")) {
		return ManagerPNPM
	}
	if fileExists(filepath.Join(dir, "yarn.lock")) {
		return ManagerYarn
	}
	return ManagerNPM
}

// UsesWorkspaces reports whether the project declares package workspaces.
func UsesWorkspaces(dir string) (bool, error) {
	if fileExists(filepath.Join(dir, "pnpm-workspace.yaml")) {
		return true, nil
	}
	pkg, err := readPackageFile(dir)
	if err != nil {
		return false, err
	}
	return len(pkg.Workspaces) > 0 && string(pkg.Workspaces) != "null", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
