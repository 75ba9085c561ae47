// Package project locates the root of a Shipyard application on disk. The
// root is the nearest ancestor directory (inclusive of the starting
// directory) containing an application configuration file.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/shipyard-labs/shipyard/internal/branding"
	"github.com/shipyard-labs/shipyard/internal/diagnostics"
)

const (
	appConfigInfix      = "app"
	configFileExtension = ".toml"
)

var appConfigPattern = regexp.MustCompile(
	`^` + regexp.QuoteMeta(branding.FilePrefix()) + `\.app(\.[\w-]+)?\.toml$`,
)

// AppConfigurationFileName returns the configuration file name for the given
// variant name. An empty name yields the default file (shipyard.app.toml); a
// non-empty name yields the discriminated form (shipyard.app.<name>.toml).
func AppConfigurationFileName(name string) string {
	if name == "" {
		return branding.FilePrefix() + "." + appConfigInfix + configFileExtension
	}
	return branding.FilePrefix() + "." + appConfigInfix + "." + name + configFileExtension
}

// WebConfigurationFileName returns the per-web configuration file name
// (shipyard.web.toml).
func WebConfigurationFileName() string {
	return branding.FilePrefix() + ".web" + configFileExtension
}

// ExtensionConfigurationFileName returns the per-extension configuration file
// name (shipyard.extension.toml).
func ExtensionConfigurationFileName() string {
	return branding.FilePrefix() + ".extension" + configFileExtension
}

// IsAppConfigurationFileName reports whether name is an application
// configuration file, with or without a variant discriminator.
func IsAppConfigurationFileName(name string) bool {
	return appConfigPattern.MatchString(name)
}

// FindRoot walks upward from start, inclusive, and returns the first ancestor
// directory containing an application configuration file. It fails with a
// NotFound error when start does not exist, and with a different NotFound
// error when the filesystem root is reached without a match.
func FindRoot(start string) (string, error) {
	info, err := os.Stat(start)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", diagnostics.NewError(diagnostics.KindNotFound, start,
				fmt.Sprintf("directory %s does not exist", start))
		}
		return "", fmt.Errorf("inspecting directory %s: %w", start, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", start)
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		ok, err := containsAppConfiguration(dir)
		if err != nil {
			return "", err
		}
		if ok {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", diagnostics.NewError(diagnostics.KindNotFound, start,
				fmt.Sprintf("couldn't find an application configuration file in %s or any of its parent directories", start))
		}
		dir = parent
	}
}

// FindAppConfigurationFile returns the path of the configuration file for the
// given variant name inside root, or a NotFound error if it does not exist.
func FindAppConfigurationFile(root, name string) (string, error) {
	path := filepath.Join(root, AppConfigurationFileName(name))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", diagnostics.NewError(diagnostics.KindNotFound, path,
				fmt.Sprintf("couldn't find the configuration file at %s", path))
		}
		return "", fmt.Errorf("inspecting %s: %w", path, err)
	}
	return path, nil
}

// containsAppConfiguration reports whether dir holds at least one file whose
// name matches the application configuration pattern.
func containsAppConfiguration(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable ancestors end the walk rather than aborting the load.
		if errors.Is(err, fs.ErrPermission) {
			return false, nil
		}
		return false, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsAppConfigurationFileName(entry.Name()) {
			return true, nil
		}
	}
	return false, nil
}
