// Package extension discovers and validates the pluggable extension modules
// of an application. Each extension directory carries a configuration file
// whose declared type is matched against a specification registry; the
// matching specification supplies the configuration schema and the
// entry-point policy.
package extension

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/shipyard-labs/shipyard/internal/specification"
)

// Config is the validated configuration of one extension. Fields beyond the
// common set are specification-specific and land in Extra.
type Config struct {
	Name           string         `toml:"name"`
	Type           string         `toml:"type"`
	Handle         string         `toml:"handle"`
	Description    string         `toml:"description"`
	MinToolVersion string         `toml:"min_tool_version"`
	Extra          map[string]any `toml:",remain"`
}

// Instance is one discovered and validated extension. The Specification
// reference is non-owning: the registry outlives any single load.
type Instance struct {
	Directory         string
	ConfigurationPath string
	Configuration     Config
	Specification     *specification.Specification
	// EntryPoint is the resolved source entry file, empty when the
	// specification uses a multi-file layout or tolerates its absence.
	EntryPoint string
}

var handlePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate applies the domain rules that go beyond the configuration schema
// shape. It runs after construction; failures route through the
// strict/report fork.
func (i *Instance) Validate() error {
	if h := i.Configuration.Handle; h != "" && !handlePattern.MatchString(h) {
		return fmt.Errorf("handle %q must contain only lowercase letters, numbers, and hyphens", h)
	}
	if v := i.Configuration.MinToolVersion; v != "" {
		if _, err := semver.NewConstraint(v); err != nil {
			return fmt.Errorf("min_tool_version %q is not a valid version constraint: %v", v, err)
		}
	}
	return nil
}
