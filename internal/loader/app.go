package loader

import (
	_ "embed"

	"github.com/shipyard-labs/shipyard/internal/diagnostics"
	"github.com/shipyard-labs/shipyard/internal/extension"
	"github.com/shipyard-labs/shipyard/internal/metadata"
	"github.com/shipyard-labs/shipyard/internal/schemaval"
	"github.com/shipyard-labs/shipyard/internal/web"
)

//go:embed schema/app.schema.json
var rawAppSchema []byte

// AppSchema validates application configuration files.
var AppSchema = schemaval.MustCompile("app.schema.json", rawAppSchema)

// AppConfig is the parsed, schema-validated root configuration. Immutable
// once parsed.
type AppConfig struct {
	SchemaVersion        string         `toml:"schema_version"`
	Name                 string         `toml:"name"`
	ExtensionDirectories []string       `toml:"extension_directories"`
	WebDirectories       []string       `toml:"web_directories"`
	Extra                map[string]any `toml:",remain"`
}

// Application is the assembled in-memory model of one project. It owns its
// webs, extensions, and error set; extension instances hold non-owning
// references into the caller-supplied specification registry.
type Application struct {
	// Name is the display name: the configured name when set, otherwise
	// the package name, otherwise the root directory's base name.
	Name              string
	Directory         string
	Configuration     AppConfig
	ConfigurationPath string
	PackageManager    string
	Dependencies      []metadata.Dependency
	Webs              []*web.Web
	Extensions        []*extension.Instance
	UsesWorkspaces    bool
	// DotEnv holds the contents of the project's .env file, nil when none
	// exists.
	DotEnv map[string]string

	// Layout flags, used for reporting only.
	UsesCustomExtensionLayout bool
	UsesCustomWebLayout       bool

	// Errors holds the diagnostics accumulated during a report-mode load.
	// A non-empty set means the application is a best-effort model.
	Errors diagnostics.ErrorSet
}

// WebByRole returns the first web declaring the given role, or nil.
func (a *Application) WebByRole(role string) *web.Web {
	for _, w := range a.Webs {
		if w.Configuration.HasRole(role) {
			return w
		}
	}
	return nil
}

// ExtensionsByIdentifier returns the extensions whose specification carries
// the given primary identifier.
func (a *Application) ExtensionsByIdentifier(identifier string) []*extension.Instance {
	var out []*extension.Instance
	for _, inst := range a.Extensions {
		if inst.Specification.Identifier == identifier {
			out = append(out, inst)
		}
	}
	return out
}
