// Package web discovers the web sub-projects of an application: the
// frontend and backend processes and any auxiliary background workers. Each
// sub-project directory carries a configuration file declaring its roles and
// commands.
package web

import (
	_ "embed"
	"slices"

	"github.com/shipyard-labs/shipyard/internal/schemaval"
)

// Roles a web may declare.
const (
	RoleBackend    = "backend"
	RoleFrontend   = "frontend"
	RoleBackground = "background"
)

//go:embed schema/web.schema.json
var rawWebSchema []byte

// Schema validates web configuration files.
var Schema = schemaval.MustCompile("web.schema.json", rawWebSchema)

// Commands are the lifecycle commands a web declares.
type Commands struct {
	Dev   string `toml:"dev"`
	Build string `toml:"build"`
}

// Config is the normalized configuration of one web.
type Config struct {
	Name string `toml:"name"`
	// Type is the legacy singular role field. Normalization unions it into
	// Roles and clears it; it never survives into an assembled application.
	Type     string         `toml:"type"`
	Roles    []string       `toml:"roles"`
	Commands Commands       `toml:"commands"`
	Extra    map[string]any `toml:",remain"`
}

// normalize converges the legacy single-role declaration and the multi-role
// declaration on one representation: the legacy type joins the role set and
// the legacy field is dropped.
func (c *Config) normalize() {
	if c.Type != "" && !slices.Contains(c.Roles, c.Type) {
		c.Roles = append(c.Roles, c.Type)
	}
	c.Type = ""
}

// HasRole reports whether the web declares the given role.
func (c *Config) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Web is one discovered sub-project.
type Web struct {
	Directory         string
	ConfigurationPath string
	Configuration     Config
	// Framework is the detected build framework identifier, empty when
	// detection found nothing recognizable.
	Framework string
}
