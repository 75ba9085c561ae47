// Package specification describes the catalog of extension kinds the loader
// accepts. A Specification is data: identifier strings, a configuration
// schema, and policy flags the resolver reads. Behavior differences between
// kinds are expressed through those flags, never through methods on the
// specification itself.
package specification

import (
	"fmt"

	"github.com/shipyard-labs/shipyard/internal/confparse"
	"github.com/shipyard-labs/shipyard/internal/diagnostics"
	"github.com/shipyard-labs/shipyard/internal/schemaval"
)

// Specification is one registry entry describing an accepted extension kind.
type Specification struct {
	// Identifier is the primary type string (e.g., "ui_extension").
	Identifier string
	// ExternalIdentifier is the name the publish surface uses, when it
	// differs from Identifier.
	ExternalIdentifier string
	// AdditionalIdentifiers lists legacy or alias type strings.
	AdditionalIdentifiers []string
	// Schema validates the extension's configuration file.
	Schema *schemaval.Schema
	// SingleEntryPoint marks kinds that ship one source entry file rather
	// than a multi-file layout.
	SingleEntryPoint bool
	// Category flags, used only for downstream reporting.
	IsFunction  bool
	IsUIBundled bool
	IsTheme     bool
}

// Matches reports whether typeString names this specification by primary
// identifier, external identifier, or alias.
func (s *Specification) Matches(typeString string) bool {
	if typeString == s.Identifier {
		return true
	}
	if s.ExternalIdentifier != "" && typeString == s.ExternalIdentifier {
		return true
	}
	for _, id := range s.AdditionalIdentifiers {
		if typeString == id {
			return true
		}
	}
	return false
}

// Registry is a read-only catalog of specifications. It is shared across all
// concurrent extension resolutions within one load.
type Registry struct {
	specs []*Specification
}

// NewRegistry builds a registry over the given specifications.
func NewRegistry(specs ...*Specification) *Registry {
	return &Registry{specs: specs}
}

// Specifications returns the registry entries in registration order.
func (r *Registry) Specifications() []*Specification {
	return r.specs
}

// Match returns the specification named by typeString, or nil when no entry
// matches.
func (r *Registry) Match(typeString string) *Specification {
	for _, s := range r.specs {
		if s.Matches(typeString) {
			return s
		}
	}
	return nil
}

// declaredType is the minimal shape read before the full configuration
// schema is known; the schema to validate against depends on which
// specification the declared type matches.
type declaredType struct {
	Type string `toml:"type"`
}

// MatchConfigFile reads just enough of the configuration file at path to
// extract its declared type, and matches it against the registry. An unknown
// type routes through the handler and yields a nil specification on the
// report path.
func (r *Registry) MatchConfigFile(path string, decode confparse.DecodeFunc, h *diagnostics.Handler) (*Specification, error) {
	declared, err := confparse.Parse(typeSchema, path, decode, declaredType{}, h)
	if err != nil {
		return nil, err
	}
	if declared.Type == "" {
		// The problem was already recorded on the report path.
		return nil, nil
	}

	spec := r.Match(declared.Type)
	if spec == nil {
		msg := fmt.Sprintf("unknown extension type %q in %s", declared.Type, path)
		return nil, h.Problem(diagnostics.KindUnknownType, path, msg)
	}
	return spec, nil
}
