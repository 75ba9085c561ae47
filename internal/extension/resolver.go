package extension

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/shipyard-labs/shipyard/internal/confparse"
	"github.com/shipyard-labs/shipyard/internal/diagnostics"
	"github.com/shipyard-labs/shipyard/internal/fsglob"
	"github.com/shipyard-labs/shipyard/internal/project"
	"github.com/shipyard-labs/shipyard/internal/specification"
)

// defaultPatterns searches every first-level directory under the root when
// the application declares no extension directories.
var defaultPatterns = []string{"*"}

// Resolver discovers extension configuration files and produces instances.
type Resolver struct {
	Registry *specification.Registry
	Handler  *diagnostics.Handler
	// Decode defaults to confparse.DecodeTOML.
	Decode confparse.DecodeFunc
}

// Resolve enumerates extension configuration files under root, matching the
// declared directory patterns (or the default wildcard), and resolves each
// one independently. Entries whose declared type matches no specification are
// absent from the result but visible through the handler's error set.
// usedCustomLayout reports whether the caller supplied explicit directories.
func (r *Resolver) Resolve(ctx context.Context, root string, declared []string) (instances []*Instance, usedCustomLayout bool, err error) {
	decode := r.Decode
	if decode == nil {
		decode = confparse.DecodeTOML
	}

	usedCustomLayout = len(declared) > 0
	patterns := declared
	if !usedCustomLayout {
		patterns = defaultPatterns
	}

	paths, err := fsglob.FindConfigurationFiles(root, patterns, project.ExtensionConfigurationFileName())
	if err != nil {
		return nil, usedCustomLayout, err
	}

	// One goroutine per configuration file; results keep enumeration order.
	results := make([]*Instance, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			inst, err := r.resolveOne(path, decode)
			if err != nil {
				return err
			}
			results[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, usedCustomLayout, err
	}

	for _, inst := range results {
		if inst != nil {
			instances = append(instances, inst)
		}
	}
	return instances, usedCustomLayout, nil
}

// resolveOne turns one configuration file into an instance. A nil instance
// with a nil error means the entry was skipped on the report path.
func (r *Resolver) resolveOne(path string, decode confparse.DecodeFunc) (*Instance, error) {
	spec, err := r.Registry.MatchConfigFile(path, decode, r.Handler)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		// Unknown type, already recorded.
		return nil, nil
	}

	cfg, err := confparse.Parse(spec.Schema, path, decode, Config{}, r.Handler)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	inst := &Instance{
		Directory:         dir,
		ConfigurationPath: path,
		Configuration:     cfg,
		Specification:     spec,
	}

	entry, required := resolveEntryPoint(dir, spec)
	if entry == "" && required {
		msg := fmt.Sprintf("couldn't find an entry point source file for extension %s in %s", spec.Identifier, dir)
		if err := r.Handler.Problem(diagnostics.KindEntryPointMissing, path, msg); err != nil {
			return nil, err
		}
	}
	inst.EntryPoint = entry

	if verr := inst.Validate(); verr != nil {
		msg := fmt.Sprintf("invalid extension configuration in %s: %s", path, verr.Error())
		if err := r.Handler.Problem(diagnostics.KindInstanceValidation, path, msg); err != nil {
			return nil, err
		}
	}

	return inst, nil
}
