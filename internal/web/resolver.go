package web

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/shipyard-labs/shipyard/internal/confparse"
	"github.com/shipyard-labs/shipyard/internal/diagnostics"
	"github.com/shipyard-labs/shipyard/internal/framework"
	"github.com/shipyard-labs/shipyard/internal/fsglob"
	"github.com/shipyard-labs/shipyard/internal/project"
)

// defaultPatterns are the conventional web locations: a single web directory
// or one directory per web beneath it.
var defaultPatterns = []string{"web", "web/*"}

// Resolver discovers web configuration files and produces webs.
type Resolver struct {
	Handler *diagnostics.Handler
	// Decode defaults to confparse.DecodeTOML.
	Decode confparse.DecodeFunc
	// DetectFramework defaults to framework.Detect.
	DetectFramework func(dir string) string
}

// Resolve enumerates web configuration files under root and resolves each
// one independently, then validates the role assignment across all webs: the
// first web declaring the backend or frontend role is primary, later
// declarers are flagged. usedCustomLayout reports whether the caller
// supplied explicit directories or a web was found outside the conventional
// locations.
func (r *Resolver) Resolve(ctx context.Context, root string, declared []string) (webs []*Web, usedCustomLayout bool, err error) {
	decode := r.Decode
	if decode == nil {
		decode = confparse.DecodeTOML
	}
	detect := r.DetectFramework
	if detect == nil {
		detect = framework.Detect
	}

	explicit := len(declared) > 0
	patterns := declared
	if !explicit {
		patterns = defaultPatterns
	}

	paths, err := fsglob.FindConfigurationFiles(root, patterns, project.WebConfigurationFileName())
	if err != nil {
		return nil, explicit, err
	}

	standard, err := fsglob.FindConfigurationFiles(root, defaultPatterns, project.WebConfigurationFileName())
	if err != nil {
		return nil, explicit, err
	}
	usedCustomLayout = explicit || len(standard) != len(paths)

	results := make([]*Web, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := r.resolveOne(path, decode, detect)
			if err != nil {
				return err
			}
			results[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, usedCustomLayout, err
	}

	for _, w := range results {
		if w != nil {
			webs = append(webs, w)
		}
	}

	if err := r.validateRoles(webs); err != nil {
		return nil, usedCustomLayout, err
	}
	return webs, usedCustomLayout, nil
}

func (r *Resolver) resolveOne(path string, decode confparse.DecodeFunc, detect func(dir string) string) (*Web, error) {
	cfg, err := confparse.Parse(Schema, path, decode, Config{}, r.Handler)
	if err != nil {
		return nil, err
	}
	cfg.normalize()

	dir := filepath.Dir(path)
	return &Web{
		Directory:         dir,
		ConfigurationPath: path,
		Configuration:     cfg,
		Framework:         detect(dir),
	}, nil
}

// validateRoles flags every web past the first that claims an exclusive
// role. All webs stay in the output on the report path.
func (r *Resolver) validateRoles(webs []*Web) error {
	for _, role := range []string{RoleBackend, RoleFrontend} {
		seen := false
		for _, w := range webs {
			if !w.Configuration.HasRole(role) {
				continue
			}
			if !seen {
				seen = true
				continue
			}
			msg := fmt.Sprintf("there can be only one web with the %q role, and %s already has it", role, primaryPath(webs, role))
			if err := r.Handler.Problem(diagnostics.KindRoleConflict, w.ConfigurationPath, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// primaryPath returns the configuration path of the first web declaring role.
func primaryPath(webs []*Web, role string) string {
	for _, w := range webs {
		if w.Configuration.HasRole(role) {
			return w.ConfigurationPath
		}
	}
	return ""
}
