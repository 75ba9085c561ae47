package web

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shipyard-labs/shipyard/internal/diagnostics"
)

func writeWeb(t *testing.T, root, dir, config string) string {
	t.Helper()
	path := filepath.Join(root, dir, "shipyard.web.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newResolver(mode diagnostics.Mode) *Resolver {
	return &Resolver{
		Handler: diagnostics.NewHandler(mode),
		// Framework detection is exercised separately; keep it inert here.
		DetectFramework: func(string) string { return "" },
	}
}

func TestResolveDefaultLocations(t *testing.T) {
	root := t.TempDir()
	writeWeb(t, root, "web", "roles = [\"backend\"]\n")
	writeWeb(t, root, "web/frontend", "roles = [\"frontend\"]\n")

	r := newResolver(diagnostics.Strict)
	webs, custom, err := r.Resolve(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if custom {
		t.Error("usedCustomLayout = true for the conventional layout")
	}
	if len(webs) != 2 {
		t.Fatalf("resolved %d webs, want 2", len(webs))
	}
}

func TestResolveExplicitDirectories(t *testing.T) {
	root := t.TempDir()
	writeWeb(t, root, "services/api", "roles = [\"backend\"]\n")

	r := newResolver(diagnostics.Strict)
	webs, custom, err := r.Resolve(context.Background(), root, []string{"services/*"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !custom {
		t.Error("usedCustomLayout = false with explicit directories")
	}
	if len(webs) != 1 {
		t.Fatalf("resolved %d webs, want 1", len(webs))
	}
	if !webs[0].Configuration.HasRole(RoleBackend) {
		t.Error("backend role lost during resolution")
	}
}

func TestNormalizeLegacyType(t *testing.T) {
	root := t.TempDir()
	writeWeb(t, root, "web", "type = \"backend\"\n")

	r := newResolver(diagnostics.Strict)
	webs, _, err := r.Resolve(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	cfg := webs[0].Configuration
	if !cfg.HasRole(RoleBackend) {
		t.Error("legacy type was not unioned into roles")
	}
	if cfg.Type != "" {
		t.Errorf("legacy type field = %q, want dropped", cfg.Type)
	}
}

func TestNormalizeLegacyTypeNoDuplicate(t *testing.T) {
	cfg := Config{Type: "backend", Roles: []string{"backend", "background"}}
	cfg.normalize()
	if len(cfg.Roles) != 2 {
		t.Errorf("Roles = %v, want no duplicate", cfg.Roles)
	}
}

func TestRoleConflict(t *testing.T) {
	root := t.TempDir()
	writeWeb(t, root, "web/alpha", "roles = [\"backend\"]\n")
	second := writeWeb(t, root, "web/beta", "roles = [\"backend\"]\n")

	t.Run("report keeps both webs", func(t *testing.T) {
		r := newResolver(diagnostics.Report)
		webs, _, err := r.Resolve(context.Background(), root, nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(webs) != 2 {
			t.Fatalf("resolved %d webs, want both kept", len(webs))
		}

		errs := r.Handler.Errors()
		if len(errs) != 1 {
			t.Fatalf("recorded %d diagnostics, want exactly 1", len(errs))
		}
		if _, ok := errs[second]; !ok {
			t.Errorf("diagnostic keyed to %v, want the second web's path %s", errs.Paths(), second)
		}
	})

	t.Run("strict raises on the second", func(t *testing.T) {
		r := newResolver(diagnostics.Strict)
		_, _, err := r.Resolve(context.Background(), root, nil)
		var derr *diagnostics.Error
		if !errors.As(err, &derr) || derr.Kind != diagnostics.KindRoleConflict {
			t.Fatalf("error = %v, want RoleConflict", err)
		}
		if derr.Path != second {
			t.Errorf("error path = %q, want %q", derr.Path, second)
		}
	})
}

func TestRoleConflictFrontend(t *testing.T) {
	root := t.TempDir()
	writeWeb(t, root, "web/alpha", "roles = [\"frontend\", \"backend\"]\n")
	writeWeb(t, root, "web/beta", "roles = [\"frontend\"]\n")

	r := newResolver(diagnostics.Report)
	webs, _, err := r.Resolve(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(webs) != 2 {
		t.Fatalf("resolved %d webs, want 2", len(webs))
	}
	if len(r.Handler.Errors()) != 1 {
		t.Errorf("recorded %d diagnostics, want 1 frontend conflict", len(r.Handler.Errors()))
	}
}

// Multiple background webs are fine; only backend and frontend are exclusive.
func TestBackgroundRoleNotExclusive(t *testing.T) {
	root := t.TempDir()
	writeWeb(t, root, "web/worker-a", "roles = [\"background\"]\n")
	writeWeb(t, root, "web/worker-b", "roles = [\"background\"]\n")

	r := newResolver(diagnostics.Strict)
	webs, _, err := r.Resolve(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(webs) != 2 {
		t.Fatalf("resolved %d webs, want 2", len(webs))
	}
}

func TestResolveSchemaViolation(t *testing.T) {
	root := t.TempDir()
	path := writeWeb(t, root, "web", "roles = [\"sidecar\"]\n")

	r := newResolver(diagnostics.Report)
	webs, _, err := r.Resolve(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// The web survives with a fallback configuration.
	if len(webs) != 1 {
		t.Fatalf("resolved %d webs, want 1", len(webs))
	}
	if _, ok := r.Handler.Errors()[path]; !ok {
		t.Error("schema violation was not recorded")
	}
}

func TestFrameworkDetectionDelegation(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "web")
	writeWeb(t, root, "web", "roles = [\"frontend\"]\n")

	r := &Resolver{
		Handler: diagnostics.NewHandler(diagnostics.Strict),
		DetectFramework: func(got string) string {
			if got != dir {
				t.Errorf("detector called with %q, want %q", got, dir)
			}
			return "next"
		},
	}
	webs, _, err := r.Resolve(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if webs[0].Framework != "next" {
		t.Errorf("Framework = %q, want %q", webs[0].Framework, "next")
	}
}
