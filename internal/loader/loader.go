// Package loader assembles the in-memory model of an application from a
// directory tree: it locates the project root, parses and validates the root
// configuration, resolves webs and extensions, and derives the project's
// package metadata. A loader runs in either strict mode (the first problem
// aborts the load) or report mode (problems accumulate and the load produces
// a best-effort model).
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/shipyard-labs/shipyard/internal/confparse"
	"github.com/shipyard-labs/shipyard/internal/diagnostics"
	"github.com/shipyard-labs/shipyard/internal/extension"
	"github.com/shipyard-labs/shipyard/internal/metadata"
	"github.com/shipyard-labs/shipyard/internal/project"
	"github.com/shipyard-labs/shipyard/internal/specification"
	"github.com/shipyard-labs/shipyard/internal/telemetry"
	"github.com/shipyard-labs/shipyard/internal/web"
)

// supportedSchema constrains the root configuration's schema_version.
var supportedSchema = semver.MustParse("1.0.0")

// Loader assembles applications. The zero value loads in strict mode with
// the built-in specification registry and the TOML decoder. A Loader must
// not be shared between concurrent loads.
type Loader struct {
	// Registry supplies the accepted extension specifications. Defaults to
	// specification.Builtin().
	Registry *specification.Registry
	// Mode selects strict or report error handling for the whole load.
	Mode diagnostics.Mode
	// Decode is the configuration decoder, defaulting to confparse.DecodeTOML.
	Decode confparse.DecodeFunc
	// ConfigName selects a variant root configuration file
	// (shipyard.app.<name>.toml); empty selects shipyard.app.toml.
	ConfigName string
	// Telemetry receives composition metadata after a successful load.
	// Defaults to telemetry.Nop.
	Telemetry telemetry.Sink
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Load assembles the application rooted at or above dir. In strict mode any
// routed problem aborts the load; in report mode the returned application
// carries the accumulated diagnostics in Errors.
func (l *Loader) Load(ctx context.Context, dir string) (*Application, error) {
	registry := l.Registry
	if registry == nil {
		registry = specification.Builtin()
	}
	decode := l.Decode
	if decode == nil {
		decode = confparse.DecodeTOML
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	root, err := project.FindRoot(dir)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "project root located", "root", root)

	handler := diagnostics.NewHandler(l.Mode)
	configPath := filepath.Join(root, project.AppConfigurationFileName(l.ConfigName))

	cfg, err := confparse.Parse(AppSchema, configPath, decode, AppConfig{}, handler)
	if err != nil {
		return nil, err
	}
	if err := l.checkSchemaVersion(cfg, configPath, handler); err != nil {
		return nil, err
	}

	app := &Application{
		Directory:         root,
		Configuration:     cfg,
		ConfigurationPath: configPath,
	}

	// Webs and extensions are independent; resolve them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resolver := &extension.Resolver{Registry: registry, Handler: handler, Decode: decode}
		instances, custom, err := resolver.Resolve(gctx, root, cfg.ExtensionDirectories)
		if err != nil {
			return err
		}
		app.Extensions = instances
		app.UsesCustomExtensionLayout = custom
		return nil
	})
	g.Go(func() error {
		resolver := &web.Resolver{Handler: handler, Decode: decode}
		webs, custom, err := resolver.Resolve(gctx, root, cfg.WebDirectories)
		if err != nil {
			return err
		}
		app.Webs = webs
		app.UsesCustomWebLayout = custom
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "components resolved",
		"webs", len(app.Webs), "extensions", len(app.Extensions))

	if err := l.attachMetadata(app); err != nil {
		return nil, err
	}

	if env, err := godotenv.Read(filepath.Join(root, ".env")); err == nil {
		app.DotEnv = env
	}

	if l.Mode == diagnostics.Report {
		if errs := handler.Errors(); !errs.IsEmpty() {
			app.Errors = errs
		}
	}

	l.publishTelemetry(ctx, app)
	return app, nil
}

// checkSchemaVersion verifies the declared schema_version is a parseable
// version with a supported major. An empty declaration means the current
// schema.
func (l *Loader) checkSchemaVersion(cfg AppConfig, configPath string, h *diagnostics.Handler) error {
	if cfg.SchemaVersion == "" {
		return nil
	}
	v, err := semver.NewVersion(cfg.SchemaVersion)
	if err != nil {
		msg := fmt.Sprintf("invalid schema_version %q in %s: %v", cfg.SchemaVersion, configPath, err)
		return h.Problem(diagnostics.KindSchema, configPath, msg)
	}
	if v.Major() != supportedSchema.Major() {
		msg := fmt.Sprintf("unsupported schema_version %q in %s: this tool supports version %d", cfg.SchemaVersion, configPath, supportedSchema.Major())
		return h.Problem(diagnostics.KindSchema, configPath, msg)
	}
	return nil
}

// attachMetadata derives the display name and package metadata from the
// project root.
func (l *Loader) attachMetadata(app *Application) error {
	pkgName, err := metadata.PackageName(app.Directory)
	if err != nil {
		return err
	}
	deps, err := metadata.Dependencies(app.Directory)
	if err != nil {
		return err
	}
	workspaces, err := metadata.UsesWorkspaces(app.Directory)
	if err != nil {
		return err
	}

	switch {
	case app.Configuration.Name != "":
		app.Name = app.Configuration.Name
	case pkgName != "":
		app.Name = pkgName
	default:
		app.Name = filepath.Base(app.Directory)
	}
	app.Dependencies = deps
	app.PackageManager = metadata.DependencyManager(app.Directory)
	app.UsesWorkspaces = workspaces
	return nil
}

// publishTelemetry emits one public record (counts, booleans, hashed
// identifiers) and one sensitive record (plain name). Both are
// fire-and-forget: a slow or failing sink never blocks or fails the load.
func (l *Loader) publishTelemetry(ctx context.Context, app *Application) {
	sink := l.Telemetry
	if sink == nil {
		return
	}

	functions := 0
	themes := 0
	uiBundled := 0
	for _, inst := range app.Extensions {
		if inst.Specification.IsFunction {
			functions++
		}
		if inst.Specification.IsTheme {
			themes++
		}
		if inst.Specification.IsUIBundled {
			uiBundled++
		}
	}

	public := telemetry.Event{
		Name: "app_loaded",
		Public: map[string]any{
			"name_hash":               telemetry.HashString(app.Name),
			"path_hash":               telemetry.HashString(app.Directory),
			"web_count":               len(app.Webs),
			"extension_count":         len(app.Extensions),
			"function_count":          functions,
			"theme_count":             themes,
			"ui_bundled_count":        uiBundled,
			"uses_workspaces":         app.UsesWorkspaces,
			"custom_extension_layout": app.UsesCustomExtensionLayout,
			"custom_web_layout":       app.UsesCustomWebLayout,
			"package_manager":         app.PackageManager,
			"error_count":             len(app.Errors),
		},
	}
	sensitive := telemetry.Event{
		Name:      "app_loaded_sensitive",
		Sensitive: map[string]any{"name": app.Name},
	}

	go func() {
		_ = sink.Publish(ctx, public)
		_ = sink.Publish(ctx, sensitive)
	}()
}
