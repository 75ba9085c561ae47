package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shipyard-labs/shipyard/internal/config"
	"github.com/shipyard-labs/shipyard/internal/diagnostics"
	"github.com/shipyard-labs/shipyard/internal/loader"
	"github.com/shipyard-labs/shipyard/internal/telemetry"
)

var (
	appPath    string
	appVariant string
)

func init() {
	appCmd.PersistentFlags().StringVar(&appPath, "path", ".", "Path inside the application to load")
	appCmd.PersistentFlags().StringVar(&appVariant, "config", "", "Configuration variant name (shipyard.app.<name>.toml)")
	appCmd.AddCommand(appInfoCmd)
	appCmd.AddCommand(appValidateCmd)
	rootCmd.AddCommand(appCmd)
}

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Inspect and validate the current application",
}

var appInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the application's composition, including recoverable problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newLoader(diagnostics.Report).Load(cmd.Context(), appPath)
		if err != nil {
			return err
		}
		printApp(app)
		return nil
	},
}

var appValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the application, failing on the first problem",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newLoader(diagnostics.Strict).Load(cmd.Context(), appPath)
		if err != nil {
			return err
		}
		color.Green("%s is valid (%d webs, %d extensions)", app.Name, len(app.Webs), len(app.Extensions))
		return nil
	},
}

func newLoader(mode diagnostics.Mode) *loader.Loader {
	variant := appVariant
	if variant == "" {
		variant = config.DefaultVariant()
	}

	var sink telemetry.Sink = telemetry.LogSink{}
	if config.TelemetryDisabled() {
		sink = telemetry.Nop{}
	}

	return &loader.Loader{
		Mode:       mode,
		ConfigName: variant,
		Telemetry:  sink,
	}
}

func printApp(app *loader.Application) {
	bold := color.New(color.Bold)
	bold.Println(app.Name)
	fmt.Printf("  root:            %s\n", app.Directory)
	fmt.Printf("  configuration:   %s\n", app.ConfigurationPath)
	fmt.Printf("  package manager: %s\n", app.PackageManager)
	fmt.Printf("  workspaces:      %v\n", app.UsesWorkspaces)

	bold.Println("webs")
	if len(app.Webs) == 0 {
		fmt.Println("  (none)")
	}
	for _, w := range app.Webs {
		rel := relToRoot(app.Directory, w.Directory)
		roles := strings.Join(w.Configuration.Roles, ", ")
		if roles == "" {
			roles = "-"
		}
		fw := w.Framework
		if fw == "" {
			fw = "unknown"
		}
		fmt.Printf("  %-20s roles: %-20s framework: %s\n", rel, roles, fw)
	}

	bold.Println("extensions")
	if len(app.Extensions) == 0 {
		fmt.Println("  (none)")
	}
	for _, inst := range app.Extensions {
		rel := relToRoot(app.Directory, inst.Directory)
		fmt.Printf("  %-20s type: %s\n", rel, inst.Specification.Identifier)
	}

	if !app.Errors.IsEmpty() {
		color.New(color.FgYellow, color.Bold).Fprintln(os.Stderr, "problems")
		for _, path := range app.Errors.Paths() {
			color.Yellow("  %s:\n    %s", path, strings.ReplaceAll(app.Errors[path], "\n", "\n    "))
		}
	}
}

func relToRoot(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	return rel
}
