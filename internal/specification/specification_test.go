package specification

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shipyard-labs/shipyard/internal/confparse"
	"github.com/shipyard-labs/shipyard/internal/diagnostics"
)

func TestMatch(t *testing.T) {
	registry := Builtin()

	tests := []struct {
		typeString string
		want       string // primary identifier, "" when no match
	}{
		{"ui_extension", "ui_extension"},
		{"ui_ext", "ui_extension"},
		{"admin_ui_extension", "ui_extension"},
		{"checkout_post_purchase", "checkout_post_purchase"},
		{"post_purchase", "checkout_post_purchase"},
		{"theme", "theme"},
		{"function", "function"},
		{"product_discount", "function"},
		{"flow_action_definition", "flow_action"},
		{"unknown-kind", ""},
		{"", ""},
		{"UI_EXTENSION", ""}, // matching is case-sensitive
	}

	for _, tt := range tests {
		spec := registry.Match(tt.typeString)
		got := ""
		if spec != nil {
			got = spec.Identifier
		}
		if got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.typeString, got, tt.want)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shipyard.extension.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMatchConfigFile(t *testing.T) {
	registry := Builtin()
	path := writeConfig(t, "name = \"promo\"\ntype = \"ui_extension\"\n")
	h := diagnostics.NewHandler(diagnostics.Strict)

	spec, err := registry.MatchConfigFile(path, confparse.DecodeTOML, h)
	if err != nil {
		t.Fatalf("MatchConfigFile: %v", err)
	}
	if spec == nil || spec.Identifier != "ui_extension" {
		t.Fatalf("spec = %v, want ui_extension", spec)
	}
}

func TestMatchConfigFileUnknownType(t *testing.T) {
	registry := Builtin()
	path := writeConfig(t, "type = \"unknown-kind\"\n")

	t.Run("report", func(t *testing.T) {
		h := diagnostics.NewHandler(diagnostics.Report)
		spec, err := registry.MatchConfigFile(path, confparse.DecodeTOML, h)
		if err != nil {
			t.Fatalf("MatchConfigFile: %v", err)
		}
		if spec != nil {
			t.Errorf("spec = %v, want nil on the report path", spec)
		}
		if _, ok := h.Errors()[path]; !ok {
			t.Error("unknown type was not recorded under the file path")
		}
	})

	t.Run("strict", func(t *testing.T) {
		h := diagnostics.NewHandler(diagnostics.Strict)
		_, err := registry.MatchConfigFile(path, confparse.DecodeTOML, h)
		var derr *diagnostics.Error
		if !errors.As(err, &derr) || derr.Kind != diagnostics.KindUnknownType {
			t.Fatalf("error = %v, want UnknownType", err)
		}
	})
}

func TestMatchConfigFileMissingType(t *testing.T) {
	registry := Builtin()
	path := writeConfig(t, "name = \"promo\"\n")

	h := diagnostics.NewHandler(diagnostics.Report)
	spec, err := registry.MatchConfigFile(path, confparse.DecodeTOML, h)
	if err != nil {
		t.Fatalf("MatchConfigFile: %v", err)
	}
	if spec != nil {
		t.Errorf("spec = %v, want nil", spec)
	}
	if h.Errors().IsEmpty() {
		t.Error("missing type was not recorded")
	}
}
