package specification

import (
	_ "embed"

	"github.com/shipyard-labs/shipyard/internal/schemaval"
)

// Embedded configuration schemas for the built-in specifications.
var (
	//go:embed schema/extension_type.schema.json
	rawTypeSchema []byte
	//go:embed schema/ui_extension.schema.json
	rawUIExtensionSchema []byte
	//go:embed schema/checkout_post_purchase.schema.json
	rawCheckoutPostPurchaseSchema []byte
	//go:embed schema/theme.schema.json
	rawThemeSchema []byte
	//go:embed schema/function.schema.json
	rawFunctionSchema []byte
	//go:embed schema/flow_action.schema.json
	rawFlowActionSchema []byte
)

// typeSchema validates the minimal {type} shape used for matching before the
// full configuration schema is known.
var typeSchema = schemaval.MustCompile("extension_type.schema.json", rawTypeSchema)

// Builtin returns a registry with the specifications the toolchain ships.
// Callers embedding the loader may supply their own registry instead.
func Builtin() *Registry {
	return NewRegistry(
		&Specification{
			Identifier:            "ui_extension",
			ExternalIdentifier:    "ui_ext",
			AdditionalIdentifiers: []string{"admin_ui_extension"},
			Schema:                schemaval.MustCompile("ui_extension.schema.json", rawUIExtensionSchema),
			SingleEntryPoint:      true,
			IsUIBundled:           true,
		},
		&Specification{
			Identifier:         "checkout_post_purchase",
			ExternalIdentifier: "post_purchase",
			Schema:             schemaval.MustCompile("checkout_post_purchase.schema.json", rawCheckoutPostPurchaseSchema),
			SingleEntryPoint:   true,
			IsUIBundled:        true,
		},
		&Specification{
			Identifier: "theme",
			Schema:     schemaval.MustCompile("theme.schema.json", rawThemeSchema),
			IsTheme:    true,
		},
		&Specification{
			Identifier:            "function",
			AdditionalIdentifiers: []string{"product_discount", "order_discount"},
			Schema:                schemaval.MustCompile("function.schema.json", rawFunctionSchema),
			IsFunction:            true,
		},
		&Specification{
			Identifier:         "flow_action",
			ExternalIdentifier: "flow_action_definition",
			Schema:             schemaval.MustCompile("flow_action.schema.json", rawFlowActionSchema),
		},
	)
}
