// Package confparse reads a single configuration file from disk, decodes it
// into a generic document tree, validates the tree against a JSON schema, and
// maps the result into a typed value. The same function handles the root
// application configuration and every web and extension configuration; only
// the schema, the decoder, and the path vary.
package confparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-viper/mapstructure/v2"

	"github.com/shipyard-labs/shipyard/internal/diagnostics"
	"github.com/shipyard-labs/shipyard/internal/schemaval"
)

// Parse loads, decodes, validates, and maps one configuration file.
//
// A missing file, a positional decode error, and a schema validation failure
// all route through the handler: in strict mode Parse returns the handler's
// error, in report mode it records the problem and returns fallback. Any
// other failure (unreadable file, non-positional decode fault, mapping fault)
// is returned unchanged and aborts the load regardless of mode.
func Parse[T any](schema *schemaval.Schema, path string, decode DecodeFunc, fallback T, h *diagnostics.Handler) (T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			msg := fmt.Sprintf("couldn't find the configuration file at %s", path)
			return fallback, h.Problem(diagnostics.KindNotFound, path, msg)
		}
		return fallback, fmt.Errorf("reading configuration file %s: %w", path, err)
	}

	doc, err := decode(data)
	if err != nil {
		var perr *PositionalError
		if errors.As(err, &perr) {
			msg := fmt.Sprintf("failed to decode %s: %s", path, perr.Error())
			return fallback, h.Problem(diagnostics.KindDecode, path, msg)
		}
		return fallback, err
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return fallback, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		msg := fmt.Sprintf("invalid configuration in %s:\n%s", path, result.Summary())
		return fallback, h.Problem(diagnostics.KindSchema, path, msg)
	}

	var out T
	if err := mapDocument(doc, &out); err != nil {
		return fallback, fmt.Errorf("mapping configuration %s: %w", path, err)
	}
	return out, nil
}

// mapDocument maps a validated document tree into a typed value. Struct
// fields are matched by their toml tags so the types read like the files
// they describe.
func mapDocument(doc map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "toml",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(doc)
}
