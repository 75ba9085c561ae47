package confparse

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"
)

// DecodeFunc turns raw file bytes into a generic document tree. Decoders must
// wrap failures that carry position information in a *PositionalError; any
// other failure is treated as an environment or programming fault by Parse.
type DecodeFunc func(data []byte) (map[string]any, error)

// PositionalError is a decode failure with a known location in the input.
type PositionalError struct {
	Line   int
	Column int
	Err    error
}

func (e *PositionalError) Error() string { return e.Err.Error() }

func (e *PositionalError) Unwrap() error { return e.Err }

// DecodeTOML is the default decoder. TOML parse errors carry line and column
// information and are reported as positional.
func DecodeTOML(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, &PositionalError{
				Line: perr.Position.Line,
				Err:  err,
			}
		}
		return nil, err
	}
	return doc, nil
}

// DecodeYAML decodes YAML documents. Type errors from the YAML decoder embed
// line numbers and are reported as positional.
func DecodeYAML(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		var terr *yaml.TypeError
		if errors.As(err, &terr) {
			return nil, &PositionalError{Err: err}
		}
		return nil, err
	}
	return doc, nil
}

// DecodeJSON decodes JSON documents, deriving line and column from the syntax
// error offset.
func DecodeJSON(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		var serr *json.SyntaxError
		if errors.As(err, &serr) {
			line, col := positionAt(data, serr.Offset)
			return nil, &PositionalError{
				Line:   line,
				Column: col,
				Err:    fmt.Errorf("%w (line %d, column %d)", err, line, col),
			}
		}
		return nil, err
	}
	return doc, nil
}

// positionAt converts a byte offset into a 1-based line and column.
func positionAt(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
