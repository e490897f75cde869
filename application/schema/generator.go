// Package schema describes registry contents as a manifest and JSON schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/nativefn/exports"
	"github.com/reglet-dev/nativefn/wireformat"
)

// FunctionInfo describes one exported function.
type FunctionInfo struct {
	// Args is the JSON schema for the positional argument array.
	Args *jsonschema.Schema `json:"args"`

	Name  string `json:"name"`
	Arity int    `json:"arity"`
}

// Manifest lists every function a registry exports, sorted by name.
type Manifest struct {
	Functions []FunctionInfo `json:"functions"`
}

// Describe builds the manifest for reg.
func Describe(reg *exports.Registry) Manifest {
	fns := reg.Functions()
	m := Manifest{Functions: make([]FunctionInfo, 0, len(fns))}
	for _, fn := range fns {
		m.Functions = append(m.Functions, FunctionInfo{
			Name:  fn.Name,
			Arity: fn.Arity(),
			Args:  ArgsSchema(fn.Arity()),
		})
	}
	return m
}

// ArgsSchema returns the schema of an argument array of exactly arity 32-bit integers.
func ArgsSchema(arity int) *jsonschema.Schema {
	n := uint64(arity) //nolint:gosec // G115: arity is never negative
	return &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Type:    "integer",
			Minimum: json.Number(strconv.FormatInt(math.MinInt32, 10)),
			Maximum: json.Number(strconv.FormatInt(math.MaxInt32, 10)),
		},
		MinItems: &n,
		MaxItems: &n,
	}
}

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// InvokeRequestSchema returns the schema of the byte-channel request payload.
func InvokeRequestSchema() ([]byte, error) {
	return GenerateSchema(wireformat.InvokeRequest{})
}
