// Package schema declares tool input schemas as data.
//
// One Object declaration yields both runtime validation (Validate) and the
// published JSON Schema (Describe); the two are never hand-duplicated.
package schema

import (
	"encoding/json"
	"sort"
)

// Property describes one field of a tool input object.
type Property struct {
	Type        string // "string", "number", "integer", "boolean", "array", "object"
	Description string
	Enum        []string
	Default     any
	Minimum     *float64
	Maximum     *float64
	MinItems    int
	MaxItems    int
	Items       *Property // array element schema
	Properties  map[string]Property
	Required    []string // required keys of a nested object
}

// Object is the schema of a tool's input: a JSON object with typed,
// optionally defaulted properties.
type Object struct {
	Properties map[string]Property
	Required   []string
	// RequireAny lists properties of which at least one must be present
	// after defaulting (cross-field constraint, e.g. message-or-image).
	RequireAny []string
}

// Float returns a pointer to v, for Minimum/Maximum bounds.
func Float(v float64) *float64 { return &v }

// Describe renders the schema as JSON Schema, including descriptions, enums,
// bounds, defaults, and the anyOf encoding of RequireAny. Output is
// deterministic: properties marshal in sorted key order.
func (o Object) Describe() json.RawMessage {
	out := map[string]any{
		"type":       "object",
		"properties": describeProperties(o.Properties),
	}
	if len(o.Required) > 0 {
		out["required"] = o.Required
	}
	if len(o.RequireAny) > 0 {
		anyOf := make([]any, 0, len(o.RequireAny))
		for _, name := range o.RequireAny {
			anyOf = append(anyOf, map[string]any{"required": []string{name}})
		}
		out["anyOf"] = anyOf
	}
	data, err := json.Marshal(out)
	if err != nil {
		// All inputs are static declarations; this cannot happen at runtime.
		panic("schema: describe: " + err.Error())
	}
	return data
}

func describeProperties(props map[string]Property) map[string]any {
	out := make(map[string]any, len(props))
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out[name] = describeProperty(props[name])
	}
	return out
}

func describeProperty(p Property) map[string]any {
	out := map[string]any{"type": p.Type}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		out["enum"] = p.Enum
	}
	if p.Default != nil {
		out["default"] = p.Default
	}
	if p.Minimum != nil {
		out["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		out["maximum"] = *p.Maximum
	}
	if p.MinItems > 0 {
		out["minItems"] = p.MinItems
	}
	if p.MaxItems > 0 {
		out["maxItems"] = p.MaxItems
	}
	if p.Items != nil {
		out["items"] = describeProperty(*p.Items)
	}
	if len(p.Properties) > 0 {
		out["properties"] = describeProperties(p.Properties)
		if len(p.Required) > 0 {
			out["required"] = p.Required
		}
	}
	return out
}
