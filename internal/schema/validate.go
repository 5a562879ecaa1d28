package schema

import (
	"fmt"
	"math"
	"strings"
)

// FieldError locates one validation failure: the offending field's path
// (e.g. "operations[1].method"; "" for object-level constraints) and the
// reason it was rejected.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError is the structured rejection of a tool input. It is always
// resolved before any network call is made.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Path == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Path+": "+f.Message)
	}
	return "invalid arguments: " + strings.Join(parts, "; ")
}

// Validate checks raw against the schema and returns a defaulted copy of the
// accepted fields. Undeclared fields are dropped. On failure it returns a
// *ValidationError listing every offending field; it never returns partial
// output alongside an error.
//
// Validate is idempotent: feeding its own output back in succeeds unchanged.
func (o Object) Validate(raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(o.Properties))
	var errs []FieldError

	for _, name := range o.Required {
		if _, ok := raw[name]; !ok {
			errs = append(errs, FieldError{Path: name, Message: "required"})
		}
	}

	for name, prop := range o.Properties {
		v, ok := raw[name]
		if !ok {
			if prop.Default != nil {
				out[name] = prop.Default
			}
			continue
		}
		checked, ferrs := checkValue(name, prop, v)
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		out[name] = checked
	}

	if len(o.RequireAny) > 0 {
		found := false
		for _, name := range o.RequireAny {
			if _, ok := raw[name]; ok {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, FieldError{
				Message: "at least one of " + strings.Join(o.RequireAny, ", ") + " is required",
			})
		}
	}

	if len(errs) > 0 {
		sortFieldErrors(errs)
		return nil, &ValidationError{Fields: errs}
	}
	return out, nil
}

// sortFieldErrors keeps error output deterministic without reordering
// same-path entries.
func sortFieldErrors(errs []FieldError) {
	for i := 1; i < len(errs); i++ {
		for j := i; j > 0 && errs[j].Path < errs[j-1].Path; j-- {
			errs[j], errs[j-1] = errs[j-1], errs[j]
		}
	}
}

func checkValue(path string, p Property, v any) (any, []FieldError) {
	switch p.Type {
	case "string":
		s, ok := v.(string)
		if !ok {
			return nil, []FieldError{{Path: path, Message: "must be a string"}}
		}
		if len(p.Enum) > 0 && !containsString(p.Enum, s) {
			return nil, []FieldError{{Path: path,
				Message: "must be one of " + strings.Join(p.Enum, ", ")}}
		}
		return s, nil

	case "boolean":
		b, ok := v.(bool)
		if !ok {
			return nil, []FieldError{{Path: path, Message: "must be a boolean"}}
		}
		return b, nil

	case "number", "integer":
		f, ok := asFloat(v)
		if !ok {
			return nil, []FieldError{{Path: path, Message: "must be a number"}}
		}
		if p.Type == "integer" {
			if f != math.Trunc(f) {
				return nil, []FieldError{{Path: path, Message: "must be an integer"}}
			}
		}
		if p.Minimum != nil && f < *p.Minimum {
			return nil, []FieldError{{Path: path,
				Message: fmt.Sprintf("must be >= %v", *p.Minimum)}}
		}
		if p.Maximum != nil && f > *p.Maximum {
			return nil, []FieldError{{Path: path,
				Message: fmt.Sprintf("must be <= %v", *p.Maximum)}}
		}
		if p.Type == "integer" {
			return int(f), nil
		}
		return f, nil

	case "array":
		items, ok := v.([]any)
		if !ok {
			return nil, []FieldError{{Path: path, Message: "must be an array"}}
		}
		if p.MinItems > 0 && len(items) < p.MinItems {
			return nil, []FieldError{{Path: path,
				Message: fmt.Sprintf("must have at least %d items", p.MinItems)}}
		}
		if p.MaxItems > 0 && len(items) > p.MaxItems {
			return nil, []FieldError{{Path: path,
				Message: fmt.Sprintf("must have at most %d items", p.MaxItems)}}
		}
		if p.Items == nil {
			return items, nil
		}
		out := make([]any, len(items))
		var errs []FieldError
		for i, item := range items {
			checked, ferrs := checkValue(fmt.Sprintf("%s[%d]", path, i), *p.Items, item)
			if len(ferrs) > 0 {
				errs = append(errs, ferrs...)
				continue
			}
			out[i] = checked
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return out, nil

	case "object":
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, []FieldError{{Path: path, Message: "must be an object"}}
		}
		nested := Object{Properties: p.Properties, Required: p.Required}
		checked, err := nested.Validate(obj)
		if err != nil {
			verr := err.(*ValidationError)
			errs := make([]FieldError, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				sub := path
				if f.Path != "" {
					sub = path + "." + f.Path
				}
				errs = append(errs, FieldError{Path: sub, Message: f.Message})
			}
			return nil, errs
		}
		if len(p.Properties) == 0 {
			// Free-form object: accept as-is (e.g. batch operation bodies).
			return obj, nil
		}
		return checked, nil

	default:
		return nil, []FieldError{{Path: path, Message: "unsupported schema type " + p.Type}}
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func containsString(set []string, s string) bool {
	for _, e := range set {
		if e == s {
			return true
		}
	}
	return false
}
