package tools

import "encoding/json"

// Definition is one tool's discoverable surface: its name, description, and
// the JSON Schema of its input.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ToolList holds an ordered, named set of tools and exposes their
// definitions for discovery.
type ToolList struct {
	tools map[ToolName]Tool
	order []ToolName
}

// NewToolList builds a list preserving the given order.
func NewToolList(ts ...Tool) *ToolList {
	list := &ToolList{tools: make(map[ToolName]Tool, len(ts))}
	for _, t := range ts {
		name := ToolName(t.Name())
		if _, exists := list.tools[name]; !exists {
			list.order = append(list.order, name)
		}
		list.tools[name] = t
	}

	return list
}

// Get returns the tool with the given name, or nil if not found.
func (r *ToolList) Get(name ToolName) Tool {
	return r.tools[name]
}

// Len reports the number of tools in the list.
func (r *ToolList) Len() int { return len(r.tools) }

// Definitions returns every tool's definition in list order. The schema in
// each definition is produced by the same declaration that validates
// arguments at execution time.
func (r *ToolList) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		})
	}
	return defs
}
