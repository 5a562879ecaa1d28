package tools

import "context"

// Registry holds the page's tool set and dispatches invocations by name.
// It is immutable after Build.
type Registry struct {
	tools map[ToolName]Tool
	order []ToolName
}

// GetTool returns the tool registered under name, or nil.
func (r *Registry) GetTool(name ToolName) Tool {
	return r.tools[name]
}

// Dispatch validates-and-runs the named tool. A name outside the registry
// yields *UnreachableToolError without touching the network.
func (r *Registry) Dispatch(ctx context.Context, name ToolName, args map[string]any) (string, error) {
	t := r.tools[name]
	if t == nil {
		return "", &UnreachableToolError{Name: name}
	}
	return t.Execute(ctx, args)
}

// AllTools returns the registered tools as an ordered ToolList.
func (r *Registry) AllTools() *ToolList {
	list := &ToolList{tools: make(map[ToolName]Tool, len(r.tools))}
	for _, name := range r.order {
		list.order = append(list.order, name)
		list.tools[name] = r.tools[name]
	}
	return list
}
