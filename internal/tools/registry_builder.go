package tools

import (
	"github.com/pagepulse/pagepulse/internal/manager"
	"github.com/pagepulse/pagepulse/internal/preview"
)

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	tools map[ToolName]Tool
	order []ToolName
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[ToolName]Tool)}
}

// WithTool adds a tool and returns the builder, enabling chaining.
// Re-adding a name replaces the tool but keeps its original position.
func (b *RegistryBuilder) WithTool(tool Tool) *RegistryBuilder {
	name := ToolName(tool.Name())
	if _, exists := b.tools[name]; !exists {
		b.order = append(b.order, name)
	}
	b.tools[name] = tool

	return b
}

// Build produces an immutable Registry from the accumulated tools.
func (b *RegistryBuilder) Build() *Registry {
	tools := make(map[ToolName]Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	order := make([]ToolName, len(b.order))
	copy(order, b.order)
	return &Registry{tools: tools, order: order}
}

// BuildDefault wires every cataloged tool against the given collaborators
// and returns the complete registry in catalog order.
func BuildDefault(m *manager.Manager, fetcher *preview.Fetcher) *Registry {
	b := NewRegistryBuilder()
	for _, name := range Names() {
		b.WithTool(newTool(name, m, fetcher))
	}
	return b.Build()
}
