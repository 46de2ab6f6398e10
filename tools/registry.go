// Package tools provides a metadata-driven registry for MCP tool definitions.
// Tools are defined declaratively in AllTools and bound to typed client
// methods by HandlerRegistry.
package tools

// ToolSpec defines a tool's metadata for declarative registration.
// Each spec maps to a mediawiki client method with matching Args/Result types.
type ToolSpec struct {
	// Name is the MCP tool name (e.g., "mediawiki_search_pages")
	Name string

	// Method is the client method name (e.g., "Search")
	Method string

	// Description is the tool description shown to LLMs
	Description string

	// Title is the human-readable tool title for annotations
	Title string

	// Category groups tools logically (search, read, discovery, write)
	Category string

	// ReadOnly indicates the tool doesn't modify wiki state
	ReadOnly bool

	// Destructive indicates the tool can delete or overwrite data
	Destructive bool

	// Idempotent indicates repeated calls have the same effect
	Idempotent bool

	// OpenWorld indicates the tool accesses external resources
	OpenWorld bool
}

// Lookup returns the spec registered under name.
func Lookup(name string) (ToolSpec, bool) {
	for _, spec := range AllTools {
		if spec.Name == name {
			return spec, true
		}
	}
	return ToolSpec{}, false
}

// Names returns all tool names in definition order.
func Names() []string {
	names := make([]string, len(AllTools))
	for i, spec := range AllTools {
		names[i] = spec.Name
	}
	return names
}

// ptr is a helper to create a pointer to a value.
func ptr[T any](v T) *T {
	return &v
}
