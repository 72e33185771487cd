package tools

// Registry returns all tool definitions wired for the assistant. The
// shipped orchestrating assistant only ever requests contact_expert;
// run_python is registered so the dispatch table, not the driver loop,
// decides what is callable.
func Registry(ex ExpertContacter, sr ScriptRunner) []ToolDefinition {
	return []ToolDefinition{ContactExpertDefinition(ex), RunPythonDefinition(sr)}
}

// Lookup finds a definition by function name.
func Lookup(defs []ToolDefinition, name string) (ToolDefinition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return ToolDefinition{}, false
}
