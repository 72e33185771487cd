// Package tools defines the functions the remote assistant may delegate
// to this process.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - contact_expert: one zero-shot completion against an expert persona.
//   - run_python: local script execution via a subprocess.
//   - Registry/Lookup: name-keyed dispatch so new functions extend the
//     table without touching the driver loop.
package tools
