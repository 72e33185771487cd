package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// ScriptRunner executes script source locally and returns captured output.
type ScriptRunner interface {
	Run(ctx context.Context, source string) (string, error)
}

type RunPythonInput struct {
	Source string `json:"source" jsonschema_description:"Python source text to execute locally. stdout is returned on success, stderr on a non-zero exit."`
}

var RunPythonInputSchema = GenerateSchema[RunPythonInput]()

// RunPythonDefinition wires the run_python function to a local script
// runner. The runner is a bare subprocess wrapper; nothing here is an
// isolation boundary.
func RunPythonDefinition(sr ScriptRunner) ToolDefinition {
	return ToolDefinition{
		Name:        "run_python",
		Description: "Execute python source text locally and return its output.",
		InputSchema: RunPythonInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in RunPythonInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid run_python arguments: %w", err)
			}
			if in.Source == "" {
				return "", fmt.Errorf("run_python requires source")
			}
			return sr.Run(ctx, in.Source)
		},
	}
}
