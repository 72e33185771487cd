// Package sandbox runs python source text in a subprocess via a scratch
// file. It is a bare process wrapper, not an isolation boundary: no
// timeout, no resource limits, no filesystem or network restrictions
// beyond what the interpreter itself enforces.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"metaprompt/internal/telemetry"
)

// Runner executes script source with a fixed interpreter binary.
type Runner struct {
	// Interpreter is the binary invoked as `interpreter <scriptfile>`.
	Interpreter string
	// Dir is where scratch files are created; empty means the system
	// temp dir. Tests point this at a private directory to observe
	// cleanup.
	Dir string
}

// New returns a Runner for the given interpreter binary.
func New(interpreter string) *Runner {
	return &Runner{Interpreter: interpreter}
}

// Run writes source to a uniquely named scratch file, executes it, and
// returns captured stdout. On a non-zero exit the captured stderr text is
// returned in its place; that is a result, not an error. The scratch file
// is removed on every exit path. Errors are reserved for infrastructure
// failures (scratch file creation, interpreter not found).
func (r *Runner) Run(ctx context.Context, source string) (string, error) {
	f, err := os.CreateTemp(r.Dir, "script-*.py")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(source); err != nil {
		f.Close()
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Interpreter, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	telemetry.Emit("sandbox_exec", map[string]any{
		"turn_id":     turnID,
		"interpreter": r.Interpreter,
		"duration_ms": elapsed.Milliseconds(),
		"source_size": len(source),
		"exit_code":   exitCode,
	})

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return stderr.String(), nil
		}
		return "", fmt.Errorf("run script: %w", runErr)
	}
	return stdout.String(), nil
}
