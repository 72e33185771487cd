package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"metaprompt/internal/assistants"
	"metaprompt/internal/telemetry"
	"metaprompt/tools"
)

const (
	colorBlue   = "\u001b[94m"
	colorGreen  = "\u001b[92m"
	colorRed    = "\u001b[91m"
	colorYellow = "\u001b[93m"
	colorReset  = "\u001b[0m"
)

// ContinuationPrompt is appended to every submitted tool output. It steers
// the orchestrating model to verify answers, reconcile contradicting
// experts, and resolve outstanding ambiguity before concluding.
const ContinuationPrompt = `Based on the information given, what are the most logical next steps or conclusions?
Analyze all previous interaction and ask for clarification from a different expert if one contradicts itself.
Please make sure that the solution is accurate, directly answers the original question, and follows all given constraints.
Additionally, review the final solution or have another expert(s) verify it.
If you were asked for any clarification, please provide it. Remember that experts cannot recall any previous interaction so provide all necessary details.`

// Backend is the slice of the assistants API the driver needs. The
// concrete *assistants.Client satisfies it; tests substitute fakes.
type Backend interface {
	RetrieveRun(ctx context.Context, threadID, runID string) (assistants.Run, error)
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []assistants.ToolOutput) (assistants.Run, error)
	ListMessages(ctx context.Context, threadID, after string) (assistants.MessageList, error)
}

// Options tunes a Driver. Zero values select the defaults noted per field.
type Options struct {
	// PollInterval is the sleep between status fetches (default 1s).
	PollInterval time.Duration
	// PollTimeout bounds one whole Drive call; zero means unbounded.
	PollTimeout time.Duration
	// Output receives the user-facing conversation prints (default stdout).
	Output io.Writer
	// Logger receives diagnostics (default slog.Default()).
	Logger *slog.Logger
}

// Driver owns the orchestration loop for one run at a time. The only
// local mutable state is the last-seen message id inside Drive.
type Driver struct {
	backend  Backend
	tools    []tools.ToolDefinition
	out      io.Writer
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
}

// New wires a Driver to its backend and tool registry.
func New(backend Backend, defs []tools.ToolDefinition, opts Options) *Driver {
	d := &Driver{
		backend:  backend,
		tools:    defs,
		out:      opts.Output,
		logger:   opts.Logger,
		interval: opts.PollInterval,
		timeout:  opts.PollTimeout,
	}
	if d.out == nil {
		d.out = os.Stdout
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.interval <= 0 {
		d.interval = time.Second
	}
	return d
}

// Drive consumes poller output until the run finishes. On requires_action
// it services the first pending tool call; on every other observed status
// it prints messages created since the last listing and exits once the
// run can make no further progress. failed and expired end the loop
// without a distinct exit status, matching the behavior this loop has
// always had.
func (d *Driver) Drive(ctx context.Context, run assistants.Run) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	lastID := ""

	for {
		var err error
		run, err = d.Poll(ctx, run.ThreadID, run.ID)
		if err != nil {
			return err
		}

		if run.Status == assistants.RunStatusRequiresAction {
			run, err = d.serviceAction(ctx, run)
			if err != nil {
				return err
			}
			continue
		}

		list, err := d.backend.ListMessages(ctx, run.ThreadID, lastID)
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}
		if len(list.Data) > 0 {
			lastID = list.Data[len(list.Data)-1].ID
		}
		for _, m := range list.Data {
			fmt.Fprintf(d.out, "%s Assistant: %s %s\n", colorBlue, m.Text(), colorReset)
		}
		telemetry.Emit("messages_listed", map[string]any{
			"turn_id": turnID,
			"count":   len(list.Data),
			"after":   lastID,
		})

		if run.Status.Finished() {
			return nil
		}
	}
}

// serviceAction handles a run blocked in requires_action. Only the first
// pending tool call is serviced. When the handler yields output, it is
// submitted joined with the continuation prompt; when it yields nothing,
// no submission happens and the pending action is left in place.
func (d *Driver) serviceAction(ctx context.Context, run assistants.Run) (assistants.Run, error) {
	turnID, _ := telemetry.TurnIDFromContext(ctx)

	action := run.RequiredAction
	if action == nil || action.SubmitToolOutputs == nil || len(action.SubmitToolOutputs.ToolCalls) == 0 {
		d.logger.Warn("run requires action but lists no tool calls", "run_id", run.ID)
		return run, nil
	}
	call := action.SubmitToolOutputs.ToolCalls[0]

	telemetry.Emit("tool_dispatch", map[string]any{
		"turn_id":      turnID,
		"run_id":       run.ID,
		"tool_call_id": call.ID,
		"function":     call.Function.Name,
	})

	def, ok := tools.Lookup(d.tools, call.Function.Name)
	if !ok {
		d.logger.Warn("unknown tool function requested", "function", call.Function.Name, "tool_call_id", call.ID)
		return run, nil
	}

	output, err := def.Function(ctx, json.RawMessage(call.Function.Arguments))
	if err != nil {
		d.logger.Warn("tool produced no output; leaving action pending",
			"function", call.Function.Name, "error", err)
		return run, nil
	}
	if output == "" {
		d.logger.Warn("tool produced empty output; leaving action pending",
			"function", call.Function.Name)
		return run, nil
	}

	submitted, err := d.backend.SubmitToolOutputs(ctx, run.ThreadID, run.ID, []assistants.ToolOutput{{
		ToolCallID: call.ID,
		Output:     strings.Join([]string{output, ContinuationPrompt}, "\n\n"),
	}})
	if err != nil {
		return run, fmt.Errorf("submit tool outputs: %w", err)
	}
	telemetry.Emit("tool_outputs_submitted", map[string]any{
		"turn_id":      turnID,
		"run_id":       run.ID,
		"tool_call_id": call.ID,
	})
	return submitted, nil
}
