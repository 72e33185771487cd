package driver

import (
	"context"
	"fmt"
	"time"

	"metaprompt/internal/assistants"
	"metaprompt/internal/telemetry"
)

// Poll re-fetches the run every poll interval until its status is
// completed, expired, failed, or requires_action, printing one status
// line per observation. It returns the latest run snapshot. The only ways
// out of a run stuck in queued/in_progress are ctx cancellation and the
// driver's poll timeout.
func (d *Driver) Poll(ctx context.Context, threadID, runID string) (assistants.Run, error) {
	turnID, _ := telemetry.TurnIDFromContext(ctx)

	for attempt := 1; ; attempt++ {
		run, err := d.backend.RetrieveRun(ctx, threadID, runID)
		if err != nil {
			return assistants.Run{}, fmt.Errorf("retrieve run %s: %w", runID, err)
		}

		telemetry.Emit("run_poll", map[string]any{
			"turn_id": turnID,
			"run_id":  run.ID,
			"status":  string(run.Status),
			"attempt": attempt,
		})

		switch run.Status {
		case assistants.RunStatusCompleted:
			fmt.Fprintf(d.out, "%s Run is completed.%s\n", colorGreen, colorReset)
			return run, nil
		case assistants.RunStatusExpired, assistants.RunStatusFailed, assistants.RunStatusCancelled:
			fmt.Fprintf(d.out, "%sRun is %s.%s\n", colorRed, run.Status, colorReset)
			return run, nil
		case assistants.RunStatusRequiresAction:
			fmt.Fprintf(d.out, "%s Assistant: running function... %s %s\n", colorYellow, run.Status, colorReset)
			return run, nil
		default:
			fmt.Fprintf(d.out, "%s Assistant: run is not yet completed. Waiting... %s %s\n", colorYellow, run.Status, colorReset)
			select {
			case <-ctx.Done():
				return assistants.Run{}, ctx.Err()
			case <-time.After(d.interval):
			}
		}
	}
}
