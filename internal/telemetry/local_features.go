package telemetry

import (
	"context"

	"metaprompt/internal/metrics"
)

// EmitLocalFeatures records basic text features (bytes/runes/words/lines)
// of a piece of text flowing through the loop, labelled by source
// ("user_command", "expert_reply", ...). Cheap local counters only; the
// text itself is never included.
func EmitLocalFeatures(ctx context.Context, source, text string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(text)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"source":           source,
		"text": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
	})
}
