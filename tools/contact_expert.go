package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"metaprompt/internal/telemetry"
)

const (
	colorBlue  = "\u001b[94m"
	colorCyan  = "\u001b[96m"
	colorReset = "\u001b[0m"
)

// ExpertContacter performs one zero-shot persona'd completion request.
type ExpertContacter interface {
	Contact(ctx context.Context, name, persona, instructions string) (string, error)
}

type ContactExpertInput struct {
	Name         string `json:"name" jsonschema_description:"Short label for the expert, e.g. 'expert travel agent'."`
	Persona      string `json:"persona,omitempty" jsonschema_description:"Free-text description of the expert to role-play."`
	Instructions string `json:"instructions" jsonschema_description:"The task or question for the expert. Experts cannot recall previous interactions, so include all necessary details."`
}

var ContactExpertInputSchema = GenerateSchema[ContactExpertInput]()

// ContactExpertDefinition wires the contact_expert function to the given
// caller. The expert's reply is the tool output text; a failed call is
// reported as an error and the driver submits nothing that cycle.
func ContactExpertDefinition(ex ExpertContacter) ToolDefinition {
	return ToolDefinition{
		Name:        "contact_expert",
		Description: "Contact a named expert persona with self-contained instructions and return the expert's reply.",
		InputSchema: ContactExpertInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in ContactExpertInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid contact_expert arguments: %w", err)
			}
			if in.Name == "" || in.Instructions == "" {
				return "", fmt.Errorf("contact_expert requires name and instructions")
			}

			fmt.Printf("%s %s: %s\n%s %s\n", colorBlue, in.Name, in.Persona, in.Instructions, colorReset)

			turnID, _ := telemetry.TurnIDFromContext(ctx)
			start := time.Now()
			reply, err := ex.Contact(ctx, in.Name, in.Persona, in.Instructions)
			telemetry.Emit("expert_call", map[string]any{
				"turn_id":     turnID,
				"expert":      in.Name,
				"duration_ms": time.Since(start).Milliseconds(),
				"reply_size":  len(reply),
				"failed":      err != nil,
			})
			if err != nil {
				// Recoverable: print and report "no answer", as the driver
				// treats absence, not error codes, as the no-op signal.
				fmt.Println(err)
				return "", fmt.Errorf("contact expert: %w", err)
			}

			fmt.Printf("%s %s: %s %s\n", colorCyan, in.Name, reply, colorReset)
			telemetry.EmitLocalFeatures(ctx, "expert_reply", reply)
			return reply, nil
		},
	}
}
