package assistants

// RunStatus is the lifecycle state of a remote run. Transitions are owned
// entirely by the remote service; local code only observes them.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusExpired        RunStatus = "expired"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCancelled      RunStatus = "cancelled"
)

// Finished reports whether the run can never make further progress.
func (s RunStatus) Finished() bool {
	switch s {
	case RunStatusCompleted, RunStatusExpired, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// Run is a remote-side execution of an assistant turn over a thread.
type Run struct {
	ID             string          `json:"id"`
	Object         string          `json:"object"`
	CreatedAt      int64           `json:"created_at"`
	AssistantID    string          `json:"assistant_id"`
	ThreadID       string          `json:"thread_id"`
	Status         RunStatus       `json:"status"`
	RequiredAction *RequiredAction `json:"required_action,omitempty"`
	LastError      *RunError       `json:"last_error,omitempty"`
	Model          string          `json:"model,omitempty"`
}

// RunError carries the remote service's failure detail for a failed run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RequiredAction is present while a run is in requires_action.
type RequiredAction struct {
	Type              string                   `json:"type"`
	SubmitToolOutputs *SubmitToolOutputsAction `json:"submit_tool_outputs,omitempty"`
}

// SubmitToolOutputsAction lists the tool calls the run is blocked on.
type SubmitToolOutputsAction struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// ToolCall is a structured request from the remote assistant to perform a
// local action and return a result.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the requested function and carries its raw JSON
// argument text.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolOutput is built locally and submitted back to unblock a run.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// Message is one entry in a remote thread.
type Message struct {
	ID        string           `json:"id"`
	Object    string           `json:"object"`
	CreatedAt int64            `json:"created_at"`
	ThreadID  string           `json:"thread_id"`
	Role      string           `json:"role"`
	Content   []MessageContent `json:"content"`
}

// Text returns the message's primary text content, or "" when the message
// carries no text block.
func (m Message) Text() string {
	for _, c := range m.Content {
		if c.Type == "text" {
			return c.Text.Value
		}
	}
	return ""
}

// MessageContent is one content block of a message.
type MessageContent struct {
	Type string      `json:"type"`
	Text MessageText `json:"text"`
}

// MessageText holds the text value of a content block.
type MessageText struct {
	Value string `json:"value"`
}

// MessageList is a page of thread messages.
type MessageList struct {
	Object  string    `json:"object"`
	Data    []Message `json:"data"`
	FirstID string    `json:"first_id"`
	LastID  string    `json:"last_id"`
	HasMore bool      `json:"has_more"`
}

// createThreadAndRunRequest seeds a new thread with one user message and
// starts a run against the given assistant.
type createThreadAndRunRequest struct {
	AssistantID string        `json:"assistant_id"`
	Thread      threadRequest `json:"thread"`
}

type threadRequest struct {
	Messages []messageRequest `json:"messages"`
}

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type submitToolOutputsRequest struct {
	ToolOutputs []ToolOutput `json:"tool_outputs"`
}
