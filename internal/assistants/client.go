package assistants

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"metaprompt/internal/telemetry"
)

// Client is a thin typed client for the handful of Assistants v2 endpoints
// this loop needs: create-thread-and-run, retrieve run, submit tool
// outputs, list messages.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client; tests use this to
// install a fake transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the given API base URL (e.g.
// "https://api.openai.com/v1").
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateThreadAndRun seeds a new thread with a single user message and
// starts a run of the given assistant over it.
func (c *Client) CreateThreadAndRun(ctx context.Context, assistantID, userMessage string) (Run, error) {
	if assistantID == "" {
		return Run{}, ErrMissingAssistantID
	}
	req := createThreadAndRunRequest{
		AssistantID: assistantID,
		Thread: threadRequest{
			Messages: []messageRequest{{Role: "user", Content: userMessage}},
		},
	}
	var run Run
	if err := c.do(ctx, http.MethodPost, "/threads/runs", "thread_and_run", req, &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// RetrieveRun fetches the current snapshot of a run.
func (c *Client) RetrieveRun(ctx context.Context, threadID, runID string) (Run, error) {
	path := fmt.Sprintf("/threads/%s/runs/%s", url.PathEscape(threadID), url.PathEscape(runID))
	var run Run
	if err := c.do(ctx, http.MethodGet, path, "run_retrieve", nil, &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// SubmitToolOutputs posts tool outputs back to a run blocked in
// requires_action. Each output must reference a pending tool call id or
// the remote service rejects the submission.
func (c *Client) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Run, error) {
	path := fmt.Sprintf("/threads/%s/runs/%s/submit_tool_outputs", url.PathEscape(threadID), url.PathEscape(runID))
	var run Run
	if err := c.do(ctx, http.MethodPost, path, "submit_tool_outputs", submitToolOutputsRequest{ToolOutputs: outputs}, &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListMessages returns the thread's messages, scoped to those created
// after the given message id when after is non-empty.
func (c *Client) ListMessages(ctx context.Context, threadID, after string) (MessageList, error) {
	path := fmt.Sprintf("/threads/%s/messages", url.PathEscape(threadID))
	if after != "" {
		path += "?after=" + url.QueryEscape(after)
	}
	var list MessageList
	if err := c.do(ctx, http.MethodGet, path, "messages_list", nil, &list); err != nil {
		return MessageList{}, err
	}
	return list, nil
}

// do performs one request against the API, decoding a 2xx body into out.
// label names the exchange for payload persistence.
func (c *Client) do(ctx context.Context, method, path, label string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		telemetry.PersistPayload(label+"_request", b)
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	telemetry.PersistPayload(label+"_response", respBody)

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
