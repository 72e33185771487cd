package assistants_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"metaprompt/internal/assistants"
)

type capture struct {
	method string
	url    string
	header http.Header
	body   []byte
}

type fakeTransport struct {
	respStatus int
	respBody   []byte
	captured   *capture
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var b []byte
	if req.Body != nil {
		b, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	if f.captured != nil {
		f.captured.method = req.Method
		f.captured.url = req.URL.String()
		f.captured.header = req.Header.Clone()
		f.captured.body = b
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(f.respBody)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func newClient(t *testing.T, rt http.RoundTripper) *assistants.Client {
	t.Helper()
	c, err := assistants.New(
		"https://api.test.local/v1",
		"sk-test",
		30*time.Second,
		assistants.WithHTTPClient(&http.Client{Transport: rt}),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNew_MissingAPIKey(t *testing.T) {
	_, err := assistants.New("https://api.test.local/v1", "", time.Second)
	if !errors.Is(err, assistants.ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got %v", err)
	}
}

func TestCreateThreadAndRun_RequestShape(t *testing.T) {
	capReq := &capture{}
	c := newClient(t, &fakeTransport{
		respStatus: 200,
		respBody:   []byte(`{"id":"run_1","thread_id":"thread_1","status":"queued"}`),
		captured:   capReq,
	})

	run, err := c.CreateThreadAndRun(context.Background(), "asst_1", "Plan a trip")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if run.ID != "run_1" || run.ThreadID != "thread_1" || run.Status != assistants.RunStatusQueued {
		t.Fatalf("unexpected run: %+v", run)
	}

	if capReq.method != http.MethodPost {
		t.Errorf("method: got %s", capReq.method)
	}
	if capReq.url != "https://api.test.local/v1/threads/runs" {
		t.Errorf("url: got %s", capReq.url)
	}
	if got := capReq.header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization: got %q", got)
	}
	if got := capReq.header.Get("OpenAI-Beta"); got != "assistants=v2" {
		t.Errorf("OpenAI-Beta: got %q", got)
	}

	var body struct {
		AssistantID string `json:"assistant_id"`
		Thread      struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		} `json:"thread"`
	}
	if err := json.Unmarshal(capReq.body, &body); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, capReq.body)
	}
	if body.AssistantID != "asst_1" {
		t.Errorf("assistant_id: got %q", body.AssistantID)
	}
	if len(body.Thread.Messages) != 1 || body.Thread.Messages[0].Role != "user" || body.Thread.Messages[0].Content != "Plan a trip" {
		t.Errorf("unexpected seed messages: %+v", body.Thread.Messages)
	}
}

func TestCreateThreadAndRun_MissingAssistantID(t *testing.T) {
	c := newClient(t, &fakeTransport{respStatus: 200, respBody: []byte(`{}`)})
	_, err := c.CreateThreadAndRun(context.Background(), "", "hello")
	if !errors.Is(err, assistants.ErrMissingAssistantID) {
		t.Fatalf("want ErrMissingAssistantID, got %v", err)
	}
}

func TestRetrieveRun_URLAndDecode(t *testing.T) {
	capReq := &capture{}
	c := newClient(t, &fakeTransport{
		respStatus: 200,
		respBody: []byte(`{
			"id":"run_1","thread_id":"thread_1","status":"requires_action",
			"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
				{"id":"call_1","type":"function","function":{"name":"contact_expert","arguments":"{\"name\":\"historian\",\"instructions\":\"dates\"}"}}
			]}}
		}`),
		captured: capReq,
	})

	run, err := c.RetrieveRun(context.Background(), "thread_1", "run_1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if capReq.method != http.MethodGet || capReq.url != "https://api.test.local/v1/threads/thread_1/runs/run_1" {
		t.Fatalf("unexpected request: %s %s", capReq.method, capReq.url)
	}
	if run.Status != assistants.RunStatusRequiresAction {
		t.Fatalf("status: got %s", run.Status)
	}
	if run.RequiredAction == nil || run.RequiredAction.SubmitToolOutputs == nil {
		t.Fatal("expected required_action.submit_tool_outputs")
	}
	calls := run.RequiredAction.SubmitToolOutputs.ToolCalls
	if len(calls) != 1 || calls[0].ID != "call_1" || calls[0].Function.Name != "contact_expert" {
		t.Fatalf("unexpected tool calls: %+v", calls)
	}
}

func TestSubmitToolOutputs_Body(t *testing.T) {
	capReq := &capture{}
	c := newClient(t, &fakeTransport{
		respStatus: 200,
		respBody:   []byte(`{"id":"run_1","thread_id":"thread_1","status":"queued"}`),
		captured:   capReq,
	})

	_, err := c.SubmitToolOutputs(context.Background(), "thread_1", "run_1", []assistants.ToolOutput{
		{ToolCallID: "call_1", Output: "answer"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if capReq.url != "https://api.test.local/v1/threads/thread_1/runs/run_1/submit_tool_outputs" {
		t.Fatalf("url: got %s", capReq.url)
	}

	var body struct {
		ToolOutputs []assistants.ToolOutput `json:"tool_outputs"`
	}
	if err := json.Unmarshal(capReq.body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(body.ToolOutputs) != 1 || body.ToolOutputs[0].ToolCallID != "call_1" || body.ToolOutputs[0].Output != "answer" {
		t.Fatalf("unexpected tool outputs: %+v", body.ToolOutputs)
	}
}

func TestListMessages_AfterCursor(t *testing.T) {
	capReq := &capture{}
	c := newClient(t, &fakeTransport{
		respStatus: 200,
		respBody: []byte(`{"object":"list","data":[
			{"id":"msg_2","role":"assistant","content":[{"type":"text","text":{"value":"hello"}}]}
		],"first_id":"msg_2","last_id":"msg_2","has_more":false}`),
		captured: capReq,
	})

	list, err := c.ListMessages(context.Background(), "thread_1", "msg_1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if capReq.url != "https://api.test.local/v1/threads/thread_1/messages?after=msg_1" {
		t.Fatalf("url: got %s", capReq.url)
	}
	if len(list.Data) != 1 || list.Data[0].Text() != "hello" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestListMessages_NoCursor(t *testing.T) {
	capReq := &capture{}
	c := newClient(t, &fakeTransport{
		respStatus: 200,
		respBody:   []byte(`{"object":"list","data":[]}`),
		captured:   capReq,
	})

	if _, err := c.ListMessages(context.Background(), "thread_1", ""); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if capReq.url != "https://api.test.local/v1/threads/thread_1/messages" {
		t.Fatalf("url: got %s", capReq.url)
	}
}

func TestDo_APIError(t *testing.T) {
	c := newClient(t, &fakeTransport{
		respStatus: 400,
		respBody:   []byte(`{"error":{"message":"Expected tool outputs for call_ids [call_1]"}}`),
	})

	_, err := c.SubmitToolOutputs(context.Background(), "thread_1", "run_1", nil)
	var apiErr *assistants.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.StatusCode != 400 {
		t.Errorf("status: got %d", apiErr.StatusCode)
	}
}

func TestMessageText_NoTextBlock(t *testing.T) {
	m := assistants.Message{Content: []assistants.MessageContent{{Type: "image_file"}}}
	if got := m.Text(); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestRunStatus_Finished(t *testing.T) {
	cases := []struct {
		status assistants.RunStatus
		want   bool
	}{
		{assistants.RunStatusQueued, false},
		{assistants.RunStatusInProgress, false},
		{assistants.RunStatusRequiresAction, false},
		{assistants.RunStatusCancelling, false},
		{assistants.RunStatusCompleted, true},
		{assistants.RunStatusExpired, true},
		{assistants.RunStatusFailed, true},
		{assistants.RunStatusCancelled, true},
	}
	for _, tc := range cases {
		if got := tc.status.Finished(); got != tc.want {
			t.Errorf("%s: Finished() = %v, want %v", tc.status, got, tc.want)
		}
	}
}
