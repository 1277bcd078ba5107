package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, AssistantID: "asst_1"})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_SessionExists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/threads/thread_ok":
			writeJSON(w, http.StatusOK, `{"id":"thread_ok","object":"thread"}`)
		case "/threads/thread_gone":
			writeJSON(w, http.StatusNotFound, `{"error":{"message":"No thread found","type":"invalid_request_error"}}`)
		default:
			writeJSON(w, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)
		}
	})

	ok, err := c.SessionExists(context.Background(), "thread_ok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SessionExists(context.Background(), "thread_gone")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.SessionExists(context.Background(), "thread_err")
	assert.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestClient_StartRunAndToolCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/threads/t1/runs":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "asst_1", body["assistant_id"])
			writeJSON(w, http.StatusOK, `{"id":"run_1","thread_id":"t1","status":"queued"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/threads/t1/runs/run_1":
			writeJSON(w, http.StatusOK, `{"id":"run_1","thread_id":"t1","status":"requires_action",
				"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
					{"id":"call_1","type":"function","function":{"name":"export_functional_specification","arguments":"{\"format\":\"txt\"}"}}
				]}}}`)
		default:
			http.NotFound(w, r)
		}
	})

	run, err := c.StartRun(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, run.Status)
	assert.True(t, run.Status.Pending())

	run, err = c.GetRunStatus(context.Background(), "t1", "run_1")
	require.NoError(t, err)
	require.Len(t, run.ToolCalls, 1)
	assert.Equal(t, "call_1", run.ToolCalls[0].ID)
	assert.Equal(t, "export_functional_specification", run.ToolCalls[0].Name)
	assert.JSONEq(t, `{"format":"txt"}`, string(run.ToolCalls[0].Arguments))
}

func TestClient_MalformedRuns(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"status desconhecido", `{"id":"run_1","thread_id":"t1","status":"paused"}`},
		{"requires_action sem chamadas", `{"id":"run_1","thread_id":"t1","status":"requires_action"}`},
		{"argumentos inválidos", `{"id":"run_1","thread_id":"t1","status":"requires_action",
			"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
				{"id":"call_1","type":"function","function":{"name":"f","arguments":"{nao json"}}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			})
			_, err := c.GetRunStatus(context.Background(), "t1", "run_1")
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestClient_SubmitToolOutputs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/t1/runs/run_1/submit_tool_outputs", r.URL.Path)
		var req openai.SubmitToolOutputsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.ToolOutputs, 2) {
			assert.Equal(t, "call_2", req.ToolOutputs[1].ToolCallID)
		}
		writeJSON(w, http.StatusOK, `{"id":"run_1","thread_id":"t1","status":"in_progress"}`)
	})

	run, err := c.SubmitToolOutputs(context.Background(), "t1", "run_1", []ToolOutput{
		{CallID: "call_1", Output: `{"status":"success"}`},
		{CallID: "call_2", Output: `{"status":"error"}`},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, run.Status)
}

func TestClient_ListMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		assert.Equal(t, "run_1", r.URL.Query().Get("run_id"))
		writeJSON(w, http.StatusOK, `{"object":"list","data":[
			{"id":"m3","role":"assistant","content":[{"type":"text","text":{"value":"resposta nova","annotations":[]}}]},
			{"id":"m2","role":"user","content":[{"type":"text","text":{"value":"pergunta","annotations":[]}}]},
			{"id":"m1","role":"assistant","content":[{"type":"image_file","image_file":{"file_id":"f"}}]}
		]}`)
	})

	msgs, err := c.ListMessages(context.Background(), "t1", "assistant", "run_1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "resposta nova", msgs[0].Text)
	assert.True(t, msgs[0].HasText())
	assert.False(t, msgs[1].HasText())
}

func TestClient_EnsureAssistant(t *testing.T) {
	var created atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		created.Add(1)
		body, _ := io.ReadAll(r.Body)
		assert.True(t, strings.Contains(string(body), "export_functional_specification"))
		writeJSON(w, http.StatusOK, `{"id":"asst_new","object":"assistant"}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{APIKey: "sk", BaseURL: srv.URL})
	_, err := c.StartRun(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrAssistantNotConfigured)

	tools := []openai.AssistantTool{{
		Type:     openai.AssistantToolTypeFunction,
		Function: &openai.FunctionDefinition{Name: "export_functional_specification", Parameters: map[string]any{"type": "object"}},
	}}
	id, err := c.EnsureAssistant(context.Background(), tools)
	require.NoError(t, err)
	assert.Equal(t, "asst_new", id)

	id, err = c.EnsureAssistant(context.Background(), tools)
	require.NoError(t, err)
	assert.Equal(t, "asst_new", id)
	assert.Equal(t, int32(1), created.Load())
}
