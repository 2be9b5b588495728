package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/graphchat/types"
)

func TestURL(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", URL("https://api.openai.com", "/chat/completions"))
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", URL("https://api.openai.com/", "chat/completions"))
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", URL("https://api.openai.com", "/v1/chat/completions"))
	assert.Equal(t, "http://localhost:11434/chat/completions", URL("http://localhost:11434", "/chat/completions"))
}

func TestNew(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	client, err := New(Options{Key: "sk-test-1234"})
	require.NoError(t, err)
	setting := client.Setting()
	assert.Equal(t, DefaultHost, setting["host"])
	assert.Equal(t, DefaultModel, setting["model"])
	assert.Equal(t, "****1234", setting["key"])
	assert.Nil(t, client.limiter)

	client, err = New(Options{Key: "k", RateLimit: 2})
	require.NoError(t, err)
	assert.NotNil(t, client.limiter)
}

func TestOptionsFrom(t *testing.T) {
	os.Setenv("GRAPHCHAT_TEST_LLM_KEY", "sk-env")
	defer os.Unsetenv("GRAPHCHAT_TEST_LLM_KEY")

	options := OptionsFrom(types.LLMConfig{Key: "$ENV.GRAPHCHAT_TEST_LLM_KEY", Model: "gpt-4o-mini", Timeout: 30})
	assert.Equal(t, "sk-env", options.Key)
	assert.Equal(t, "gpt-4o-mini", options.Model)
	assert.Equal(t, 30*time.Second, options.Timeout)
}

func TestSend(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		jsoniter.Unmarshal(body, &received)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","model":"test","choices":[{"index":0,"message":{"role":"assistant","content":"Entity Search: aspirin"}}],"usage":{"total_tokens":12}}`))
	}))
	defer server.Close()

	client, err := New(Options{Host: server.URL, Key: "sk-test", Model: "test", Temperature: 0.2})
	require.NoError(t, err)

	reply, err := client.Send(context.Background(), []types.ChatTurn{
		types.SystemTurn("You explore a graph.", types.StageSearch),
		types.NewTurn(types.RoleUser, "What treats headaches?", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, types.RoleAssistant, reply.Role)
	assert.Equal(t, "Entity Search: aspirin", reply.Content)

	assert.Equal(t, "test", received["model"])
	assert.Equal(t, 0.2, received["temperature"])
	messages := received["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "What treats headaches?", messages[1].(map[string]interface{})["content"])
}

func TestSendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("case") {
		case "empty":
			w.Write([]byte(`{"choices":[]}`))
		default:
			w.WriteHeader(429)
			w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
		}
	}))
	defer server.Close()

	client, err := New(Options{Host: server.URL, Key: "k"})
	require.NoError(t, err)
	client.url = server.URL + "/chat/completions"

	_, err = client.Send(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, types.TransportFailure, types.KindOf(err))
	assert.Contains(t, err.Error(), "Rate limit reached")

	client.url = server.URL + "/chat/completions?case=empty"
	_, err = client.Send(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, types.TransportFailure, types.KindOf(err))

	// Unreachable host
	client.url = "http://127.0.0.1:1/chat/completions"
	_, err = client.Send(context.Background(), nil)
	assert.Equal(t, types.TransportFailure, types.KindOf(err))
}

func TestSendCanceledByLimiter(t *testing.T) {
	client, err := New(Options{Host: "http://127.0.0.1:1", Key: "k", RateLimit: 0.001, Burst: 1})
	require.NoError(t, err)
	client.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.Send(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, types.TransportFailure, types.KindOf(err))
}

func TestSendIntegration(t *testing.T) {
	key := os.Getenv("OPENAI_TEST_KEY")
	if key == "" {
		t.Skip("OPENAI_TEST_KEY environment variable not set")
	}

	client, err := New(Options{Key: key, Host: os.Getenv("OPENAI_TEST_HOST"), Model: os.Getenv("OPENAI_TEST_MODEL")})
	require.NoError(t, err)

	reply, err := client.Send(context.Background(), []types.ChatTurn{types.NewTurn(types.RoleUser, "Reply with the single word STOP.", "")})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Content)
}
