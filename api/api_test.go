package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/graphchat/history"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/graphchat/workflow"
)

type fakeService struct {
	answer   *workflow.Answer
	bindings *types.Bindings
	err      error
	sessions []string
}

func (s *fakeService) Answer(ctx context.Context, question string, session string) (*workflow.Answer, error) {
	s.sessions = append(s.sessions, session)
	if s.err != nil {
		return nil, s.err
	}
	ans := *s.answer
	ans.Question = question
	ans.SessionID = session
	return &ans, nil
}

func (s *fakeService) Query(ctx context.Context, query string, params map[string]interface{}) (*types.Bindings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bindings, nil
}

func testRouter(t *testing.T, service Service, hist history.Manager, allows ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(service, hist, allows...).Routes(router, "/api")
	return router
}

func request(router *gin.Engine, method, path string, body string, headers ...string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, req)
	return response
}

func TestAsk(t *testing.T) {
	service := &fakeService{answer: &workflow.Answer{ID: "run-1", Query: "MATCH (n) RETURN n", Summary: "done"}}
	hist, err := history.New(types.HistoryConfig{})
	require.NoError(t, err)
	router := testRouter(t, service, hist)

	response := request(router, "POST", "/api/ask", `{"question":"what treats flu?"}`)
	require.Equal(t, 200, response.Code)

	var ans workflow.Answer
	require.NoError(t, jsoniter.Unmarshal(response.Body.Bytes(), &ans))
	assert.Equal(t, "what treats flu?", ans.Question)
	assert.Equal(t, "done", ans.Summary)
	assert.NotEmpty(t, ans.SessionID)

	response = request(router, "POST", "/api/ask", `{"question":"again","session":"s1"}`)
	require.Equal(t, 200, response.Code)
	assert.Equal(t, "s1", service.sessions[1])
}

func TestAskErrors(t *testing.T) {
	service := &fakeService{err: &types.TransportError{Err: context.DeadlineExceeded}}
	router := testRouter(t, service, nil)

	response := request(router, "POST", "/api/ask", `{"question":"  "}`)
	assert.Equal(t, 400, response.Code)

	response = request(router, "POST", "/api/ask", `not json`)
	assert.Equal(t, 400, response.Code)

	response = request(router, "POST", "/api/ask", `{"question":"q"}`)
	assert.Equal(t, 502, response.Code)
	assert.Contains(t, response.Body.String(), "chat transport")
	assert.Equal(t, []string{""}, service.sessions)
}

func TestQuery(t *testing.T) {
	service := &fakeService{bindings: &types.Bindings{
		Variables: []string{"n"},
		Bindings:  []map[string]types.Binding{{"n": {Type: types.BindingNumber, Value: "1"}}},
	}}
	router := testRouter(t, service, nil)

	response := request(router, "POST", "/api/query", `{"query":"RETURN 1 AS n"}`)
	require.Equal(t, 200, response.Code)
	assert.JSONEq(t, `{"variables":["n"],"bindings":[{"n":{"type":"number","value":"1"}}]}`, response.Body.String())

	response = request(router, "POST", "/api/query", `{"query":""}`)
	assert.Equal(t, 400, response.Code)

	service.err = types.ErrNotConnected
	response = request(router, "POST", "/api/query", `{"query":"RETURN 1"}`)
	assert.Equal(t, 503, response.Code)

	service.err = &types.StoreError{Message: "Invalid input"}
	response = request(router, "POST", "/api/query", `{"query":"RETURN"}`)
	assert.Equal(t, 400, response.Code)
	assert.JSONEq(t, `{"code":400,"message":"Invalid input"}`, response.Body.String())
}

func TestPattern(t *testing.T) {
	router := testRouter(t, &fakeService{}, nil)

	response := request(router, "POST", "/api/pattern", `{"query":"(a:Person)-[:KNOWS]->(b:Person)"}`)
	require.Equal(t, 200, response.Code)

	var p types.GraphPattern
	require.NoError(t, jsoniter.Unmarshal(response.Body.Bytes(), &p))
	assert.Len(t, p.Nodes, 2)
	require.Len(t, p.Relationships, 1)
	assert.Equal(t, "KNOWS", p.Relationships[0].Type)

	response = request(router, "POST", "/api/pattern", `{"query":"not a query"}`)
	require.Equal(t, 200, response.Code)
	assert.JSONEq(t, `{"nodes":[],"relationships":[]}`, response.Body.String())
}

func TestHistory(t *testing.T) {
	hist, err := history.New(types.HistoryConfig{})
	require.NoError(t, err)
	require.NoError(t, hist.Append("s1", history.Entry{Question: "q1"}))
	router := testRouter(t, &fakeService{}, hist)

	response := request(router, "GET", "/api/history/s1", "")
	require.Equal(t, 200, response.Code)
	var entries []history.Entry
	require.NoError(t, jsoniter.Unmarshal(response.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "q1", entries[0].Question)

	response = request(router, "DELETE", "/api/history/s1", "")
	assert.Equal(t, 204, response.Code)

	response = request(router, "GET", "/api/history/s1", "")
	assert.JSONEq(t, `[]`, response.Body.String())

	router = testRouter(t, &fakeService{}, nil)
	response = request(router, "GET", "/api/history/s1", "")
	assert.Equal(t, 404, response.Code)
}

func TestCrossDomain(t *testing.T) {
	router := testRouter(t, &fakeService{}, nil, "app.example.com")

	response := request(router, "OPTIONS", "/api/pattern", "", "Referer", "https://app.example.com/page")
	assert.Equal(t, 204, response.Code)
	assert.Equal(t, "https://app.example.com", response.Header().Get("Access-Control-Allow-Origin"))

	response = request(router, "POST", "/api/pattern", `{"query":"(a)"}`, "Referer", "https://evil.example.com/")
	assert.Equal(t, 403, response.Code)

	response = request(router, "POST", "/api/pattern", `{"query":"(a)"}`)
	assert.Equal(t, 200, response.Code)
}
