package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/graphchat/chat"
	"github.com/yaoapp/graphchat/types"
)

type recorder struct {
	calls [][]types.ChatTurn
	reply string
	err   error
}

func (r *recorder) client() chat.Client {
	return chat.ClientFunc(func(ctx context.Context, turns []types.ChatTurn) (types.ChatTurn, error) {
		r.calls = append(r.calls, turns)
		if r.err != nil {
			return types.ChatTurn{}, r.err
		}
		return types.NewTurn(types.RoleAssistant, r.reply, ""), nil
	})
}

func bindings(rows int) *types.Bindings {
	b := &types.Bindings{Variables: []string{"id", "n"}, Bindings: []map[string]types.Binding{}}
	for i := 0; i < rows; i++ {
		b.Bindings = append(b.Bindings, map[string]types.Binding{
			"id": {Type: types.BindingString, Value: "aspirin"},
			"n":  {Type: types.BindingNumber, Value: "3"},
		})
	}
	return b
}

func TestSummarize(t *testing.T) {
	r := &recorder{reply: "  Aspirin treats three conditions.\n"}
	s := New(r.client(), 0)

	answer, err := s.Summarize(context.Background(), "what does aspirin treat?", "MATCH (n) RETURN n", bindings(1))
	require.NoError(t, err)
	assert.Equal(t, "Aspirin treats three conditions.", answer)

	require.Len(t, r.calls, 1)
	require.Len(t, r.calls[0], 1)
	turn := r.calls[0][0]
	assert.Equal(t, types.RoleSystem, turn.Role)
	assert.Equal(t, types.StageSummary, turn.Stage)
	assert.Contains(t, turn.Content, "what does aspirin treat?")
	assert.Contains(t, turn.Content, "MATCH (n) RETURN n")
	assert.Contains(t, turn.Content, "aspirin | 3")
}

func TestSummarizeNoRows(t *testing.T) {
	r := &recorder{reply: "unused"}
	s := New(r.client(), 0)

	answer, err := s.Summarize(context.Background(), "q", "MATCH (n) RETURN n", bindings(0))
	require.NoError(t, err)
	assert.Equal(t, NoResults, answer)

	answer, err = s.Summarize(context.Background(), "q", "MATCH (n) RETURN n", nil)
	require.NoError(t, err)
	assert.Equal(t, NoResults, answer)
	assert.Empty(t, r.calls)
}

func TestSummarizeTransportError(t *testing.T) {
	r := &recorder{err: errors.New("connection reset")}
	s := New(r.client(), 0)

	_, err := s.Summarize(context.Background(), "q", "MATCH (n) RETURN n", bindings(1))
	require.Error(t, err)
	assert.Equal(t, types.TransportFailure, types.KindOf(err))

	// An error that is already a transport error is not wrapped twice
	r.err = &types.TransportError{Err: errors.New("timeout")}
	_, err = s.Summarize(context.Background(), "q", "MATCH (n) RETURN n", bindings(1))
	require.Error(t, err)
	assert.Equal(t, "chat transport: timeout", err.Error())
}

func TestSummarizeNoClient(t *testing.T) {
	s := New(nil, 0)
	_, err := s.Summarize(context.Background(), "q", "MATCH (n) RETURN n", bindings(1))
	assert.Equal(t, types.TransportFailure, types.KindOf(err))
}

func TestExplain(t *testing.T) {
	r := &recorder{reply: "The database is offline."}
	s := New(r.client(), 0)

	answer, err := s.Explain(context.Background(), "q", "MATCH (n) RETURN n", types.ErrNotConnected)
	require.NoError(t, err)
	assert.Equal(t, "The database is offline.", answer)

	require.Len(t, r.calls, 1)
	turn := r.calls[0][0]
	assert.Equal(t, types.StageExplain, turn.Stage)
	assert.Contains(t, turn.Content, "store_unreachable")
	assert.Contains(t, turn.Content, "graph store is not connected")

	answer, err = s.Explain(context.Background(), "q", "MATCH (n) RETURN n", nil)
	require.NoError(t, err)
	assert.Empty(t, answer)
	assert.Len(t, r.calls, 1)
}

func TestTable(t *testing.T) {
	assert.Equal(t, "id | n\naspirin | 3\naspirin | 3", Table(bindings(2), 0))
	assert.Equal(t, "id | n\naspirin | 3\n... 2 more rows", Table(bindings(3), 1))
	assert.Equal(t, "", Table(nil, 5))

	// Missing cells render empty
	b := &types.Bindings{Variables: []string{"a", "b"}, Bindings: []map[string]types.Binding{{"a": {Type: types.BindingString, Value: "x"}}}}
	assert.Equal(t, "a | b\nx | ", Table(b, 0))
}
