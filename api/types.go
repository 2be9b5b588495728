package api

import (
	"context"

	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/graphchat/workflow"
)

// Service the operations served over HTTP
type Service interface {
	Answer(ctx context.Context, question string, session string) (*workflow.Answer, error)
	Query(ctx context.Context, query string, params map[string]interface{}) (*types.Bindings, error)
}

// AskRequest POST /ask
type AskRequest struct {
	Question string `json:"question"`
	Session  string `json:"session,omitempty"`
}

// QueryRequest POST /query
type QueryRequest struct {
	Query  string                 `json:"query"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// PatternRequest POST /pattern
type PatternRequest struct {
	Query string `json:"query"`
}
