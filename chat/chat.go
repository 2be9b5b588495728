// Package chat defines the chat transport the workflow talks to.
package chat

import (
	"context"

	"github.com/yaoapp/graphchat/types"
)

// Client sends the conversation so far and returns the assistant reply
type Client interface {
	Send(ctx context.Context, turns []types.ChatTurn) (types.ChatTurn, error)
}

// ClientFunc adapts a function to the Client interface
type ClientFunc func(ctx context.Context, turns []types.ChatTurn) (types.ChatTurn, error)

// Send implements Client
func (f ClientFunc) Send(ctx context.Context, turns []types.ChatTurn) (types.ChatTurn, error) {
	return f(ctx, turns)
}
