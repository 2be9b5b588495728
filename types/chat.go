package types

import "time"

// Role the role of a chat turn
type Role string

// Chat roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Stage labels carried by chat turns, for observability only
const (
	StageSearch     = "search"
	StageFinalQuery = "final_query"
	StageSummary    = "summary"
	StageExplain    = "explain"
)

// ChatTurn one message of a conversation with the model
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Stage   string `json:"stage,omitempty"` // Never branched on
}

// NewTurn create a new chat turn
func NewTurn(role Role, content string, stage string) ChatTurn {
	return ChatTurn{Role: role, Content: content, Stage: stage}
}

// SystemTurn create a system turn
func SystemTurn(content string, stage string) ChatTurn {
	return NewTurn(RoleSystem, content, stage)
}

// HistoryEntry one answered question as recorded by the history managers
type HistoryEntry struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Question  string     `json:"question"`
	Query     string     `json:"query,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	Error     string     `json:"error,omitempty"`
	Rows      int        `json:"rows"`
	Turns     []ChatTurn `json:"turns,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
