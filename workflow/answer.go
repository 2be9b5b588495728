package workflow

import (
	"context"
	"time"

	"github.com/yaoapp/graphchat/binding"
	"github.com/yaoapp/graphchat/graph"
	"github.com/yaoapp/graphchat/pattern"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
)

// Answer the answer to one question
type Answer struct {
	ID        string              `json:"id"`
	SessionID string              `json:"session_id,omitempty"`
	Question  string              `json:"question"`
	Query     string              `json:"query"`
	Bindings  *types.Bindings     `json:"bindings,omitempty"`
	Pattern   *types.GraphPattern `json:"pattern"`
	Summary   string              `json:"summary"`
	Error     string              `json:"error,omitempty"`
	ErrorKind string              `json:"error_kind,omitempty"`
	Run       *Result             `json:"run"`
}

// Answer runs the search loop, executes the final query, summarizes the results and records the
// answer in the session history. A failing query is explained, not returned as an error.
func (w *Workflow) Answer(ctx context.Context, question string, session string) (*Answer, error) {
	run, err := w.Run(ctx, question)
	if err != nil {
		return nil, err
	}

	query := ExtractQuery(run.Final.Content)
	ans := &Answer{
		ID:        run.ID,
		SessionID: session,
		Question:  question,
		Query:     query,
		Pattern:   pattern.Extract(query),
		Run:       run,
	}

	bindings, err := w.Query(ctx, query, nil)
	if err != nil {
		ans.Error = err.Error()
		ans.ErrorKind = types.KindOf(err).String()
		ans.Summary, err = w.summarizer.Explain(ctx, question, query, err)
		if err != nil {
			return nil, err
		}
	} else {
		ans.Bindings = bindings
		ans.Summary, err = w.summarizer.Summarize(ctx, question, query, bindings)
		if err != nil {
			return nil, err
		}
	}

	w.record(ans)
	return ans, nil
}

// ErrWriteQuery a write query refused by a read-only workflow
var ErrWriteQuery = &types.StoreError{Message: "write queries are disabled, only MATCH, RETURN, WITH, UNWIND, CALL and SHOW queries run"}

// Query executes a query and normalizes its result, write queries are refused in read-only mode
func (w *Workflow) Query(ctx context.Context, query string, params map[string]interface{}) (*types.Bindings, error) {
	if w.readOnly && !graph.IsReadOnly(query) {
		log.With(log.F{"query": query}).Warn("workflow refused a write query")
		return nil, ErrWriteQuery
	}

	res, err := w.graph.Execute(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return binding.ToBindings(res), nil
}

// record appends the answer to the session history, failures are logged only
func (w *Workflow) record(ans *Answer) {
	if w.history == nil || ans.SessionID == "" {
		return
	}

	entry := types.HistoryEntry{
		ID:        ans.ID,
		Question:  ans.Question,
		Query:     ans.Query,
		Summary:   ans.Summary,
		Error:     ans.Error,
		Turns:     ans.Run.Turns,
		CreatedAt: time.Now(),
	}
	if ans.Bindings != nil {
		entry.Rows = len(ans.Bindings.Bindings)
	}

	if err := w.history.Append(ans.SessionID, entry); err != nil {
		log.With(log.F{"session": ans.SessionID}).Warn("workflow history: %s", err.Error())
	}
}
