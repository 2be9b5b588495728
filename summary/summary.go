// Package summary turns a query result or a query failure into a plain-language answer.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaoapp/graphchat/chat"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
)

// DefaultMaxRows rows shown to the model when summarizing
const DefaultMaxRows = 20

// NoResults the answer given for an empty result, the model is not asked
const NoResults = "The query returned no results."

// Summarizer the summarization stage
type Summarizer struct {
	client  chat.Client
	maxRows int
}

// New create a summarizer, maxRows <= 0 means DefaultMaxRows
func New(client chat.Client, maxRows int) *Summarizer {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Summarizer{client: client, maxRows: maxRows}
}

// Summarize asks the model to answer the question from the bindings
func (s *Summarizer) Summarize(ctx context.Context, question string, query string, bindings *types.Bindings) (string, error) {
	if bindings == nil || len(bindings.Bindings) == 0 {
		return NoResults, nil
	}

	prompt := fmt.Sprintf(summaryPrompt, question, query, Table(bindings, s.maxRows))
	return s.send(ctx, prompt, types.StageSummary)
}

// Explain asks the model to explain why the query failed
func (s *Summarizer) Explain(ctx context.Context, question string, query string, err error) (string, error) {
	if err == nil {
		return "", nil
	}

	prompt := fmt.Sprintf(explainPrompt, question, query, types.KindOf(err), err.Error())
	return s.send(ctx, prompt, types.StageExplain)
}

func (s *Summarizer) send(ctx context.Context, prompt string, stage string) (string, error) {
	if s.client == nil {
		return "", &types.TransportError{Err: fmt.Errorf("chat client is not set")}
	}

	reply, err := s.client.Send(ctx, []types.ChatTurn{types.SystemTurn(prompt, stage)})
	if err != nil {
		log.With(log.F{"stage": stage}).Error("summary: %s", err.Error())
		return "", types.Transport(err)
	}
	return strings.TrimSpace(reply.Content), nil
}

// Table renders the bindings as one line per row, at most maxRows rows
func Table(bindings *types.Bindings, maxRows int) string {
	if bindings == nil {
		return ""
	}

	lines := []string{strings.Join(bindings.Variables, " | ")}
	for i, row := range bindings.Bindings {
		if maxRows > 0 && i >= maxRows {
			lines = append(lines, fmt.Sprintf("... %d more rows", len(bindings.Bindings)-maxRows))
			break
		}

		cells := make([]string, 0, len(bindings.Variables))
		for _, name := range bindings.Variables {
			cells = append(cells, row[name].Value)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return strings.Join(lines, "\n")
}

const summaryPrompt = `You answer questions about a graph database.
Question: %s

The following query was run:
%s

Results (columns separated by |):
%s

Answer the question in plain language using only these results. Do not mention the query.`

const explainPrompt = `You answer questions about a graph database.
Question: %s

The following query was run:
%s

It failed (%s): %s

Explain in plain language why no answer could be produced and what the user could ask instead.`
