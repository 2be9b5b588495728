// Package workflow drives the conversation in which the model searches the graph, writes the
// final query and gets its results summarized.
package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/yaoapp/graphchat/action"
	"github.com/yaoapp/graphchat/chat"
	"github.com/yaoapp/graphchat/history"
	"github.com/yaoapp/graphchat/search"
	"github.com/yaoapp/graphchat/summary"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
)

// DefaultMaxIterations search round-trips before the final query is forced
const DefaultMaxIterations = 20

// ```cypher ... ``` or ``` ... ```
var reFence = regexp.MustCompile("(?s)```(?:[A-Za-z]+[ \\t]*\\n|\\n)?(.*?)```")

// Graph the graph operations the workflow needs
type Graph interface {
	search.Executor
	Schema(ctx context.Context) (*types.GraphSchema, error)
}

// Config the workflow collaborators and settings
type Config struct {
	Client   chat.Client
	Graph    Graph
	History  history.Manager // Optional
	Settings types.WorkflowConfig
}

// Workflow the search orchestrator
type Workflow struct {
	client        chat.Client
	graph         Graph
	searcher      *search.Searcher
	summarizer    *summary.Summarizer
	history       history.Manager
	maxIterations int
	readOnly      bool
}

// Result the outcome of one run
type Result struct {
	ID         string           `json:"id"`
	Final      types.ChatTurn   `json:"final"`
	Turns      []types.ChatTurn `json:"turns"`
	Iterations int              `json:"iterations"` // Search round-trips
	Stopped    bool             `json:"stopped"`    // The model replied STOP before the ceiling
}

// New create a workflow
func New(cfg Config) (*Workflow, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("workflow: chat client is required")
	}
	if cfg.Graph == nil {
		return nil, fmt.Errorf("workflow: graph is required")
	}

	searcher, err := search.New(cfg.Graph, cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("workflow: %w", err)
	}

	iterations := cfg.Settings.MaxIterations
	if iterations <= 0 {
		iterations = DefaultMaxIterations
	}

	return &Workflow{
		client:        cfg.Client,
		graph:         cfg.Graph,
		searcher:      searcher,
		summarizer:    summary.New(cfg.Client, cfg.Settings.SummaryRows),
		history:       cfg.History,
		maxIterations: iterations,
		readOnly:      cfg.Settings.ReadOnly,
	}, nil
}

// MaxIterations returns the search round-trip ceiling
func (w *Workflow) MaxIterations() int {
	return w.maxIterations
}

// Run lets the model search the graph and returns its final query turn. Malformed replies and
// search failures are fed back to the model, only transport failures and cancellation return an error.
func (w *Workflow) Run(ctx context.Context, question string) (*Result, error) {
	res := &Result{ID: uuid.NewString(), Turns: []types.ChatTurn{}}
	logger := log.With(log.F{"run": res.ID})

	schema, err := w.graph.Schema(ctx)
	if err != nil {
		logger.Warn("workflow schema: %s, using the generic description", err.Error())
	}

	prompt := Instructions(question, schema)
	reply, err := w.send(ctx, res, types.SystemTurn(prompt, types.StageSearch))
	if err != nil {
		return nil, err
	}

	for res.Iterations < w.maxIterations {
		act := action.Classify(reply.Content)
		if act.Kind == types.ActionStop {
			res.Stopped = true
			break
		}

		var text string
		if act.IsSearch() {
			text = w.searcher.Dispatch(ctx, act)
		} else {
			logger.Debug("workflow: %s", types.ErrAmbiguousReply.Error())
			text = Correction(prompt)
		}

		res.Iterations++
		reply, err = w.send(ctx, res, types.SystemTurn(text, types.StageSearch))
		if err != nil {
			return nil, err
		}
	}

	if !res.Stopped {
		logger.Info("workflow: %d search round-trips reached, asking for the final query", w.maxIterations)
	}

	res.Final, err = w.send(ctx, res, types.SystemTurn(FinalQuery(question), types.StageFinalQuery))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// send appends the turn, sends the conversation and appends the reply
func (w *Workflow) send(ctx context.Context, res *Result, turn types.ChatTurn) (types.ChatTurn, error) {
	if err := ctx.Err(); err != nil {
		return types.ChatTurn{}, types.Transport(err)
	}

	res.Turns = append(res.Turns, turn)
	reply, err := w.client.Send(ctx, res.Turns)
	if err != nil {
		log.With(log.F{"run": res.ID, "stage": turn.Stage}).Error("workflow send: %s", err.Error())
		return types.ChatTurn{}, types.Transport(err)
	}

	reply.Role = types.RoleAssistant
	if reply.Stage == "" {
		reply.Stage = turn.Stage
	}
	res.Turns = append(res.Turns, reply)
	return reply, nil
}

// ExtractQuery returns the query of a model reply, the content of the first code fence if any
func ExtractQuery(content string) string {
	if m := reFence.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(content)
}
