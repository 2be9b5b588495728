// Package graph runs queries against a graph store and aligns the results into rows.
package graph

import (
	"context"
	"errors"
	"time"

	"github.com/yaoapp/graphchat/store"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
)

// Store the interface of a graph store connection
type Store interface {
	IsConnected() bool
	Run(ctx context.Context, query string, params map[string]interface{}) (*RawResult, error)
	Close() error
}

// RawResult the records returned by a store, records may be ragged
type RawResult struct {
	Keys    []string
	Records [][]interface{}
	Summary types.QuerySummary
}

// Executor executes queries on a graph store
type Executor struct {
	Store    Store
	Cache    store.Store   // Optional schema cache
	CacheTTL time.Duration // 0 means the cache default
	Database string        // Used to key the cached schema
}

// NewExecutor create a new executor
func NewExecutor(s Store, cache store.Store, database string) *Executor {
	return &Executor{Store: s, Cache: cache, Database: database}
}

// Execute runs a query with parameters. A nil or disconnected store fails with types.ErrNotConnected,
// a store failure is returned as *types.StoreError carrying the message only.
func (e *Executor) Execute(ctx context.Context, query string, params map[string]interface{}) (*types.QueryResult, error) {
	if e == nil || e.Store == nil || !e.Store.IsConnected() {
		return nil, types.ErrNotConnected
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	raw, err := e.Store.Run(ctx, query, params)
	if err != nil {
		if errors.Is(err, types.ErrNotConnected) {
			return nil, types.ErrNotConnected
		}
		log.With(log.F{"query": query}).Warn("graph query failed: %s", err.Error())
		return nil, &types.StoreError{Message: err.Error()}
	}

	return align(raw, query, params), nil
}

// align copies the raw records into rows of exactly len(columns) cells
func align(raw *RawResult, query string, params map[string]interface{}) *types.QueryResult {
	res := &types.QueryResult{
		Columns: []string{},
		Rows:    [][]interface{}{},
		Summary: types.QuerySummary{Query: query, Parameters: params},
	}
	if raw == nil {
		return res
	}

	res.Columns = append(res.Columns, raw.Keys...)
	for _, record := range raw.Records {
		row := make([]interface{}, len(res.Columns))
		copy(row, record)
		res.Rows = append(res.Rows, row)
	}

	if raw.Summary.Query != "" {
		res.Summary.Query = raw.Summary.Query
	}
	if raw.Summary.Parameters != nil {
		res.Summary.Parameters = raw.Summary.Parameters
	}
	res.Summary.Counters = raw.Summary.Counters
	return res
}
