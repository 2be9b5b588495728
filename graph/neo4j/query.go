package neo4j

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/yaoapp/graphchat/graph"
	"github.com/yaoapp/graphchat/types"
)

// Run executes a query, read-only queries run in a read transaction
func (s *Store) Run(ctx context.Context, query string, params map[string]interface{}) (*graph.RawResult, error) {
	s.mu.RLock()
	connected := s.connected
	driver := s.driver
	cfg := s.config
	s.mu.RUnlock()

	if !connected || driver == nil {
		return nil, types.ErrNotConnected
	}

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("cypher query cannot be empty")
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	if cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.QueryTimeout)*time.Second)
		defer cancel()
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: cfg.Database})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return parseResult(ctx, result)
	}

	var res interface{}
	var err error
	if graph.IsReadOnly(query) {
		res, err = session.ExecuteRead(ctx, work)
	} else {
		res, err = session.ExecuteWrite(ctx, work)
	}
	if err != nil {
		return nil, err
	}

	raw := res.(*graph.RawResult)
	raw.Summary.Query = query
	raw.Summary.Parameters = params
	return raw, nil
}

// parseResult collects the records and the update counters inside the transaction
func parseResult(ctx context.Context, result neo4j.ResultWithContext) (*graph.RawResult, error) {
	keys, err := result.Keys()
	if err != nil {
		return nil, fmt.Errorf("query execution error: %w", err)
	}

	raw := &graph.RawResult{Keys: keys, Records: [][]interface{}{}}
	for result.Next(ctx) {
		record := result.Record()
		row := make([]interface{}, len(record.Values))
		for i, value := range record.Values {
			row[i] = toNative(value)
		}
		raw.Records = append(raw.Records, row)
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("query execution error: %w", err)
	}

	summary, err := result.Consume(ctx)
	if err != nil {
		return nil, fmt.Errorf("query execution error: %w", err)
	}
	raw.Summary.Counters = counters(summary)
	return raw, nil
}

// counters returns the non-zero update counters
func counters(summary neo4j.ResultSummary) map[string]int {
	if summary == nil {
		return nil
	}

	c := summary.Counters()
	if c == nil || !c.ContainsUpdates() {
		return nil
	}

	all := map[string]int{
		"nodes_created":         c.NodesCreated(),
		"nodes_deleted":         c.NodesDeleted(),
		"relationships_created": c.RelationshipsCreated(),
		"relationships_deleted": c.RelationshipsDeleted(),
		"properties_set":        c.PropertiesSet(),
		"labels_added":          c.LabelsAdded(),
		"labels_removed":        c.LabelsRemoved(),
		"indexes_added":         c.IndexesAdded(),
		"indexes_removed":       c.IndexesRemoved(),
		"constraints_added":     c.ConstraintsAdded(),
		"constraints_removed":   c.ConstraintsRemoved(),
	}

	res := map[string]int{}
	for name, value := range all {
		if value != 0 {
			res[name] = value
		}
	}
	return res
}
