// Package neo4j implements the graph store on the Neo4j driver.
package neo4j

import (
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/yaoapp/graphchat/graph"
	"github.com/yaoapp/graphchat/types"
)

// DefaultUsername the username used when the config leaves it empty
const DefaultUsername = "neo4j"

var _ graph.Store = (*Store)(nil)

// Store implements the graph.Store interface for Neo4j
type Store struct {
	config    types.Neo4jConfig
	driver    neo4j.DriverWithContext
	connected bool
	mu        sync.RWMutex
}

// NewStore creates a new Neo4j graph store instance
func NewStore() *Store {
	return &Store{}
}

// GetDriver returns the underlying Neo4j driver
func (s *Store) GetDriver() neo4j.DriverWithContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver
}

// GetConfig returns the current configuration
func (s *Store) GetConfig() types.Neo4jConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}
