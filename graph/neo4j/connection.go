package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
)

// Connect establishes connection to Neo4j server
func (s *Store) Connect(ctx context.Context, cfg types.Neo4jConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Database != "" && !isValidDatabaseName(cfg.Database) {
		return fmt.Errorf("invalid database name: %s (only alphanumeric, underscore, dot and dash allowed)", cfg.Database)
	}

	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}

	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URL, auth, func(c *config.Config) {
		c.Log = newDriverLogger()
	})
	if err != nil {
		return fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	// Test connection
	err = driver.VerifyConnectivity(ctx)
	if err != nil {
		driver.Close(ctx)
		return fmt.Errorf("connection test failed: %w", err)
	}

	s.config = cfg
	s.driver = driver
	s.connected = true

	log.With(log.F{"url": cfg.URL, "database": cfg.Database}).Info("neo4j connected")
	return nil
}

// Disconnect closes the connection to Neo4j server
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	if s.driver != nil {
		if err := s.driver.Close(ctx); err != nil {
			return fmt.Errorf("failed to close Neo4j driver: %w", err)
		}
	}

	s.connected = false
	s.config = types.Neo4jConfig{}
	s.driver = nil

	return nil
}

// IsConnected returns whether the store is connected
func (s *Store) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Close closes the connection and cleans up resources
func (s *Store) Close() error {
	return s.Disconnect(context.Background())
}

// isValidDatabaseName checks if a database name is valid (alphanumeric, underscore, dot and dash only)
func isValidDatabaseName(name string) bool {
	if len(name) == 0 {
		return false
	}

	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return false
		}
	}

	return true
}
