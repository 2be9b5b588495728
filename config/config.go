// Package config loads the graphchat configuration file.
//
// String settings may reference the environment as "$ENV.NAME".
package config

import (
	"fmt"
	"os"

	"github.com/yaoapp/graphchat/helper"
	"github.com/yaoapp/graphchat/json"
	"github.com/yaoapp/graphchat/store"
	"github.com/yaoapp/graphchat/types"
)

// Defaults
const (
	DefaultMaxIterations = 20
	DefaultEntityLabel   = "Entity"
	DefaultLimit         = 5
	DefaultSummaryRows   = 20
	DefaultAddr          = ":5099"
	DefaultLogLevel      = "info"
)

// Load reads a YAML, JSONC or JSON file, expands the environment references and fills the defaults
func Load(file string) (*types.Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	return Parse(file, data)
}

// Parse decodes the configuration, the file name selects the format
func Parse(file string, data []byte) (*types.Config, error) {
	cfg := &types.Config{}
	if err := json.ParseFile(file, data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	Expand(cfg)
	Defaults(cfg)
	return cfg, nil
}

// Default the configuration read from the environment only
func Default() *types.Config {
	cfg := &types.Config{
		Neo4j: types.Neo4jConfig{
			URL:          "$ENV.NEO4J_URL",
			Username:     "$ENV.NEO4J_USER",
			Password:     "$ENV.NEO4J_PASS",
			Database:     "$ENV.NEO4J_DATABASE",
			QueryTimeout: helper.EnvInt("$ENV.NEO4J_QUERY_TIMEOUT"),
		},
		LLM: types.LLMConfig{
			Host:    "$ENV.OPENAI_HOST",
			Key:     "$ENV.OPENAI_KEY",
			Model:   "$ENV.OPENAI_MODEL",
			Timeout: helper.EnvInt("$ENV.OPENAI_TIMEOUT"),
		},
		Workflow: types.WorkflowConfig{
			MaxIterations: helper.EnvInt("$ENV.GRAPHCHAT_MAX_ITERATIONS"),
			ReadOnly:      helper.EnvInt("$ENV.GRAPHCHAT_READ_ONLY") > 0,
		},
	}
	Expand(cfg)
	Defaults(cfg)
	return cfg
}

// Expand replaces the $ENV.NAME references
func Expand(cfg *types.Config) {
	cfg.Neo4j.URL = helper.EnvString(cfg.Neo4j.URL)
	cfg.Neo4j.Username = helper.EnvString(cfg.Neo4j.Username)
	cfg.Neo4j.Password = helper.EnvString(cfg.Neo4j.Password)
	cfg.Neo4j.Database = helper.EnvString(cfg.Neo4j.Database)

	cfg.LLM.Host = helper.EnvString(cfg.LLM.Host)
	cfg.LLM.Key = helper.EnvString(cfg.LLM.Key)
	cfg.LLM.Model = helper.EnvString(cfg.LLM.Model)

	cfg.Workflow.EntityLabel = helper.EnvString(cfg.Workflow.EntityLabel)

	cfg.Cache.Driver = helper.EnvString(cfg.Cache.Driver)
	cfg.Cache.Path = helper.EnvString(cfg.Cache.Path)

	cfg.History.Driver = helper.EnvString(cfg.History.Driver)
	cfg.History.Path = helper.EnvString(cfg.History.Path)
	cfg.History.Host = helper.EnvString(cfg.History.Host)
	cfg.History.Port = helper.EnvString(cfg.History.Port)
	cfg.History.DB = helper.EnvString(cfg.History.DB)
	cfg.History.Username = helper.EnvString(cfg.History.Username)
	cfg.History.Password = helper.EnvString(cfg.History.Password)

	cfg.Server.Addr = helper.EnvString(cfg.Server.Addr)
	cfg.Server.Mode = helper.EnvString(cfg.Server.Mode)
	cfg.LogLevel = helper.EnvString(cfg.LogLevel)
}

// Defaults fills the empty settings
func Defaults(cfg *types.Config) {
	if cfg.Workflow.MaxIterations <= 0 {
		cfg.Workflow.MaxIterations = DefaultMaxIterations
	}
	if cfg.Workflow.EntityLabel == "" {
		cfg.Workflow.EntityLabel = DefaultEntityLabel
	}
	if cfg.Workflow.EntityLimit <= 0 {
		cfg.Workflow.EntityLimit = DefaultLimit
	}
	if cfg.Workflow.RelatedLimit <= 0 {
		cfg.Workflow.RelatedLimit = DefaultLimit
	}
	if cfg.Workflow.SummaryRows <= 0 {
		cfg.Workflow.SummaryRows = DefaultSummaryRows
	}

	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = store.DriverLRU
	}
	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = store.DefaultSize
	}

	if cfg.History.Driver == "" {
		cfg.History.Driver = "memory"
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// Validate checks the settings needed to answer questions
func Validate(cfg *types.Config) error {
	if err := cfg.Neo4j.Validate(); err != nil {
		return err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return err
	}

	switch cfg.Cache.Driver {
	case store.DriverLRU:
	case store.DriverBadger:
		if cfg.Cache.Path == "" {
			return fmt.Errorf("cache path is required by the %s driver", store.DriverBadger)
		}
	default:
		return fmt.Errorf("the cache driver %s does not support", cfg.Cache.Driver)
	}

	switch cfg.History.Driver {
	case "memory", "buntdb", "redis":
	default:
		return fmt.Errorf("the history driver %s does not support", cfg.History.Driver)
	}

	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %s", cfg.LogLevel)
	}
	return nil
}
