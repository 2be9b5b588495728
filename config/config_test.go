package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/graphchat/types"
)

const yamlConfig = `
neo4j:
  url: $ENV.GRAPHCHAT_CONFIG_TEST_URL
  password: $ENV.GRAPHCHAT_CONFIG_TEST_PASS
  database: movies
llm:
  key: sk-test
  model: gpt-4o-mini
  temperature: 0.2
workflow:
  max_iterations: 8
  read_only: true
history:
  driver: buntdb
  path: /tmp/history.db
log_level: debug
`

func TestLoadYAML(t *testing.T) {
	t.Setenv("GRAPHCHAT_CONFIG_TEST_URL", "bolt://localhost:7687")
	t.Setenv("GRAPHCHAT_CONFIG_TEST_PASS", "secret")

	file := filepath.Join(t.TempDir(), "graphchat.yml")
	require.NoError(t, os.WriteFile(file, []byte(yamlConfig), 0644))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URL)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "movies", cfg.Neo4j.Database)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, 8, cfg.Workflow.MaxIterations)
	assert.True(t, cfg.Workflow.ReadOnly)
	assert.Equal(t, DefaultEntityLabel, cfg.Workflow.EntityLabel)
	assert.Equal(t, DefaultLimit, cfg.Workflow.EntityLimit)
	assert.Equal(t, "lru", cfg.Cache.Driver)
	assert.Equal(t, "buntdb", cfg.History.Driver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, Validate(cfg))
}

func TestParseJSONC(t *testing.T) {
	data := `{
		// graph store
		"neo4j": {"url": "neo4j://db:7687", "password": "p"},
		"llm": {"key": "$ENV.GRAPHCHAT_CONFIG_TEST_KEY"},
		"server": {"addr": ":8080"}
	}`
	t.Setenv("GRAPHCHAT_CONFIG_TEST_KEY", "sk-env")

	cfg, err := Parse("graphchat.jsonc", []byte(data))
	require.NoError(t, err)
	assert.Equal(t, "neo4j://db:7687", cfg.Neo4j.URL)
	assert.Equal(t, "sk-env", cfg.LLM.Key)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DefaultMaxIterations, cfg.Workflow.MaxIterations)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = Parse("graphchat.yml", []byte("neo4j: [broken\n"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	t.Setenv("NEO4J_URL", "bolt://env:7687")
	t.Setenv("NEO4J_PASS", "pass")
	t.Setenv("OPENAI_KEY", "sk-default")

	cfg := Default()
	assert.Equal(t, "bolt://env:7687", cfg.Neo4j.URL)
	assert.Equal(t, "pass", cfg.Neo4j.Password)
	assert.Equal(t, "sk-default", cfg.LLM.Key)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultMaxIterations, cfg.Workflow.MaxIterations)
	assert.Equal(t, 0, cfg.Neo4j.QueryTimeout)
	assert.False(t, cfg.Workflow.ReadOnly)
	assert.NoError(t, Validate(cfg))
}

func TestDefaultNumericEnv(t *testing.T) {
	t.Setenv("NEO4J_URL", "bolt://env:7687")
	t.Setenv("NEO4J_PASS", "pass")
	t.Setenv("OPENAI_KEY", "sk-default")
	t.Setenv("NEO4J_QUERY_TIMEOUT", "30")
	t.Setenv("OPENAI_TIMEOUT", "90")
	t.Setenv("GRAPHCHAT_MAX_ITERATIONS", "6")
	t.Setenv("GRAPHCHAT_READ_ONLY", "1")

	cfg := Default()
	assert.Equal(t, 30, cfg.Neo4j.QueryTimeout)
	assert.Equal(t, 90, cfg.LLM.Timeout)
	assert.Equal(t, 6, cfg.Workflow.MaxIterations)
	assert.True(t, cfg.Workflow.ReadOnly)
	assert.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	valid := func() *types.Config {
		cfg := &types.Config{
			Neo4j: types.Neo4jConfig{URL: "bolt://localhost:7687", Password: "p"},
			LLM:   types.LLMConfig{Key: "k"},
		}
		Defaults(cfg)
		return cfg
	}
	require.NoError(t, Validate(valid()))

	cfg := valid()
	cfg.Neo4j.URL = ""
	assert.Error(t, Validate(cfg))

	cfg = valid()
	cfg.LLM.Temperature = 3
	assert.Error(t, Validate(cfg))

	cfg = valid()
	cfg.Cache.Driver = "badger"
	assert.Error(t, Validate(cfg))
	cfg.Cache.Path = "/tmp/cache"
	assert.NoError(t, Validate(cfg))

	cfg = valid()
	cfg.Cache.Driver = "mongo"
	assert.Error(t, Validate(cfg))

	cfg = valid()
	cfg.History.Driver = "mongo"
	assert.Error(t, Validate(cfg))

	cfg = valid()
	cfg.LogLevel = "verbose"
	assert.Error(t, Validate(cfg))
}
