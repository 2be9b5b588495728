package types

import "fmt"

// Config the graphchat configuration
type Config struct {
	Neo4j    Neo4jConfig    `json:"neo4j" yaml:"neo4j"`
	LLM      LLMConfig      `json:"llm" yaml:"llm"`
	Workflow WorkflowConfig `json:"workflow" yaml:"workflow"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	History  HistoryConfig  `json:"history" yaml:"history"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	LogLevel string         `json:"log_level,omitempty" yaml:"log_level,omitempty"` // trace, debug, info, warn, error
}

// Neo4jConfig the graph store connection settings
type Neo4jConfig struct {
	URL          string `json:"url" yaml:"url"` // bolt://localhost:7687, neo4j+s://...
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	Password     string `json:"password" yaml:"password"`
	Database     string `json:"database,omitempty" yaml:"database,omitempty"`           // Empty means the server default
	QueryTimeout int    `json:"query_timeout,omitempty" yaml:"query_timeout,omitempty"` // Seconds, 0 means no timeout
}

// Validate validates the graph store configuration
func (c *Neo4jConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("neo4j url is required")
	}
	if c.Password == "" {
		return fmt.Errorf("neo4j password is required")
	}
	return nil
}

// LLMConfig the OpenAI compatible chat endpoint settings
type LLMConfig struct {
	Host        string  `json:"host,omitempty" yaml:"host,omitempty"` // API endpoint, e.g. "https://api.openai.com"
	Key         string  `json:"key" yaml:"key"`                       // API key
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Timeout     int     `json:"timeout,omitempty" yaml:"timeout,omitempty"`       // Seconds
	RateLimit   float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"` // Requests per second, 0 means unlimited
	Burst       int     `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// Validate validates the chat endpoint configuration
func (c *LLMConfig) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("llm key is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm temperature must be between 0 and 2, got %v", c.Temperature)
	}
	return nil
}

// WorkflowConfig the search loop settings
type WorkflowConfig struct {
	MaxIterations int    `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"` // Search round-trips before the final query is forced
	EntityLabel   string `json:"entity_label,omitempty" yaml:"entity_label,omitempty"`     // Label of the searchable nodes
	EntityLimit   int    `json:"entity_limit,omitempty" yaml:"entity_limit,omitempty"`
	RelatedLimit  int    `json:"related_limit,omitempty" yaml:"related_limit,omitempty"`
	SummaryRows   int    `json:"summary_rows,omitempty" yaml:"summary_rows,omitempty"` // Rows shown to the model when summarizing
	ReadOnly      bool   `json:"read_only,omitempty" yaml:"read_only,omitempty"`       // Refuse final queries that write to the graph
}

// CacheConfig the schema cache settings
type CacheConfig struct {
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"` // lru, badger
	Size   int    `json:"size,omitempty" yaml:"size,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	TTL    int    `json:"ttl,omitempty" yaml:"ttl,omitempty"` // Seconds
}

// HistoryConfig the history manager settings
type HistoryConfig struct {
	Driver   string `json:"driver,omitempty" yaml:"driver,omitempty"` // memory, buntdb, redis
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`     // buntdb data file
	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     string `json:"port,omitempty" yaml:"port,omitempty"`
	DB       string `json:"db,omitempty" yaml:"db,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Expire   int    `json:"expire,omitempty" yaml:"expire,omitempty"` // Seconds, 0 means never
	Size     int    `json:"size,omitempty" yaml:"size,omitempty"`     // memory driver capacity
}

// ServerConfig the HTTP API settings
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"` // gin mode: debug, release, test
}
