package types

// ===== Query results =====

// QuerySummary the execution summary of a query
type QuerySummary struct {
	Query      string                 `json:"query"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Counters   map[string]int         `json:"counters,omitempty"` // nodes_created, relationships_deleted, ...
}

// QueryResult a successful query execution, rows are aligned to columns
type QueryResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
	Summary QuerySummary    `json:"summary"`
}

// Len returns the number of rows
func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ===== Bindings =====

// BindingType the inferred type of a normalized cell
type BindingType string

// Binding types
const (
	BindingURI     BindingType = "uri"
	BindingString  BindingType = "string"
	BindingNumber  BindingType = "number"
	BindingBoolean BindingType = "boolean"
	BindingObject  BindingType = "object"
	BindingUnknown BindingType = "unknown"
)

// Binding one normalized cell of a query result
type Binding struct {
	Type  BindingType `json:"type"`
	Value string      `json:"value"` // Serialized form, objects are JSON encoded
}

// Bindings the normalized form of a query result
type Bindings struct {
	Variables []string             `json:"variables"`
	Bindings  []map[string]Binding `json:"bindings"`
}

// ===== Schema =====

// GraphSchema the vocabulary of the graph, used to prime the model
type GraphSchema struct {
	Labels            []string `json:"labels"`
	RelationshipTypes []string `json:"relationship_types"`
	PropertyKeys      []string `json:"property_keys"`
}
