package types

// DefaultRelationshipType the type given to relationships written without one
const DefaultRelationshipType = "RELATED_TO"

// NodePattern a node recovered from a query string
type NodePattern struct {
	Variable   string            `json:"variable"`
	Labels     []string          `json:"labels"`
	Properties map[string]string `json:"properties,omitempty"`
}

// RelPattern a relationship recovered from a query string
type RelPattern struct {
	Variable   string            `json:"variable,omitempty"`
	Type       string            `json:"type"`
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	Properties map[string]string `json:"properties,omitempty"`
}

// GraphPattern the node/relationship skeleton of a query, for visualization only
type GraphPattern struct {
	Nodes         []NodePattern `json:"nodes"`
	Relationships []RelPattern  `json:"relationships"`
}

// Node returns the node pattern bound to the variable
func (p *GraphPattern) Node(variable string) (NodePattern, bool) {
	for _, node := range p.Nodes {
		if node.Variable == variable {
			return node, true
		}
	}
	return NodePattern{}, false
}
