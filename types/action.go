package types

// ActionKind the kind of a search action parsed from a model reply
type ActionKind string

// Action kinds
const (
	ActionEntitySearch     ActionKind = "entity_search"
	ActionPropertiesSearch ActionKind = "properties_search"
	ActionRelatedSearch    ActionKind = "related_search"
	ActionStop             ActionKind = "stop"
	ActionInvalid          ActionKind = "invalid"
)

// SearchAction the structured action derived from one assistant reply.
// Only the fields matching Kind are set.
type SearchAction struct {
	Kind             ActionKind `json:"kind"`
	Term             string     `json:"term,omitempty"`              // entity_search
	EntityID         string     `json:"entity_id,omitempty"`         // properties_search, related_search
	RelationshipType string     `json:"relationship_type,omitempty"` // related_search
	Payload          string     `json:"payload,omitempty"`           // text after the marker
	Raw              string     `json:"raw,omitempty"`               // invalid
}

// IsSearch reports whether the action asks for a graph lookup
func (a SearchAction) IsSearch() bool {
	switch a.Kind {
	case ActionEntitySearch, ActionPropertiesSearch, ActionRelatedSearch:
		return true
	}
	return false
}

// Valid reports whether the action arguments have the expected shape
func (a SearchAction) Valid() bool {
	switch a.Kind {
	case ActionEntitySearch:
		return a.Term != ""
	case ActionPropertiesSearch:
		return a.EntityID != ""
	case ActionRelatedSearch:
		return a.EntityID != "" && a.RelationshipType != ""
	case ActionStop:
		return true
	}
	return false
}
