// Package action parses a model reply into the search action it asks for.
//
// Markers are checked in a fixed order: "Entity Search:" and "Properties Search:" may appear
// anywhere in the reply, "Tail Search:" must lead it. A reply that is only "STOP" (any case)
// ends the search loop.
package action

import (
	"strings"

	"github.com/yaoapp/graphchat/types"
)

// Reply markers
const (
	MarkerEntity     = "Entity Search:"
	MarkerProperties = "Properties Search:"
	MarkerRelated    = "Tail Search:"
	StopWord         = "STOP"
)

// RelatedFormat the expected shape of a related search payload
const RelatedFormat = "<entity id>, <relationship type>"

// Matcher recognizes one action marker
type Matcher struct {
	Kind   types.ActionKind
	Marker string
	Prefix bool // The marker must start the reply
}

// matchers in priority order
var matchers = []Matcher{
	{Kind: types.ActionEntitySearch, Marker: MarkerEntity},
	{Kind: types.ActionPropertiesSearch, Marker: MarkerProperties},
	{Kind: types.ActionRelatedSearch, Marker: MarkerRelated, Prefix: true},
}

// Matchers returns a copy of the matchers in the order they are tried
func Matchers() []Matcher {
	res := make([]Matcher, len(matchers))
	copy(res, matchers)
	return res
}

// Match returns the trimmed payload following the marker
func (m Matcher) Match(text string) (string, bool) {
	if m.Prefix {
		if !strings.HasPrefix(text, m.Marker) {
			return "", false
		}
		return strings.TrimSpace(text[len(m.Marker):]), true
	}

	idx := strings.Index(text, m.Marker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(text[idx+len(m.Marker):]), true
}

// Classify parses a model reply into a search action. It never fails, a reply matching
// no marker is an invalid action.
func Classify(text string) types.SearchAction {
	trimmed := strings.TrimSpace(text)
	if strings.EqualFold(trimmed, StopWord) {
		return types.SearchAction{Kind: types.ActionStop}
	}

	for _, m := range matchers {
		payload, ok := m.Match(trimmed)
		if !ok {
			continue
		}

		act := types.SearchAction{Kind: m.Kind, Payload: payload}
		switch m.Kind {
		case types.ActionEntitySearch:
			act.Term = payload

		case types.ActionPropertiesSearch:
			act.EntityID = payload

		case types.ActionRelatedSearch:
			// A malformed payload keeps the kind, the handler reports the format error
			if id, rel, err := ParseRelated(payload); err == nil {
				act.EntityID = id
				act.RelationshipType = rel
			}
		}
		return act
	}

	return types.SearchAction{Kind: types.ActionInvalid, Raw: text}
}

// ParseRelated splits a related search payload on exactly one comma into the entity id
// and the relationship type
func ParseRelated(payload string) (string, string, error) {
	parts := strings.Split(payload, ",")
	if len(parts) != 2 {
		return "", "", &types.FormatError{Action: types.ActionRelatedSearch, Payload: payload, Expected: RelatedFormat}
	}

	id := strings.TrimSpace(parts[0])
	rel := strings.TrimSpace(parts[1])
	if id == "" || rel == "" {
		return "", "", &types.FormatError{Action: types.ActionRelatedSearch, Payload: payload, Expected: RelatedFormat}
	}
	return id, rel, nil
}
