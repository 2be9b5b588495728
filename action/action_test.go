package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/graphchat/types"
)

func TestClassifyStop(t *testing.T) {
	for _, text := range []string{"stop", "STOP", "  Stop  ", "\nsToP\t"} {
		act := Classify(text)
		assert.Equal(t, types.ActionStop, act.Kind, "reply %q", text)
	}

	// STOP inside a sentence is not a stop
	act := Classify("I will STOP now")
	assert.Equal(t, types.ActionInvalid, act.Kind)
}

func TestClassifyEntitySearch(t *testing.T) {
	act := Classify("Let me look this up.\nEntity Search:  aspirin ")
	assert.Equal(t, types.ActionEntitySearch, act.Kind)
	assert.Equal(t, "aspirin", act.Term)
	assert.True(t, act.Valid())
	assert.True(t, act.IsSearch())
}

func TestClassifyPropertiesSearch(t *testing.T) {
	act := Classify("Properties Search: abc123")
	assert.Equal(t, types.ActionPropertiesSearch, act.Kind)
	assert.Equal(t, "abc123", act.EntityID)
}

func TestClassifyPriority(t *testing.T) {
	// Entity is checked before properties, whichever comes first in the text
	act := Classify("Properties Search: abc123\nEntity Search: aspirin")
	assert.Equal(t, types.ActionEntitySearch, act.Kind)
	assert.Equal(t, "aspirin", act.Term)

	// Tail Search is only a prefix match, the entity marker wins anywhere
	act = Classify("Tail Search: abc123, KNOWS Entity Search: bob")
	assert.Equal(t, types.ActionEntitySearch, act.Kind)
	assert.Equal(t, "bob", act.Term)
}

func TestClassifyRelatedSearch(t *testing.T) {
	act := Classify("Tail Search: abc123, KNOWS")
	require.Equal(t, types.ActionRelatedSearch, act.Kind)
	assert.Equal(t, "abc123", act.EntityID)
	assert.Equal(t, "KNOWS", act.RelationshipType)
	assert.True(t, act.Valid())

	// Surrounding whitespace is trimmed before the prefix check
	act = Classify("   Tail Search: abc123 ,  TREATS  ")
	require.Equal(t, types.ActionRelatedSearch, act.Kind)
	assert.Equal(t, "abc123", act.EntityID)
	assert.Equal(t, "TREATS", act.RelationshipType)
}

func TestClassifyRelatedSearchMustLead(t *testing.T) {
	act := Classify("Sure. Tail Search: abc123, KNOWS")
	assert.Equal(t, types.ActionInvalid, act.Kind)
	assert.Equal(t, "Sure. Tail Search: abc123, KNOWS", act.Raw)
}

func TestClassifyRelatedSearchMalformed(t *testing.T) {
	for _, payload := range []string{"abc123", "abc123, KNOWS, extra", ", KNOWS", "abc123,  "} {
		act := Classify("Tail Search: " + payload)
		assert.Equal(t, types.ActionRelatedSearch, act.Kind, "payload %q", payload)
		assert.Empty(t, act.EntityID)
		assert.Empty(t, act.RelationshipType)
		assert.False(t, act.Valid())
	}
}

func TestClassifyInvalid(t *testing.T) {
	act := Classify("I think the answer is 42")
	assert.Equal(t, types.ActionInvalid, act.Kind)
	assert.False(t, act.IsSearch())

	// Markers are case sensitive
	act = Classify("entity search: aspirin")
	assert.Equal(t, types.ActionInvalid, act.Kind)
}

func TestParseRelated(t *testing.T) {
	id, rel, err := ParseRelated("abc123, KNOWS")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, "KNOWS", rel)

	_, _, err = ParseRelated("abc123")
	require.Error(t, err)
	assert.Equal(t, types.SearchFormatError, types.KindOf(err))
}

func TestMatchersOrder(t *testing.T) {
	ms := Matchers()
	require.Len(t, ms, 3)
	assert.Equal(t, types.ActionEntitySearch, ms[0].Kind)
	assert.Equal(t, types.ActionPropertiesSearch, ms[1].Kind)
	assert.Equal(t, types.ActionRelatedSearch, ms[2].Kind)
	assert.False(t, ms[0].Prefix)
	assert.False(t, ms[1].Prefix)
	assert.True(t, ms[2].Prefix)

	// Mutating the copy does not change the classifier
	ms[0].Marker = "nope"
	assert.Equal(t, types.ActionEntitySearch, Classify("Entity Search: x").Kind)
}

func TestClassifyDeterministic(t *testing.T) {
	text := "Properties Search: n-1"
	assert.Equal(t, Classify(text), Classify(text))
}
