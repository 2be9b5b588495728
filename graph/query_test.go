package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReadOnly(t *testing.T) {
	reads := []string{
		"MATCH (n) RETURN n",
		"  match (n:Entity) where n.id = $id return n",
		"OPTIONAL MATCH (n) RETURN n",
		"CALL db.labels() YIELD label RETURN label",
		"WITH 1 AS x RETURN x",
		"UNWIND [1,2] AS x RETURN x",
		"RETURN 1",
		"MATCH (n) RETURN n.offset AS created_at",
	}
	for _, q := range reads {
		assert.True(t, IsReadOnly(q), q)
	}

	writes := []string{
		"CREATE (n:Entity {id: 'a'})",
		"MATCH (n) DETACH DELETE n",
		"MATCH (n) SET n.x = 1",
		"MERGE (n:Entity {id: 'a'}) RETURN n",
		"MATCH (n) REMOVE n:Entity",
		"DROP INDEX foo",
		"LOAD CSV FROM 'file:///x.csv' AS row CREATE (:Entity {id: row[0]})",
	}
	for _, q := range writes {
		assert.False(t, IsReadOnly(q), q)
	}
}
