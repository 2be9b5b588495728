package workflow

import (
	"fmt"
	"strings"

	"github.com/yaoapp/graphchat/action"
	"github.com/yaoapp/graphchat/types"
)

const genericSchema = "The graph stores entities as nodes with an id and a description, connected by typed relationships."

const instructions = `You explore a graph database to answer a question. You cannot see the graph, you can only search it.

%s

Reply with exactly one search per message:
%s <term>
    finds entities whose id or description contains the term
%s <entity id>
    lists the properties of one entity
%s %s
    lists the entities the entity points to over that relationship type, the reply must start with this

When you know enough to answer, reply with the single word %s.

Question: %s`

const correction = `Your last reply did not match any search. Use one of the formats below exactly, or reply %s.

%s`

const finalQuery = `Write one Cypher query that answers the question: %s
Use only the entity ids, labels and relationship types discovered above. Reply with the query only, in a cypher code block.`

// Instructions the first system turn of a run
func Instructions(question string, schema *types.GraphSchema) string {
	return fmt.Sprintf(instructions,
		describe(schema),
		action.MarkerEntity,
		action.MarkerProperties,
		action.MarkerRelated, action.RelatedFormat,
		action.StopWord,
		question,
	)
}

// Correction the turn sent after a reply matching no search, the instructions are repeated verbatim
func Correction(instructions string) string {
	return fmt.Sprintf(correction, action.StopWord, instructions)
}

// FinalQuery the turn asking for the query answering the question
func FinalQuery(question string) string {
	return fmt.Sprintf(finalQuery, question)
}

func describe(schema *types.GraphSchema) string {
	if schema == nil {
		return genericSchema
	}

	lines := []string{"Graph schema:"}
	lines = append(lines, "Node labels: "+list(schema.Labels))
	lines = append(lines, "Relationship types: "+list(schema.RelationshipTypes))
	lines = append(lines, "Property keys: "+list(schema.PropertyKeys))
	return strings.Join(lines, "\n")
}

func list(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
