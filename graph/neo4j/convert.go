package neo4j

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// toNative converts driver values into plain maps and slices
func toNative(value interface{}) interface{} {
	switch v := value.(type) {
	case neo4j.Node:
		return nodeMap(v)

	case neo4j.Relationship:
		return relationshipMap(v)

	case neo4j.Path:
		nodes := make([]interface{}, 0, len(v.Nodes))
		for _, node := range v.Nodes {
			nodes = append(nodes, nodeMap(node))
		}
		rels := make([]interface{}, 0, len(v.Relationships))
		for _, rel := range v.Relationships {
			rels = append(rels, relationshipMap(rel))
		}
		return map[string]interface{}{"nodes": nodes, "relationships": rels}

	case []interface{}:
		res := make([]interface{}, len(v))
		for i, item := range v {
			res[i] = toNative(item)
		}
		return res

	case map[string]interface{}:
		res := make(map[string]interface{}, len(v))
		for key, item := range v {
			res[key] = toNative(item)
		}
		return res

	case neo4j.Date:
		return v.Time().Format("2006-01-02")

	case neo4j.LocalDateTime:
		return v.Time().Format("2006-01-02T15:04:05.999999999")

	case neo4j.LocalTime:
		return v.Time().Format("15:04:05.999999999")

	case neo4j.Time:
		return v.Time().Format("15:04:05.999999999Z07:00")
	}

	return value
}

func nodeMap(node neo4j.Node) map[string]interface{} {
	labels := node.Labels
	if labels == nil {
		labels = []string{}
	}
	return map[string]interface{}{
		"elementId":  node.ElementId,
		"identity":   node.Id,
		"labels":     labels,
		"properties": properties(node.Props),
	}
}

func relationshipMap(rel neo4j.Relationship) map[string]interface{} {
	return map[string]interface{}{
		"elementId":          rel.ElementId,
		"identity":           rel.Id,
		"type":               rel.Type,
		"startNodeElementId": rel.StartElementId,
		"endNodeElementId":   rel.EndElementId,
		"properties":         properties(rel.Props),
	}
}

func properties(props map[string]interface{}) map[string]interface{} {
	res := make(map[string]interface{}, len(props))
	for key, value := range props {
		res[key] = toNative(value)
	}
	return res
}
