// Package pattern recovers a best-effort node/relationship skeleton from a Cypher query string
// for visualization.
//
// It is a token scan, not a parser. Known limitations:
//   - only the first mention of a variable is registered, later mentions never add labels or properties
//   - property maps are split on top-level commas, nested maps and commas inside strings are not supported
//   - only // line comments are stripped
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaoapp/graphchat/types"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)

	// (var:Label:Label {props})
	reNode = regexp.MustCompile("\\(\\s*([A-Za-z_][A-Za-z0-9_]*)?\\s*((?::\\s*(?:`[^`]+`|[A-Za-z_][A-Za-z0-9_]*)\\s*)*)(\\{[^{}]*\\})?\\s*\\)")
	reLabel = regexp.MustCompile("`([^`]+)`|([A-Za-z_][A-Za-z0-9_]*)")

	// The text between two node patterns: -[...]->, <-[...]-, -->, --, <--
	reConnector = regexp.MustCompile(`^\s*(<)?-\s*(?:\[([^\[\]]*)\])?\s*-(>)?\s*$`)

	// [var:TYPE|OTHER*1..2 {props}]
	reRelBody = regexp.MustCompile("^\\s*([A-Za-z_][A-Za-z0-9_]*)?\\s*(?::\\s*(`[^`]+`|[A-Za-z_][A-Za-z0-9_]*)(?:\\s*\\|\\s*:?\\s*(?:`[^`]+`|[A-Za-z_][A-Za-z0-9_]*))*)?\\s*(\\*[0-9.\\s]*)?\\s*(\\{.*\\})?\\s*$")
)

// nodeToken one node pattern found in the query
type nodeToken struct {
	start, end int
	variable   string
	labels     []string
	properties map[string]string
}

// Extract parses a query string into a graph pattern. It never fails, text it cannot
// read yields an empty or partial pattern.
func Extract(query string) *types.GraphPattern {
	text := Normalize(query)
	tokens := scanNodes(text)

	pattern := &types.GraphPattern{
		Nodes:         []types.NodePattern{},
		Relationships: []types.RelPattern{},
	}

	seen := map[string]bool{}
	for _, tok := range tokens {
		if seen[tok.variable] {
			continue
		}
		seen[tok.variable] = true
		pattern.Nodes = append(pattern.Nodes, types.NodePattern{
			Variable:   tok.variable,
			Labels:     tok.labels,
			Properties: tok.properties,
		})
	}

	for i := 0; i+1 < len(tokens); i++ {
		left, right := tokens[i], tokens[i+1]
		rel, ok := scanRelationship(text[left.end:right.start], left.variable, right.variable)
		if !ok {
			continue
		}

		for _, v := range []string{rel.Source, rel.Target} {
			if !seen[v] {
				seen[v] = true
				pattern.Nodes = append(pattern.Nodes, types.NodePattern{Variable: v, Labels: []string{}})
			}
		}
		pattern.Relationships = append(pattern.Relationships, rel)
	}

	return pattern
}

// Normalize strips line comments and collapses whitespace
func Normalize(query string) string {
	lines := strings.Split(query, "\n")
	for i, line := range lines {
		lines[i] = stripComment(line)
	}
	return strings.TrimSpace(reWhitespace.ReplaceAllString(strings.Join(lines, " "), " "))
}

// stripComment removes a // comment that is not inside a string literal
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

func scanNodes(text string) []nodeToken {
	tokens := []nodeToken{}
	anonymous := 0

	for _, m := range reNode.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]

		// count(n), exists(n) ... are calls, not node patterns
		if start > 0 && isIdentChar(text[start-1]) {
			continue
		}

		tok := nodeToken{start: start, end: end, labels: []string{}}
		if m[2] >= 0 {
			tok.variable = text[m[2]:m[3]]
		} else {
			tok.variable = fmt.Sprintf("_n%d", anonymous)
			anonymous++
		}

		if m[4] >= 0 {
			tok.labels = parseLabels(text[m[4]:m[5]])
		}

		if m[6] >= 0 {
			tok.properties = ParseProperties(text[m[6]:m[7]])
		}

		tokens = append(tokens, tok)
	}

	return tokens
}

func scanRelationship(between string, left, right string) (types.RelPattern, bool) {
	m := reConnector.FindStringSubmatch(between)
	if m == nil {
		return types.RelPattern{}, false
	}

	rel := types.RelPattern{Type: types.DefaultRelationshipType, Source: left, Target: right}

	// <-[...]- points from right to left, every other form is read left to right
	if m[1] == "<" && m[3] == "" {
		rel.Source, rel.Target = right, left
	}

	body := m[2]
	if strings.TrimSpace(body) == "" {
		return rel, true
	}

	bm := reRelBody.FindStringSubmatch(body)
	if bm == nil {
		return rel, true
	}

	rel.Variable = bm[1]
	if bm[2] != "" {
		rel.Type = strings.Trim(bm[2], "`")
	}
	if bm[4] != "" {
		rel.Properties = ParseProperties(bm[4])
	}
	return rel, true
}

func parseLabels(text string) []string {
	labels := []string{}
	for _, m := range reLabel.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			labels = append(labels, m[1])
			continue
		}
		labels = append(labels, m[2])
	}
	return labels
}

// ParseProperties reads a {key: value, ...} map by naive comma splitting. Values are
// returned as text with surrounding quotes removed.
func ParseProperties(text string) map[string]string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "{")
	text = strings.TrimSuffix(text, "}")

	props := map[string]string{}
	for _, pair := range strings.Split(text, ",") {
		idx := strings.Index(pair, ":")
		if idx < 0 {
			continue
		}

		key := strings.Trim(strings.TrimSpace(pair[:idx]), "`")
		if key == "" {
			continue
		}
		props[key] = strings.Trim(strings.TrimSpace(pair[idx+1:]), "'\"`")
	}

	if len(props) == 0 {
		return nil
	}
	return props
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
