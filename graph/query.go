package graph

import "strings"

// Keywords that make a query a write
var writeKeywords = []string{"CREATE", "MERGE", "DELETE", "SET", "REMOVE", "DROP", "LOAD CSV"}

// IsReadOnly checks whether a query only reads by its leading clause and write keywords
func IsReadOnly(query string) bool {
	upper := strings.ToUpper(strings.TrimSpace(query))
	for _, keyword := range writeKeywords {
		if containsWord(upper, keyword) {
			return false
		}
	}

	for _, prefix := range []string{"MATCH", "OPTIONAL MATCH", "RETURN", "WITH", "UNWIND", "CALL", "SHOW"} {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// containsWord reports whether keyword appears in text as a whole word
func containsWord(text, keyword string) bool {
	for offset := 0; ; {
		idx := strings.Index(text[offset:], keyword)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(keyword)
		if (start == 0 || !isWordChar(text[start-1])) && (end == len(text) || !isWordChar(text[end])) {
			return true
		}
		offset = end
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
