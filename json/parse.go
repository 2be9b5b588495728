package json

import (
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"
)

// Formats
const (
	FormatJSON  = "json"
	FormatJSONC = "jsonc"
	FormatYAML  = "yaml"
)

// DetectFormat guesses the format of the data, "" when it cannot tell
func DetectFormat(data string) string {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return ""
	}

	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		for _, line := range strings.Split(trimmed, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if strings.Contains(line, ":") && !strings.Contains(line, "\":") && !strings.Contains(line, ":{") {
				return FormatYAML
			}
			break
		}
	}

	if strings.Contains(trimmed, "//") || strings.Contains(trimmed, "/*") {
		return FormatJSONC
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return FormatJSON
	}
	return ""
}

// formatOf maps a hint (a format name, an extension or a file name) to a format
func formatOf(hint string) string {
	hint = strings.ToLower(hint)
	switch {
	case strings.HasSuffix(hint, "yaml") || strings.HasSuffix(hint, "yml"):
		return FormatYAML
	case strings.HasSuffix(hint, "jsonc"):
		return FormatJSONC
	}
	return FormatJSON
}

// ParseTyped decodes the data into the typed pointer. Without a hint the format is detected.
// JSON falls back to comment trimming, then to repairing the document.
func ParseTyped(data string, v interface{}, hint ...string) error {
	format := DetectFormat(data)
	if len(hint) > 0 && hint[0] != "" {
		format = formatOf(hint[0])
	}

	switch format {
	case FormatYAML:
		return yaml.Unmarshal([]byte(data), v)

	case FormatJSONC:
		return jsoniter.Unmarshal(TrimComments([]byte(data)), v)
	}

	err := jsoniter.UnmarshalFromString(data, v)
	if err == nil {
		return nil
	}

	if errTrim := jsoniter.Unmarshal(TrimComments([]byte(data)), v); errTrim == nil {
		return nil
	}

	repaired, errRepair := jsonrepair.JSONRepair(data)
	if errRepair != nil {
		return err
	}
	return jsoniter.UnmarshalFromString(repaired, v)
}

// ParseFile decodes the file content by its extension: .json, .jsonc, .yaml, .yml
func ParseFile(filename string, data []byte, v interface{}) error {
	hint := filepath.Ext(filename)
	if hint == "" {
		hint = filename
	}
	return ParseTyped(string(data), v, hint)
}

// Repair fixes a broken JSON document
func Repair(data string) (string, error) {
	return jsonrepair.JSONRepair(data)
}
