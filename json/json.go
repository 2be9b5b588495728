// Package json decodes configuration and model output written as JSON, JSONC or YAML.
package json

import (
	jsoniter "github.com/json-iterator/go"
)

// Encode encodes the value to a JSON string
func Encode(v interface{}) (string, error) {
	return jsoniter.MarshalToString(v)
}

// DecodeTyped decodes a JSON string into the typed pointer
func DecodeTyped(data string, v interface{}) error {
	return jsoniter.UnmarshalFromString(data, v)
}
