// Package binding converts query results into uniform typed bindings.
package binding

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/graphchat/types"
)

// The standard library compatible config sorts map keys, so the serialized form is stable
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// shape the closed set of cell shapes
type shape int

const (
	shapeNull shape = iota
	shapeEntity
	shapeObject
	shapeString
	shapeNumber
	shapeBoolean
)

// Keys marking a map as a graph entity: label set, internal id or relationship type
var entityMarkers = []string{"labels", "identity", "elementId", "type"}

// ToBindings normalizes every cell of every row
func ToBindings(result *types.QueryResult) *types.Bindings {
	res := &types.Bindings{
		Variables: []string{},
		Bindings:  []map[string]types.Binding{},
	}
	if result == nil {
		return res
	}

	res.Variables = append(res.Variables, result.Columns...)
	for _, row := range result.Rows {
		b := make(map[string]types.Binding, len(result.Columns))
		for i, name := range result.Columns {
			var value interface{}
			if i < len(row) {
				value = row[i]
			}
			b[name] = Normalize(value)
		}
		res.Bindings = append(res.Bindings, b)
	}
	return res
}

// Normalize maps one cell value to a binding. It is total.
func Normalize(value interface{}) types.Binding {
	value = indirect(value)
	switch classify(value) {
	case shapeNull:
		return types.Binding{Type: types.BindingUnknown, Value: ""}
	case shapeEntity:
		return types.Binding{Type: types.BindingURI, Value: serialize(value)}
	case shapeObject:
		return types.Binding{Type: types.BindingObject, Value: serialize(value)}
	case shapeBoolean:
		return types.Binding{Type: types.BindingBoolean, Value: strconv.FormatBool(reflect.ValueOf(value).Bool())}
	case shapeNumber:
		return types.Binding{Type: types.BindingNumber, Value: formatNumber(value)}
	default:
		return types.Binding{Type: types.BindingString, Value: formatString(value)}
	}
}

func classify(value interface{}) shape {
	if value == nil {
		return shapeNull
	}

	switch v := value.(type) {
	case string, []byte:
		return shapeString
	case bool:
		return shapeBoolean
	case time.Time, time.Duration, fmt.Stringer:
		return shapeString
	case map[string]interface{}:
		if v == nil {
			return shapeNull
		}
		if isEntity(v) {
			return shapeEntity
		}
		return shapeObject
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return shapeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return shapeNumber
	case reflect.String:
		return shapeString
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if rv.Kind() != reflect.Struct && rv.IsNil() {
			return shapeNull
		}
		return shapeObject
	}
	return shapeString
}

// indirect follows pointers, a nil pointer is nil
func indirect(value interface{}) interface{} {
	for value != nil {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Ptr {
			return value
		}
		if rv.IsNil() {
			return nil
		}
		if _, ok := value.(fmt.Stringer); ok {
			return value
		}
		value = rv.Elem().Interface()
	}
	return value
}

func isEntity(m map[string]interface{}) bool {
	for _, key := range entityMarkers {
		if _, has := m[key]; has {
			return true
		}
	}
	return false
}

func serialize(value interface{}) string {
	bytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(bytes)
}

func formatNumber(value interface{}) string {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}

func formatString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case time.Duration:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}
