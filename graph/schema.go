package graph

import (
	"context"
	"fmt"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
)

// DefaultSchemaTTL how long a described schema stays cached
const DefaultSchemaTTL = 10 * time.Minute

const (
	labelsQuery            = "CALL db.labels() YIELD label RETURN label"
	relationshipTypesQuery = "CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType"
	propertyKeysQuery      = "CALL db.propertyKeys() YIELD propertyKey RETURN propertyKey"
)

// SchemaKey returns the cache key of a database schema
func SchemaKey(database string) string {
	if database == "" {
		database = "default"
	}
	return fmt.Sprintf("schema:%s", database)
}

// Schema describes the labels, relationship types and property keys of the graph
func (e *Executor) Schema(ctx context.Context) (*types.GraphSchema, error) {
	key := SchemaKey(e.Database)
	if e.Cache != nil {
		if value, ok := e.Cache.Get(key); ok {
			if schema, err := decodeSchema(value); err == nil {
				return schema, nil
			}
			log.Warn("invalid cached schema %s, describing again", key)
		}
	}

	schema := &types.GraphSchema{}
	var err error

	schema.Labels, err = e.column(ctx, labelsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	schema.RelationshipTypes, err = e.column(ctx, relationshipTypesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationship types: %w", err)
	}

	schema.PropertyKeys, err = e.column(ctx, propertyKeysQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list property keys: %w", err)
	}

	if e.Cache != nil {
		ttl := e.CacheTTL
		if ttl == 0 {
			ttl = DefaultSchemaTTL
		}

		data, err := jsoniter.MarshalToString(schema)
		if err == nil {
			err = e.Cache.Set(key, data, ttl)
		}
		if err != nil {
			log.Warn("failed to cache schema %s: %s", key, err.Error())
		}
	}

	return schema, nil
}

// InvalidateSchema drops the cached schema
func (e *Executor) InvalidateSchema() error {
	if e.Cache == nil {
		return nil
	}
	return e.Cache.Del(SchemaKey(e.Database))
}

// column runs a query and returns the first column as sorted strings
func (e *Executor) column(ctx context.Context, query string) ([]string, error) {
	res, err := e.Execute(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	values := []string{}
	for _, row := range res.Rows {
		if len(row) == 0 || row[0] == nil {
			continue
		}
		values = append(values, fmt.Sprintf("%v", row[0]))
	}
	sort.Strings(values)
	return values, nil
}

// decodeSchema reads a cached schema, backends may hand back the JSON text or a decoded value
func decodeSchema(value interface{}) (*types.GraphSchema, error) {
	schema := &types.GraphSchema{}
	switch v := value.(type) {
	case *types.GraphSchema:
		return v, nil
	case string:
		if err := jsoniter.UnmarshalFromString(v, schema); err != nil {
			return nil, err
		}
	case []byte:
		if err := jsoniter.Unmarshal(v, schema); err != nil {
			return nil, err
		}
	default:
		data, err := jsoniter.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := jsoniter.Unmarshal(data, schema); err != nil {
			return nil, err
		}
	}
	return schema, nil
}
