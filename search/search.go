// Package search implements the lookups the model can ask for while exploring the graph.
// Every handler returns text for the next system turn, failures included.
package search

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/yaoapp/graphchat/action"
	"github.com/yaoapp/graphchat/binding"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
)

// Defaults
const (
	DefaultEntityLabel = "Entity"
	DefaultLimit       = 5
)

// Identifiers interpolated into a query must match this
var reIdentifier = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Executor runs a parameterized query
type Executor interface {
	Execute(ctx context.Context, query string, params map[string]interface{}) (*types.QueryResult, error)
}

// Searcher the search handlers
type Searcher struct {
	executor     Executor
	label        string
	entityLimit  int
	relatedLimit int
}

// New create a searcher, empty settings fall back to the defaults
func New(executor Executor, cfg types.WorkflowConfig) (*Searcher, error) {
	s := &Searcher{
		executor:     executor,
		label:        cfg.EntityLabel,
		entityLimit:  cfg.EntityLimit,
		relatedLimit: cfg.RelatedLimit,
	}

	if s.label == "" {
		s.label = DefaultEntityLabel
	}
	if !ValidIdentifier(s.label) {
		return nil, fmt.Errorf("invalid entity label: %s (only letters, digits and underscore allowed)", s.label)
	}
	if s.entityLimit <= 0 {
		s.entityLimit = DefaultLimit
	}
	if s.relatedLimit <= 0 {
		s.relatedLimit = DefaultLimit
	}
	return s, nil
}

// ValidIdentifier checks a label or relationship type against the allow-list
func ValidIdentifier(name string) bool {
	return reIdentifier.MatchString(name)
}

// Dispatch runs the handler of a search action
func (s *Searcher) Dispatch(ctx context.Context, act types.SearchAction) string {
	log.With(log.F{"kind": act.Kind, "payload": act.Payload}).Debug("search dispatch")

	switch act.Kind {
	case types.ActionEntitySearch:
		return s.Entities(ctx, act.Term)
	case types.ActionPropertiesSearch:
		return s.Properties(ctx, act.EntityID)
	case types.ActionRelatedSearch:
		return s.Related(ctx, act)
	}
	return fmt.Sprintf("%s is not a search action.", act.Kind)
}

// Entities finds entities whose id or description contains the term
func (s *Searcher) Entities(ctx context.Context, term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return fmt.Sprintf("The entity search term is empty. Reply with \"%s <term>\".", action.MarkerEntity)
	}

	query := fmt.Sprintf(
		"MATCH (e:`%s`) WHERE toLower(toString(e.id)) CONTAINS toLower($term) OR toLower(coalesce(e.description, '')) CONTAINS toLower($term) "+
			"RETURN e.id AS id, e.description AS description LIMIT $limit",
		s.label,
	)

	res, err := s.executor.Execute(ctx, query, map[string]interface{}{"term": term, "limit": s.entityLimit})
	if err != nil {
		return failure("entity search", err)
	}

	if res.Len() == 0 {
		return fmt.Sprintf("No entities match %q. Rephrase the search with a shorter or different term.", term)
	}
	return fmt.Sprintf("Entities matching %q:\n%s", term, pairs(res))
}

// Properties returns the properties of one entity as key: value lines
func (s *Searcher) Properties(ctx context.Context, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Sprintf("The entity id is empty. Reply with \"%s <entity id>\".", action.MarkerProperties)
	}

	query := fmt.Sprintf("MATCH (e:`%s` {id: $id}) RETURN properties(e) AS properties LIMIT 1", s.label)
	res, err := s.executor.Execute(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return failure("properties search", err)
	}

	if res.Len() == 0 {
		return fmt.Sprintf("No such entity %q. Use an id returned by an entity search.", id)
	}

	var props map[string]interface{}
	if row := res.Rows[0]; len(row) > 0 {
		props, _ = row[0].(map[string]interface{})
	}
	if len(props) == 0 {
		return fmt.Sprintf("Entity %q has no properties.", id)
	}

	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, binding.Normalize(props[key]).Value))
	}
	return fmt.Sprintf("Properties of %q:\n%s", id, strings.Join(lines, "\n"))
}

// Related finds the outgoing neighbors of an entity over one relationship type
func (s *Searcher) Related(ctx context.Context, act types.SearchAction) string {
	if !act.Valid() {
		_, _, err := action.ParseRelated(act.Payload)
		if err == nil {
			err = &types.FormatError{Action: types.ActionRelatedSearch, Payload: act.Payload, Expected: action.RelatedFormat}
		}
		return fmt.Sprintf("%s Reply with \"%s %s\".", sentence(err.Error()), action.MarkerRelated, action.RelatedFormat)
	}

	if !ValidIdentifier(act.RelationshipType) {
		log.Warn("rejected relationship type %q", act.RelationshipType)
		return fmt.Sprintf("Relationship type %q is not valid. Use only letters, digits and underscores.", act.RelationshipType)
	}

	query := fmt.Sprintf(
		"MATCH (e:`%s` {id: $id})-[:`%s`]->(t) RETURN t.id AS id, t.description AS description LIMIT $limit",
		s.label, act.RelationshipType,
	)

	res, err := s.executor.Execute(ctx, query, map[string]interface{}{"id": act.EntityID, "limit": s.relatedLimit})
	if err != nil {
		return failure("related search", err)
	}

	if res.Len() == 0 {
		return fmt.Sprintf("Entity %q has no outgoing %s relationships. Try another relationship type or entity.", act.EntityID, act.RelationshipType)
	}
	return fmt.Sprintf("Entities related to %q by %s:\n%s", act.EntityID, act.RelationshipType, pairs(res))
}

// pairs renders id: description lines
func pairs(res *types.QueryResult) string {
	lines := make([]string, 0, res.Len())
	for _, row := range res.Rows {
		if len(row) == 0 {
			continue
		}
		id := binding.Normalize(row[0]).Value
		description := ""
		if len(row) > 1 {
			description = binding.Normalize(row[1]).Value
		}

		if description == "" {
			lines = append(lines, fmt.Sprintf("- %s", id))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", id, description))
	}
	return strings.Join(lines, "\n")
}

// failure renders a store error as guidance
func failure(name string, err error) string {
	log.With(log.F{"kind": types.KindOf(err).String()}).Warn("%s failed: %s", name, err.Error())
	if types.KindOf(err) == types.StoreUnreachable {
		return fmt.Sprintf("The %s could not run: %s. Continue with what you already know or reply STOP.", name, err.Error())
	}
	return fmt.Sprintf("The %s failed: %s. Try a different search.", name, err.Error())
}

// sentence capitalizes the text and ends it with a period
func sentence(text string) string {
	if text == "" {
		return text
	}
	return strings.ToUpper(text[:1]) + text[1:] + "."
}
