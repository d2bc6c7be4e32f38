package kb

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrFrozen is returned by mutating calls after Freeze.
var ErrFrozen = errors.New("knowledge graph is frozen")

// DuplicateEntityError is returned when an entity id is re-added with a
// different type. Re-adding with the same type is a no-op.
type DuplicateEntityError struct {
	ID           string
	ExistingType string
	NewType      string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("entity %q already exists with type %q (got %q)", e.ID, e.ExistingType, e.NewType)
}

// UnknownEntityError is returned when an operation references an entity id
// that is not in the graph.
type UnknownEntityError struct {
	ID string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q", e.ID)
}

// Entity is a node in the knowledge graph. The id doubles as the display
// name and is unique across all types.
type Entity struct {
	ID         string
	Type       string
	Attributes map[string]any
}

// StringAttr returns a string-valued attribute, or "" when absent or not a
// string.
func (e *Entity) StringAttr(key string) string {
	if s, ok := e.Attributes[key].(string); ok {
		return s
	}
	return ""
}

// ListAttr returns a list-valued attribute flattened to strings.
func (e *Entity) ListAttr(key string) []string {
	switch v := e.Attributes[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return nil
	}
}

// Related pairs a neighbor entity with the relationship that reached it.
type Related struct {
	Entity       *Entity
	Relationship string
}

type edge struct {
	to           string
	relationship string
}

// Graph is an in-memory typed directed multigraph. It is mutable while
// being loaded and read-only after Freeze, at which point it may be shared
// across goroutines without locking.
type Graph struct {
	nodes  map[string]*Entity
	order  []string
	edges  map[string][]edge
	frozen bool
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Entity),
		edges: make(map[string][]edge),
	}
}

// Freeze marks the graph read-only. All later mutations fail with ErrFrozen.
func (g *Graph) Freeze() {
	g.frozen = true
}

// Len returns the number of entities in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// AddEntity inserts a node. Re-adding an id with the same type is
// idempotent and keeps the original attributes; a different type fails with
// DuplicateEntityError.
func (g *Graph) AddEntity(id, entityType string, attributes map[string]any) error {
	if g.frozen {
		return ErrFrozen
	}

	if existing, ok := g.nodes[id]; ok {
		if existing.Type != entityType {
			return &DuplicateEntityError{ID: id, ExistingType: existing.Type, NewType: entityType}
		}
		return nil
	}

	if attributes == nil {
		attributes = make(map[string]any)
	}

	g.nodes[id] = &Entity{ID: id, Type: entityType, Attributes: attributes}
	g.order = append(g.order, id)
	return nil
}

// AddRelationship inserts a labeled directed edge. Both endpoints must
// already exist. Parallel edges with different labels are allowed.
func (g *Graph) AddRelationship(fromID, toID, relationshipType string) error {
	if g.frozen {
		return ErrFrozen
	}
	if _, ok := g.nodes[fromID]; !ok {
		return &UnknownEntityError{ID: fromID}
	}
	if _, ok := g.nodes[toID]; !ok {
		return &UnknownEntityError{ID: toID}
	}

	g.edges[fromID] = append(g.edges[fromID], edge{to: toID, relationship: relationshipType})
	return nil
}

// Get returns the entity with the given id, or nil when absent.
func (g *Graph) Get(id string) *Entity {
	return g.nodes[id]
}

// All returns every entity in insertion order, regardless of type.
func (g *Graph) All() []*Entity {
	entities := make([]*Entity, 0, len(g.order))
	for _, id := range g.order {
		entities = append(entities, g.nodes[id])
	}
	return entities
}

// Query returns all entities of entityType whose attributes match every
// filter pair by exact equality, in insertion order. The pseudo-attribute
// "id" filters on the entity id. No match yields an empty slice.
func (g *Graph) Query(entityType string, filters map[string]any) []*Entity {
	results := []*Entity{}

	for _, id := range g.order {
		node := g.nodes[id]
		if node.Type != entityType {
			continue
		}

		if !matchesFilters(node, filters) {
			continue
		}
		results = append(results, node)
	}

	return results
}

func matchesFilters(node *Entity, filters map[string]any) bool {
	for key, want := range filters {
		if key == "id" {
			if node.ID != want {
				return false
			}
			continue
		}
		got, ok := node.Attributes[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Related returns the outgoing neighbors of entityID, optionally filtered by
// relationship type (empty string matches all).
func (g *Graph) Related(entityID, relationshipType string) ([]Related, error) {
	if _, ok := g.nodes[entityID]; !ok {
		return nil, &UnknownEntityError{ID: entityID}
	}

	related := []Related{}
	for _, e := range g.edges[entityID] {
		if relationshipType != "" && e.relationship != relationshipType {
			continue
		}
		related = append(related, Related{Entity: g.nodes[e.to], Relationship: e.relationship})
	}

	return related, nil
}

// SearchText returns every entity whose id or string-valued attributes
// contain the query case-insensitively. List and map attributes are
// searched one level deep. Each entity appears at most once, in graph
// iteration order.
func (g *Graph) SearchText(queryText string) []*Entity {
	query := strings.ToLower(strings.TrimSpace(queryText))
	if query == "" {
		return []*Entity{}
	}

	results := []*Entity{}
	for _, id := range g.order {
		node := g.nodes[id]
		if entityMatches(node, query) {
			results = append(results, node)
		}
	}

	return results
}

func entityMatches(node *Entity, query string) bool {
	if strings.Contains(strings.ToLower(node.ID), query) {
		return true
	}

	for _, value := range node.Attributes {
		if valueMatches(value, query) {
			return true
		}
	}
	return false
}

func valueMatches(value any, query string) bool {
	switch v := value.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), query)
	case []string:
		for _, item := range v {
			if strings.Contains(strings.ToLower(item), query) {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if strings.Contains(strings.ToLower(fmt.Sprintf("%v", item)), query) {
				return true
			}
		}
	case map[string]string:
		for _, item := range v {
			if strings.Contains(strings.ToLower(item), query) {
				return true
			}
		}
	case map[string]any:
		for _, item := range v {
			if strings.Contains(strings.ToLower(fmt.Sprintf("%v", item)), query) {
				return true
			}
		}
	}
	return false
}
