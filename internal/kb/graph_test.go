package kb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	require.NoError(t, g.AddEntity("Main Campus", "campus", map[string]any{
		"address":    "1 College Road",
		"facilities": []string{"Library", "Cafeteria"},
	}))
	require.NoError(t, g.AddEntity("Tech Park", "location", map[string]any{
		"description": "Technology research hub",
	}))
	require.NoError(t, g.AddEntity("CSE", "program", map[string]any{
		"degrees": []string{"B.Tech", "M.Tech"},
	}))
	require.NoError(t, g.AddRelationship("Main Campus", "Tech Park", "has_location"))
	require.NoError(t, g.AddRelationship("Main Campus", "CSE", "offers"))
	return g
}

func TestGraph_AddEntity_SameTypeIdempotent(t *testing.T) {
	g := newTestGraph(t)

	err := g.AddEntity("Main Campus", "campus", map[string]any{"address": "overwritten"})
	require.NoError(t, err)

	// Original attributes are kept.
	assert.Equal(t, "1 College Road", g.Get("Main Campus").StringAttr("address"))
	assert.Equal(t, 3, g.Len())
}

func TestGraph_AddEntity_ConflictingType(t *testing.T) {
	g := newTestGraph(t)

	err := g.AddEntity("Main Campus", "location", nil)
	var dup *DuplicateEntityError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Main Campus", dup.ID)
	assert.Equal(t, "campus", dup.ExistingType)
	assert.Equal(t, "location", dup.NewType)
}

func TestGraph_AddRelationship_UnknownEndpoint(t *testing.T) {
	g := newTestGraph(t)

	err := g.AddRelationship("Main Campus", "Nowhere", "has_location")
	var unknown *UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Nowhere", unknown.ID)

	err = g.AddRelationship("Nowhere", "Main Campus", "has_location")
	require.ErrorAs(t, err, &unknown)
}

func TestGraph_Freeze_RejectsMutation(t *testing.T) {
	g := newTestGraph(t)
	g.Freeze()

	assert.ErrorIs(t, g.AddEntity("New", "campus", nil), ErrFrozen)
	assert.ErrorIs(t, g.AddRelationship("Main Campus", "Tech Park", "x"), ErrFrozen)
}

func TestGraph_Query_FiltersAndOrder(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddEntity("B", "campus", map[string]any{"zone": "south"}))
	require.NoError(t, g.AddEntity("A", "campus", map[string]any{"zone": "north"}))
	require.NoError(t, g.AddEntity("C", "campus", map[string]any{"zone": "south"}))

	all := g.Query("campus", nil)
	require.Len(t, all, 3)
	// Insertion order, not lexical order.
	assert.Equal(t, "B", all[0].ID)
	assert.Equal(t, "A", all[1].ID)
	assert.Equal(t, "C", all[2].ID)

	south := g.Query("campus", map[string]any{"zone": "south"})
	require.Len(t, south, 2)
	assert.Equal(t, "B", south[0].ID)
	assert.Equal(t, "C", south[1].ID)
}

func TestGraph_Query_IDPseudoFilter(t *testing.T) {
	g := newTestGraph(t)

	hits := g.Query("campus", map[string]any{"id": "Main Campus"})
	require.Len(t, hits, 1)
	assert.Equal(t, "Main Campus", hits[0].ID)

	assert.Empty(t, g.Query("campus", map[string]any{"id": "Tech Park"}))
}

func TestGraph_Query_NoMatchIsEmptyNotNil(t *testing.T) {
	g := newTestGraph(t)
	hits := g.Query("facility", nil)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestGraph_Related_FilterByRelationship(t *testing.T) {
	g := newTestGraph(t)

	locations, err := g.Related("Main Campus", "has_location")
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Tech Park", locations[0].Entity.ID)
	assert.Equal(t, "has_location", locations[0].Relationship)

	all, err := g.Related("Main Campus", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = g.Related("Nowhere", "")
	var unknown *UnknownEntityError
	assert.ErrorAs(t, err, &unknown)
}

func TestGraph_All(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.AddEntity("Robotics Centre", "department", nil))

	all := g.All()
	require.Len(t, all, 4)

	// Insertion order, every type included.
	assert.Equal(t, "Main Campus", all[0].ID)
	assert.Equal(t, "Robotics Centre", all[3].ID)
}

func TestGraph_SearchText(t *testing.T) {
	g := newTestGraph(t)

	// Case-insensitive id match.
	hits := g.SearchText("tech park")
	require.Len(t, hits, 1)
	assert.Equal(t, "Tech Park", hits[0].ID)

	// Matches inside list attributes.
	hits = g.SearchText("cafeteria")
	require.Len(t, hits, 1)
	assert.Equal(t, "Main Campus", hits[0].ID)

	// Every returned entity actually contains the query somewhere.
	for _, hit := range g.SearchText("tech") {
		assert.True(t, entityMatches(hit, "tech"), "entity %s should contain query", hit.ID)
	}

	assert.Empty(t, g.SearchText("zzz-not-present"))
	assert.Empty(t, g.SearchText("   "))
}

func TestSeed_BuildsFrozenCampusGraph(t *testing.T) {
	g := NewGraph()
	require.NoError(t, Seed(g))

	assert.Greater(t, g.Len(), 10)

	techPark := g.Get("Tech Park")
	require.NotNil(t, techPark)
	assert.Equal(t, "location", techPark.Type)
	assert.True(t, strings.Contains(techPark.StringAttr("address"), "Kattankulathur"))

	// Campus to location edges exist.
	related, err := g.Related("Kattankulathur", "has_location")
	require.NoError(t, err)
	assert.NotEmpty(t, related)

	// Seeding freezes the graph.
	assert.ErrorIs(t, g.AddEntity("X", "campus", nil), ErrFrozen)
}
