package resolver

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orb-ai/backend/internal/embedding"
	"github.com/orb-ai/backend/internal/kb"
	"github.com/orb-ai/backend/internal/nlu"
	"github.com/orb-ai/backend/internal/ranker"
	"github.com/orb-ai/backend/internal/session"
)

// fixedScoreProvider gives the anchor text a unit vector and every other
// text a vector at a fixed cosine to it, so ranking scores are exact.
type fixedScoreProvider struct {
	anchor string
	score  float64
}

func (p fixedScoreProvider) Embed(_ context.Context, text string) ([]float32, error) {
	if text == p.anchor {
		return []float32{1, 0}, nil
	}
	return []float32{float32(p.score), float32(math.Sqrt(1 - p.score*p.score))}, nil
}

func (p fixedScoreProvider) Dimension() int { return 2 }

func newScoredEngine(t *testing.T, anchor string, score float64) *Engine {
	t.Helper()

	graph := kb.NewGraph()
	require.NoError(t, kb.Seed(graph))

	provider := fixedScoreProvider{anchor: anchor, score: score}
	analyzer := nlu.NewAnalyzer(provider, 2*time.Second)
	sessions := session.NewStore(0.6, 50)
	rk := ranker.NewRanker(provider, 2*time.Second, 3)

	return NewEngine(graph, analyzer, sessions, rk, nil, 0.6, 0.5)
}

func TestProcess_MidScoreCandidateStillFallsBack(t *testing.T) {
	// Every candidate scores 0.55: above the similarity floor but below
	// the acceptance threshold. That must stay a suggestion-bearing
	// fallback, never a sub-threshold direct answer.
	e := newScoredEngine(t, "what is the meaning of life?", 0.55)

	result, err := e.Process(context.Background(), "What is the meaning of life?", "")
	require.NoError(t, err)

	assert.Equal(t, "fallback", result.Type)
	assert.Equal(t, 0.0, result.Confidence)
	assert.NotEmpty(t, result.Suggestions)
}

func TestProcess_HighScoreCandidateAccepted(t *testing.T) {
	e := newScoredEngine(t, "what is the meaning of life?", 0.7)

	result, err := e.Process(context.Background(), "What is the meaning of life?", "")
	require.NoError(t, err)

	assert.NotEqual(t, "fallback", result.Type)
	assert.InDelta(t, 0.7, result.Confidence, 1e-6)
	assert.NotEmpty(t, result.Payload["description"])
}

func TestResolveFallback_NearMissGetsTargetedSuggestions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	analysis := nlu.Analysis{
		NormalizedText: "tech park building timings",
		Entities:       []string{"tech park building"},
	}

	result := e.resolveFallback(ctx, analysis, session.Context{})
	require.Equal(t, "fallback", result.Type)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.Suggestions, "What is Tech Park?")
	assert.NotEqual(t, defaultSuggestions, result.Suggestions)
}

func TestSimilarEntities(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	similar := e.similarEntities(ctx, []string{"tech park building"})
	assert.Contains(t, similar, "Tech Park")

	// Nothing resembling the graph yields nothing.
	assert.Empty(t, e.similarEntities(ctx, []string{"meaning of life"}))
	assert.Empty(t, e.similarEntities(ctx, nil))
}

func TestResolveDirect_IndexesEveryEntityType(t *testing.T) {
	graph := kb.NewGraph()
	require.NoError(t, graph.AddEntity("Robotics Centre", "department", map[string]any{
		"description": "Autonomous systems research group",
	}))
	graph.Freeze()

	provider := embedding.NewLocalProvider(64)
	e := NewEngine(graph,
		nlu.NewAnalyzer(provider, time.Second),
		session.NewStore(0.6, 10),
		ranker.NewRanker(provider, time.Second, 3),
		nil, 0.6, 0.5)

	analysis := nlu.Analysis{NormalizedText: "tell me about the robotics centre", Intent: nlu.IntentDescription}
	result := e.resolveDirect([]string{"robotics centre"}, analysis, session.Context{})

	require.NotNil(t, result)
	assert.Equal(t, "Robotics Centre", result.Entity)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestBuildEntityResult_DoesNotAliasGraphSlices(t *testing.T) {
	// A facilities slice with spare capacity must not be written through
	// when amenities are appended for the response payload.
	shared := make([]string, 1, 4)
	shared[0] = "Labs"

	graph := kb.NewGraph()
	require.NoError(t, graph.AddEntity("Annex", "location", map[string]any{
		"facilities": shared,
		"amenities":  []string{"Wifi"},
	}))

	e := newTestEngine(t)
	analysis := nlu.Analysis{NormalizedText: "what facilities does the annex have"}

	result := e.buildEntityResult(graph.Get("Annex"), analysis)
	facilities, ok := result.Payload["facilities"].([]string)
	require.True(t, ok)
	require.Equal(t, []string{"Labs", "Wifi"}, facilities)

	facilities[0] = "tampered"
	assert.Equal(t, "Labs", shared[0])
}
