package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/orb-ai/backend/internal/nlu"
	"github.com/orb-ai/backend/internal/ranker"
	"github.com/orb-ai/backend/internal/session"
)

// defaultSuggestions are the domain-wide example questions emitted when
// ranking finds nothing useful. The fallback response is never
// suggestion-free.
var defaultSuggestions = []string{
	"Tell me about the Kattankulathur campus",
	"What facilities are available in Tech Park?",
	"How can I apply for admission?",
	"What are the hostel facilities?",
	"Where is the Central Library?",
}

const maxSuggestions = 5

// resolveFallback is the terminal path: similarity-rank candidate facts,
// and when nothing clears the acceptance threshold, degrade to a
// clarification (for follow-ups with prior context), to suggestions built
// around entities similar to what the query named, or finally to the
// generic suggestion set. The similarity floor governs only suggestion
// building, never answer acceptance.
func (e *Engine) resolveFallback(ctx context.Context, analysis nlu.Analysis, sctx session.Context) *Result {
	candidates := ranker.Candidates(e.graph)
	matches := e.ranker.Rank(ctx, analysis.NormalizedText, candidates)

	if len(matches) > 0 && matches[0].Score > e.acceptThreshold {
		return candidateResult(matches[0])
	}

	if analysis.IsFollowup && len(sctx.ReferencedEntities) > 0 {
		return &Result{
			Type:       "clarification",
			Confidence: 0.0,
			Message: fmt.Sprintf("I'm not sure what you're asking about. Are you still asking about %s?",
				strings.Join(sctx.ReferencedEntities, ", ")),
			Suggestions: suggestFor(sctx.ReferencedEntities),
		}
	}

	if similar := e.similarEntities(ctx, analysis.Entities); len(similar) > 0 {
		return &Result{
			Type:       "fallback",
			Confidence: 0.0,
			Message: fmt.Sprintf("I couldn't find exactly that, but I know about %s. You could ask:",
				strings.Join(similar, ", ")),
			Suggestions: suggestFor(similar),
		}
	}

	return &Result{
		Type:        "fallback",
		Confidence:  0.0,
		Message:     "I'm not quite sure about that. Here are some related questions you might be interested in:",
		Suggestions: defaultSuggestions,
	}
}

// similarEntities finds knowledge-graph entities whose ids resemble the
// query's extracted entities, so a near-miss mention gets targeted
// suggestions instead of the generic set.
func (e *Engine) similarEntities(ctx context.Context, entities []string) []string {
	if len(entities) == 0 {
		return nil
	}

	ids := make([]string, 0, e.graph.Len())
	for _, entity := range e.graph.All() {
		ids = append(ids, entity.ID)
	}

	var similar []string
	for _, surface := range entities {
		for _, match := range e.ranker.Rank(ctx, surface, ids) {
			if match.Score > e.similarityFloor {
				similar = append(similar, match.Candidate)
			}
		}
	}

	return dedupe(similar)
}

// candidateResult turns the best-ranked fact string back into a structured
// answer. Candidate lines are "Entity: info" shaped, with the line's
// phrasing indicating the response type.
func candidateResult(match ranker.Match) *Result {
	entity, info := splitCandidate(match.Candidate)

	resultType := "description"
	switch {
	case strings.Contains(match.Candidate, "is located at"):
		resultType = "location"
	case strings.Contains(match.Candidate, "facilities") || strings.Contains(match.Candidate, "amenities"):
		resultType = "facilities"
	case strings.HasPrefix(match.Candidate, "Contact "):
		resultType = "contact"
	}

	return &Result{
		Type:       resultType,
		Entity:     entity,
		Confidence: match.Score,
		Payload:    map[string]any{"description": info},
	}
}

func splitCandidate(candidate string) (string, string) {
	if entity, info, ok := strings.Cut(candidate, ": "); ok {
		entity = strings.TrimPrefix(strings.TrimSpace(entity), "Contact ")
		entity = strings.TrimSuffix(entity, " facilities")
		entity = strings.TrimSuffix(entity, " amenities")
		entity = strings.TrimSuffix(entity, " degrees")
		return entity, strings.TrimSpace(info)
	}
	if entity, info, ok := strings.Cut(candidate, " is located at "); ok {
		return strings.TrimSpace(entity), strings.TrimSpace(info)
	}
	return "", candidate
}

// suggestFor builds follow-up question templates around known entities,
// capped at the suggestion limit.
func suggestFor(entities []string) []string {
	var suggestions []string
	for _, entity := range entities {
		suggestions = append(suggestions,
			fmt.Sprintf("What is %s?", entity),
			fmt.Sprintf("Tell me about %s", entity),
			fmt.Sprintf("Where is %s located?", entity),
		)
		if len(suggestions) >= maxSuggestions {
			break
		}
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	if len(suggestions) == 0 {
		suggestions = defaultSuggestions
	}
	return suggestions
}
