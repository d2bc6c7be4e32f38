package resolver

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/kb"
	"github.com/orb-ai/backend/internal/metrics"
	"github.com/orb-ai/backend/internal/nlu"
	"github.com/orb-ai/backend/internal/ranker"
	"github.com/orb-ai/backend/internal/session"
	"github.com/orb-ai/backend/internal/storage/sqlite"
	"github.com/orb-ai/backend/pkg/logger"
)

// ErrEmptyQuery is the only caller-visible process error: analysis of
// nothing is meaningless. Everything else resolves to a low-confidence
// structured answer.
var ErrEmptyQuery = errors.New("query text is empty")

// Result is the engine's structured answer, handed to the formatting layer.
type Result struct {
	Type        string         `json:"type"`
	Entity      string         `json:"entity,omitempty"`
	Confidence  float64        `json:"confidence"`
	Payload     map[string]any `json:"payload,omitempty"`
	Message     string         `json:"message,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	SessionID   string         `json:"session_id"`
}

// resolution path labels for metrics and the turn record.
const (
	pathGreeting   = "greeting"
	pathDirect     = "direct"
	pathFollowup   = "followup"
	pathProcedural = "procedural"
	pathFallback   = "fallback"
)

// Engine orchestrates the analyzer, session store, knowledge graph and
// fallback ranker into one query-resolution pipeline.
type Engine struct {
	graph    *kb.Graph
	analyzer *nlu.Analyzer
	sessions *session.Store
	ranker   *ranker.Ranker
	records  *sqlite.Client

	acceptThreshold float64
	similarityFloor float64

	// idIndex maps lowercased entity ids to their canonical form so
	// extracted spans match graph nodes case-insensitively.
	idIndex map[string]string
}

func NewEngine(graph *kb.Graph, analyzer *nlu.Analyzer, sessions *session.Store, rk *ranker.Ranker, records *sqlite.Client, acceptThreshold, similarityFloor float64) *Engine {
	idIndex := make(map[string]string, graph.Len())
	for _, entity := range graph.All() {
		idIndex[strings.ToLower(entity.ID)] = entity.ID
	}

	return &Engine{
		graph:           graph,
		analyzer:        analyzer,
		sessions:        sessions,
		ranker:          rk,
		records:         records,
		acceptThreshold: acceptThreshold,
		similarityFloor: similarityFloor,
		idIndex:         idIndex,
	}
}

// StartSession registers a new conversation and returns its id.
func (e *Engine) StartSession() (string, error) {
	return e.sessions.Create("")
}

// Summary returns the read-only projection of a session.
func (e *Engine) Summary(sessionID string) session.Summary {
	return e.sessions.Summary(sessionID)
}

// EndSession discards a session's state.
func (e *Engine) EndSession(sessionID string) {
	e.sessions.Delete(sessionID)
}

// Process resolves one query against the knowledge graph and the session's
// conversational context, records the turn, and returns a structured
// result. A missing session id starts a new session.
func (e *Engine) Process(ctx context.Context, queryText, sessionID string) (*Result, error) {
	started := time.Now()

	if strings.TrimSpace(queryText) == "" {
		return nil, ErrEmptyQuery
	}

	if sessionID == "" {
		id, err := e.StartSession()
		if err != nil {
			return nil, err
		}
		sessionID = id
	}

	sctx := e.sessions.Get(sessionID)
	prior := &nlu.Prior{CurrentEntity: sctx.CurrentEntity, CurrentIntent: sctx.CurrentIntent}

	analysis := e.analyzer.Analyze(ctx, queryText, prior)

	result, path := e.resolve(ctx, analysis, sctx)
	result.SessionID = sessionID

	e.sessions.Update(sessionID, queryText, analysis, session.Outcome{
		Type:       result.Type,
		Entity:     result.Entity,
		Intent:     analysis.Intent,
		Confidence: result.Confidence,
		Roles:      rolesFor(e.graph, result.Entity, analysis),
		Response:   result.Payload,
	})

	latency := time.Since(started)
	metrics.QueryTotal.WithLabelValues(path).Inc()
	metrics.QueryDuration.WithLabelValues(result.Type).Observe(latency.Seconds())
	metrics.ConfidenceScore.Observe(result.Confidence)

	if e.records != nil {
		e.records.InsertTurn(&sqlite.TurnRecord{
			SessionID:  sessionID,
			QueryText:  queryText,
			ResultType: result.Type,
			Entity:     result.Entity,
			Path:       path,
			Confidence: result.Confidence,
			LatencyMS:  int(latency.Milliseconds()),
			CreatedAt:  time.Now(),
		})
	}

	logger.Info("Query resolved",
		zap.String("session_id", sessionID),
		zap.String("path", path),
		zap.String("result_type", result.Type),
		zap.Float64("confidence", result.Confidence),
	)

	return result, nil
}

// resolve walks the state machine: greeting short-circuit, follow-up
// resolution, direct match, procedural supplement, then fallback.
func (e *Engine) resolve(ctx context.Context, analysis nlu.Analysis, sctx session.Context) (*Result, string) {
	if analysis.QuestionType == nlu.QuestionGreeting {
		return greetingResult(), pathGreeting
	}

	if analysis.IsFollowup && sctx.CurrentEntity != "" {
		if result := e.resolveFollowup(analysis, sctx); result != nil {
			return result, pathFollowup
		}
	}

	if analysis.QuestionType == nlu.QuestionComparative && len(analysis.Entities) > 1 {
		if result := e.resolveComparative(analysis.Entities, analysis); result != nil {
			return result, pathDirect
		}
	}

	if result := e.resolveDirect(analysis.Entities, analysis, sctx); result != nil {
		return result, pathDirect
	}

	if analysis.QuestionType == nlu.QuestionProcedural {
		if result := e.resolveProcedural(analysis); result != nil {
			return result, pathProcedural
		}
	}

	return e.resolveFallback(ctx, analysis, sctx), pathFallback
}

// resolveFollowup merges the query's entities with the session anchors and
// runs the direct lookup over the merged set.
func (e *Engine) resolveFollowup(analysis nlu.Analysis, sctx session.Context) *Result {
	merged := make([]string, 0, len(analysis.Entities)+4)
	merged = append(merged, analysis.Entities...)
	merged = append(merged, sctx.CurrentEntity)
	for _, role := range []string{"campus", "location", "search_terms"} {
		if v, ok := sctx.FollowupContext[role]; ok {
			merged = append(merged, v)
		}
	}
	merged = dedupe(merged)

	// A follow-up inherits the session's intent when the query itself is
	// unspecific.
	followupAnalysis := analysis
	if analysis.Intent == nlu.IntentGeneral && sctx.CurrentIntent != "" {
		followupAnalysis.Intent = sctx.CurrentIntent
	}

	result := e.resolveDirect(merged, followupAnalysis, sctx)
	if result == nil || result.Confidence <= e.acceptThreshold {
		return nil
	}

	// A follow-up hit is confident but not an exact fresh mention.
	result.Confidence = 0.9
	return result
}

// resolveDirect evaluates entities in extraction order and returns the
// first lookup whose confidence clears the threshold. Deliberately not
// best-of-all: callers needing a global optimum must re-rank externally.
func (e *Engine) resolveDirect(entities []string, analysis nlu.Analysis, sctx session.Context) *Result {
	for _, surface := range entities {
		canonical, ok := e.idIndex[strings.ToLower(strings.TrimSpace(surface))]
		if !ok {
			continue
		}
		entity := e.graph.Get(canonical)
		if entity == nil {
			continue
		}

		result := e.buildEntityResult(entity, analysis)
		if result.Confidence > e.acceptThreshold {
			return result
		}
	}
	return nil
}

// resolveComparative gathers each named entity with its related aspects.
func (e *Engine) resolveComparative(entities []string, analysis nlu.Analysis) *Result {
	aspects := analysis.Context.ComparisonAspects
	if len(aspects) == 0 {
		aspects = []string{"has_location", "has_facility", "offers"}
	}

	comparisons := make(map[string]any)
	for _, surface := range entities {
		canonical, ok := e.idIndex[strings.ToLower(strings.TrimSpace(surface))]
		if !ok {
			continue
		}
		entity := e.graph.Get(canonical)
		if entity == nil {
			continue
		}

		info := map[string]any{"type": entity.Type}
		for k, v := range entity.Attributes {
			info[k] = v
		}

		related := make(map[string][]string)
		for _, aspect := range aspects {
			neighbors, err := e.graph.Related(canonical, relationshipFor(aspect))
			if err != nil {
				continue
			}
			for _, n := range neighbors {
				related[aspect] = append(related[aspect], n.Entity.ID)
			}
		}
		if len(related) > 0 {
			info["related"] = related
		}

		comparisons[canonical] = info
	}

	if len(comparisons) == 0 {
		return nil
	}

	return &Result{
		Type:       "comparative",
		Confidence: 0.9,
		Payload:    map[string]any{"comparisons": comparisons},
	}
}

// relationshipFor maps a comparison aspect word onto the graph's edge
// labels.
func relationshipFor(aspect string) string {
	switch aspect {
	case "location", "locations":
		return "has_location"
	case "facilities":
		return "has_facility"
	case "programs":
		return "offers"
	default:
		return aspect
	}
}

func rolesFor(graph *kb.Graph, entityID string, analysis nlu.Analysis) map[string]string {
	roles := make(map[string]string)

	if entityID != "" {
		if entity := graph.Get(entityID); entity != nil {
			roles[entity.Type] = entityID
		}
	} else if len(analysis.Entities) > 0 {
		roles["search_terms"] = strings.Join(analysis.Entities, " ")
	}

	return roles
}

func greetingResult() *Result {
	return &Result{
		Type:       "greeting",
		Confidence: 1.0,
		Message: "Hello! I'm ORB, your campus knowledge assistant. I can help you with " +
			"campus locations and facilities, academic programs, and admission procedures. " +
			"What would you like to know about?",
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
