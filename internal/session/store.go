package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/metrics"
	"github.com/orb-ai/backend/internal/nlu"
	"github.com/orb-ai/backend/pkg/logger"
)

// DuplicateSessionError is returned when creating a session with an id that
// already exists.
type DuplicateSessionError struct {
	ID string
}

func (e *DuplicateSessionError) Error() string {
	return fmt.Sprintf("session %q already exists", e.ID)
}

// Outcome is the slice of a resolution result the context store cares
// about. The full payload stays opaque.
type Outcome struct {
	Type       string
	Entity     string
	Intent     nlu.Intent
	Confidence float64
	// Roles maps semantic roles (campus, location, search_terms) to the
	// value last associated with them, seeding later follow-up resolution.
	Roles    map[string]string
	Response map[string]any
}

// Turn is one completed exchange. Immutable once recorded.
type Turn struct {
	Query     string
	Timestamp time.Time
	Analysis  nlu.Analysis
	Response  map[string]any
}

// Context is the per-session conversational state.
type Context struct {
	ID                 string
	History            []Turn
	CurrentEntity      string
	CurrentIntent      nlu.Intent
	ReferencedEntities []string
	FollowupContext    map[string]string
	CreatedAt          time.Time
}

// Summary is a read-only projection of a session.
type Summary struct {
	TurnCount         int      `json:"turn_count"`
	MentionedEntities []string `json:"mentioned_entities"`
	CurrentTopic      string   `json:"current_topic"`
}

type entry struct {
	mu  sync.Mutex
	ctx *Context
}

// Store holds conversational state keyed by session id. Updates for the
// same id are serialized by a per-session mutex; different ids never block
// each other.
type Store struct {
	mu              sync.RWMutex
	sessions        map[string]*entry
	acceptThreshold float64
	maxHistory      int
}

func NewStore(acceptThreshold float64, maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = 50
	}
	return &Store{
		sessions:        make(map[string]*entry),
		acceptThreshold: acceptThreshold,
		maxHistory:      maxHistory,
	}
}

// Create registers a new session. An empty id gets a generated one; an
// existing id fails with DuplicateSessionError.
func (s *Store) Create(id string) (string, error) {
	if id == "" {
		id = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		return "", &DuplicateSessionError{ID: id}
	}

	s.sessions[id] = &entry{ctx: newContext(id)}
	metrics.ActiveSessions.Inc()

	logger.Debug("Session created", zap.String("session_id", id))
	return id, nil
}

// Exists reports whether the session id is registered.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// Get returns a snapshot of the session's context, or an empty default
// context when the id is unknown. Callers must not assume prior existence.
func (s *Store) Get(id string) Context {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return *newContext(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.ctx)
}

// Update appends a turn and, only when the outcome cleared the acceptance
// threshold, advances the current entity/intent anchors. Failed resolutions
// keep the last good anchor so follow-ups can still resolve.
func (s *Store) Update(id, query string, analysis nlu.Analysis, outcome Outcome) {
	e := s.ensure(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := e.ctx
	ctx.History = append(ctx.History, Turn{
		Query:     query,
		Timestamp: time.Now(),
		Analysis:  analysis,
		Response:  outcome.Response,
	})
	if len(ctx.History) > s.maxHistory {
		ctx.History = ctx.History[len(ctx.History)-s.maxHistory:]
	}

	if outcome.Confidence > s.acceptThreshold && outcome.Entity != "" {
		ctx.CurrentEntity = outcome.Entity
		if outcome.Intent != "" {
			ctx.CurrentIntent = outcome.Intent
		}
		ctx.ReferencedEntities = appendUnique(ctx.ReferencedEntities, outcome.Entity)
	}

	for role, value := range outcome.Roles {
		ctx.FollowupContext[role] = value
	}
}

// Summary projects the session read-only; it never mutates state.
func (s *Store) Summary(id string) Summary {
	ctx := s.Get(id)

	return Summary{
		TurnCount:         len(ctx.History),
		MentionedEntities: ctx.ReferencedEntities,
		CurrentTopic:      ctx.CurrentEntity,
	}
}

// Delete removes a session. Exposed so the owning process can implement
// its own eviction policy.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		metrics.ActiveSessions.Dec()
		logger.Debug("Session deleted", zap.String("session_id", id))
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) ensure(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		e = &entry{ctx: newContext(id)}
		s.sessions[id] = e
		metrics.ActiveSessions.Inc()
	}
	return e
}

func newContext(id string) *Context {
	return &Context{
		ID:              id,
		FollowupContext: make(map[string]string),
		CreatedAt:       time.Now(),
	}
}

func snapshot(ctx *Context) Context {
	out := *ctx
	out.History = append([]Turn(nil), ctx.History...)
	out.ReferencedEntities = append([]string(nil), ctx.ReferencedEntities...)
	out.FollowupContext = make(map[string]string, len(ctx.FollowupContext))
	for k, v := range ctx.FollowupContext {
		out.FollowupContext[k] = v
	}
	return out
}

func appendUnique(items []string, item string) []string {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}
