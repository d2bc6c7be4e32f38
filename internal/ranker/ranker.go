package ranker

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/embedding"
	"github.com/orb-ai/backend/pkg/logger"
)

// Match is one ranked candidate.
type Match struct {
	Candidate string
	Score     float64
}

// Ranker orders candidate fact strings by embedding similarity to a query.
// It never propagates provider faults: ranking degrades to an empty result
// and the caller falls back to generic suggestions.
type Ranker struct {
	provider embedding.Provider
	timeout  time.Duration
	topK     int
}

func NewRanker(provider embedding.Provider, timeout time.Duration, topK int) *Ranker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if topK <= 0 {
		topK = 3
	}
	return &Ranker{provider: provider, timeout: timeout, topK: topK}
}

// Rank returns up to topK candidates ordered by descending cosine
// similarity. Equal scores keep the candidates' original order. An empty
// candidate list yields an empty result, never an error.
func (r *Ranker) Rank(ctx context.Context, queryText string, candidates []string) []Match {
	if len(candidates) == 0 {
		return []Match{}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	queryVec, err := r.provider.Embed(ctx, queryText)
	if err != nil {
		logger.Warn("Ranking degraded to empty result", zap.Error(err))
		return []Match{}
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		candidateVec, err := r.provider.Embed(ctx, candidate)
		if err != nil {
			logger.Warn("Ranking degraded to empty result", zap.Error(err))
			return []Match{}
		}
		matches = append(matches, Match{
			Candidate: candidate,
			Score:     embedding.Cosine(queryVec, candidateVec),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > r.topK {
		matches = matches[:r.topK]
	}
	return matches
}
