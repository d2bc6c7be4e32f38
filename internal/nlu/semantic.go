package nlu

import (
	"context"

	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/embedding"
	"github.com/orb-ai/backend/pkg/logger"
)

// typeExemplars holds example questions per type for the semantic fallback
// classifier. Ordered to match the pattern table so ties resolve the same
// way on every run.
var typeExemplars = []struct {
	qtype     QuestionType
	exemplars []string
}{
	{QuestionLocation, []string{
		"where is the library",
		"how do i get to the campus",
	}},
	{QuestionFactual, []string{
		"what are the courses offered",
		"tell me about the programs",
	}},
	{QuestionProcedural, []string{
		"how do i apply for admission",
		"what are the steps to register",
	}},
	{QuestionComparative, []string{
		"compare the campuses",
		"which program is better",
	}},
}

const zeroSimilarity = 1e-6

// classifySemantic picks the question type whose best exemplar is most
// similar to the query. Runs only when the pattern table found nothing; any
// provider fault degrades back to unknown.
func (a *Analyzer) classifySemantic(ctx context.Context, normalized string) QuestionType {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	queryVec, err := a.provider.Embed(ctx, normalized)
	if err != nil {
		logger.Warn("Semantic classification unavailable", zap.Error(err))
		return QuestionUnknown
	}

	best := QuestionUnknown
	bestScore := 0.0

	for _, entry := range typeExemplars {
		for _, exemplar := range entry.exemplars {
			exemplarVec, err := a.provider.Embed(ctx, exemplar)
			if err != nil {
				logger.Warn("Semantic classification unavailable", zap.Error(err))
				return QuestionUnknown
			}

			// Strictly greater keeps the earlier table entry on ties.
			if score := embedding.Cosine(queryVec, exemplarVec); score > bestScore {
				bestScore = score
				best = entry.qtype
			}
		}
	}

	if bestScore <= zeroSimilarity {
		return QuestionUnknown
	}
	return best
}
