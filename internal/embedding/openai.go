package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/orb-ai/backend/pkg/circuitbreaker"
	"github.com/orb-ai/backend/pkg/logger"
	"github.com/orb-ai/backend/pkg/retry"
)

// OpenAIProvider embeds text through the OpenAI embeddings API, guarded by
// a circuit breaker and retries.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	dimension   int
	timeout     time.Duration
	cache       *Cache
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewOpenAIProvider(apiKey, model string, dimension, timeoutSec int, cache *Cache) *OpenAIProvider {
	if timeoutSec <= 0 {
		timeoutSec = 10
	}

	cb := circuitbreaker.New("embedding", circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Cooldown:         30 * time.Second,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("OpenAI embedding provider initialized",
		zap.String("model", model),
		zap.Int("dimension", dimension),
	)

	return &OpenAIProvider{
		client:      openai.NewClient(apiKey),
		model:       model,
		dimension:   dimension,
		timeout:     time.Duration(timeoutSec) * time.Second,
		cache:       cache,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.cache != nil {
		if vec, ok := p.cache.Get(ctx, text); ok {
			return vec, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var embedding []float32

	err := p.cb.Execute(ctx, func() error {
		return retry.Do(ctx, p.retryConfig, func() error {
			resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
				Input: []string{text},
				Model: openai.EmbeddingModel(p.model),
			})
			if err != nil {
				return fmt.Errorf("failed to create embedding: %w", err)
			}
			if len(resp.Data) == 0 {
				return fmt.Errorf("embedding response contained no data")
			}

			embedding = make([]float32, len(resp.Data[0].Embedding))
			copy(embedding, resp.Data[0].Embedding)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Set(ctx, text, embedding)
	}

	return embedding, nil
}
