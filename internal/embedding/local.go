package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// LocalProvider is a deterministic in-process embedder. It hashes word
// unigrams and bigrams into a fixed-size bag-of-words vector, which is
// enough for the similarity ranking this system does when no hosted
// embedding model is configured.
type LocalProvider struct {
	dimension int
}

func NewLocalProvider(dimension int) *LocalProvider {
	if dimension <= 0 {
		dimension = 384
	}
	return &LocalProvider{dimension: dimension}
}

func (p *LocalProvider) Dimension() int {
	return p.dimension
}

func (p *LocalProvider) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, p.dimension)

	tokens := tokenize(text)
	for i, token := range tokens {
		vec[bucket(token, p.dimension)]++
		if i+1 < len(tokens) {
			vec[bucket(token+" "+tokens[i+1], p.dimension)]++
		}
	}

	normalize(vec)
	return vec, nil
}

func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		token := strings.Trim(field, ".,!?;:'\"()")
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func bucket(token string, dimension int) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(dimension))
}

func normalize(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
