package kb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/orb-ai/backend/pkg/logger"

	"go.uber.org/zap"
)

// knowledgeFile is the on-disk shape of a knowledge dataset.
type knowledgeFile struct {
	Entities []struct {
		ID         string         `yaml:"id"`
		Type       string         `yaml:"type"`
		Attributes map[string]any `yaml:"attributes"`
	} `yaml:"entities"`
	Relationships []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
		Type string `yaml:"type"`
	} `yaml:"relationships"`
}

// Load builds a frozen graph from the YAML dataset at path, or from the
// builtin campus seed when path is empty.
func Load(path string) (*Graph, error) {
	g := NewGraph()

	if path == "" {
		if err := Seed(g); err != nil {
			return nil, err
		}
		logger.Info("Knowledge graph loaded from builtin seed", zap.Int("entities", g.Len()))
		return g, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	if err := LoadBytes(g, data); err != nil {
		return nil, err
	}

	g.Freeze()
	logger.Info("Knowledge graph loaded",
		zap.String("path", path),
		zap.Int("entities", g.Len()),
	)
	return g, nil
}

// LoadBytes parses a YAML dataset into g without freezing it.
func LoadBytes(g *Graph, data []byte) error {
	var file knowledgeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse knowledge file: %w", err)
	}

	for _, e := range file.Entities {
		if e.ID == "" || e.Type == "" {
			return fmt.Errorf("knowledge entity missing id or type: %+v", e)
		}
		if err := g.AddEntity(e.ID, e.Type, e.Attributes); err != nil {
			return fmt.Errorf("failed to add entity %s: %w", e.ID, err)
		}
	}

	for _, r := range file.Relationships {
		if err := g.AddRelationship(r.From, r.To, r.Type); err != nil {
			return fmt.Errorf("failed to add relationship %s->%s: %w", r.From, r.To, err)
		}
	}

	return nil
}
