package ranker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orb-ai/backend/internal/kb"
)

// entityTypes whose nodes become fallback candidates. Degree nodes are
// skipped: they only restate their program's degrees line.
var candidateTypes = []string{"campus", "location", "program", "facility"}

// Candidates regenerates the fallback candidate strings from the knowledge
// graph. They are throwaway text representations of facts, rebuilt per
// ranking request rather than persisted.
func Candidates(graph *kb.Graph) []string {
	var candidates []string

	for _, entityType := range candidateTypes {
		for _, entity := range graph.Query(entityType, nil) {
			candidates = append(candidates, describe(entity)...)
		}
	}

	return candidates
}

func describe(entity *kb.Entity) []string {
	var lines []string

	if desc := entity.StringAttr("description"); desc != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", entity.ID, desc))
	} else {
		lines = append(lines, fmt.Sprintf("%s: %s", entity.ID, entity.Type))
	}

	if facilities := entity.ListAttr("facilities"); len(facilities) > 0 {
		lines = append(lines, fmt.Sprintf("%s facilities: %s", entity.ID, strings.Join(facilities, ", ")))
	}
	if amenities := entity.ListAttr("amenities"); len(amenities) > 0 {
		lines = append(lines, fmt.Sprintf("%s amenities: %s", entity.ID, strings.Join(amenities, ", ")))
	}
	if address := entity.StringAttr("address"); address != "" {
		lines = append(lines, fmt.Sprintf("%s is located at %s", entity.ID, address))
	}
	if degrees := entity.ListAttr("degrees"); len(degrees) > 0 {
		lines = append(lines, fmt.Sprintf("%s degrees: %s", entity.ID, strings.Join(degrees, ", ")))
	}

	if contact, ok := entity.Attributes["contact"].(map[string]any); ok {
		keys := make([]string, 0, len(contact))
		for k := range contact {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, contact[k]))
		}
		lines = append(lines, fmt.Sprintf("Contact %s: %s", entity.ID, strings.Join(parts, ", ")))
	} else if contact := entity.StringAttr("contact"); contact != "" {
		lines = append(lines, fmt.Sprintf("Contact %s: %s", entity.ID, contact))
	}

	return lines
}
