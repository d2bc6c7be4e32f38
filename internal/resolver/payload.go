package resolver

import (
	"strings"

	"github.com/orb-ai/backend/internal/kb"
	"github.com/orb-ai/backend/internal/nlu"
)

// buildEntityResult shapes the answer for a matched entity. An exact id hit
// is fully confident; which fields surface depends on what the query asked
// for.
func (e *Engine) buildEntityResult(entity *kb.Entity, analysis nlu.Analysis) *Result {
	kind := responseKind(analysis)
	payload := make(map[string]any)

	switch kind {
	case "location":
		putIfSet(payload, "address", entity.StringAttr("address"))
		putIfSet(payload, "location", entity.StringAttr("location"))
		putIfSet(payload, "map_link", entity.StringAttr("map_link"))
	case "facilities":
		// ListAttr can hand back the graph's own slice; append into a
		// fresh one so the frozen graph is never written through.
		base := entity.ListAttr("facilities")
		amenities := entity.ListAttr("amenities")
		facilities := make([]string, 0, len(base)+len(amenities))
		facilities = append(facilities, base...)
		facilities = append(facilities, amenities...)
		payload["facilities"] = facilities
		putIfSet(payload, "description", entity.StringAttr("description"))
	case "description":
		putIfSet(payload, "description", entity.StringAttr("description"))
		payload["category"] = entity.Type
	case "contact":
		if contact, ok := entity.Attributes["contact"]; ok {
			payload["contact"] = contact
		}
		putIfSet(payload, "additional_info", entity.StringAttr("description"))
	default:
		// Everything scalar or list-of-string, skipping nested maps.
		for key, value := range entity.Attributes {
			switch value.(type) {
			case map[string]any, map[string]string:
				continue
			default:
				payload[key] = value
			}
		}
	}

	return &Result{
		Type:       kind,
		Entity:     entity.ID,
		Confidence: 1.0,
		Payload:    payload,
	}
}

// responseKind decides the payload shape. A facilities mention overrides
// the intent because the intent table has no facilities category; otherwise
// the intent maps straight onto a response type.
func responseKind(analysis nlu.Analysis) string {
	if strings.Contains(analysis.NormalizedText, "facilit") || strings.Contains(analysis.NormalizedText, "amenit") {
		return "facilities"
	}

	switch analysis.Intent {
	case nlu.IntentLocation:
		return "location"
	case nlu.IntentDescription:
		return "description"
	case nlu.IntentContact:
		return "contact"
	default:
		return "general"
	}
}

func putIfSet(payload map[string]any, key, value string) {
	if value != "" {
		payload[key] = value
	}
}
