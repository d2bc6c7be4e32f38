package resolver

import (
	"fmt"
	"strings"

	"github.com/orb-ai/backend/internal/admissions"
	"github.com/orb-ai/backend/internal/nlu"
)

// resolveProcedural answers how-to queries with step lists. Returns nil
// when no known procedure matches, letting the query fall through to the
// ranker.
func (e *Engine) resolveProcedural(analysis nlu.Analysis) *Result {
	text := analysis.NormalizedText

	switch {
	case containsAny(text, "admission", "apply", "join", "enroll", "srmjeee"):
		return e.admissionResult(text)
	case containsAny(text, "reach", "get to", "direction"):
		return e.navigationResult(analysis)
	case strings.Contains(text, "library"):
		return proceduralResult([]string{
			"Visit the library with your student ID",
			"Register at the front desk",
			"Get your library card",
			"Follow borrowing guidelines",
			"Return books on time",
		}, "Library timings: 8:00 AM to 8:00 PM")
	case strings.Contains(text, "hostel"):
		return proceduralResult([]string{
			"Submit hostel application",
			"Pay hostel fees",
			"Complete room allocation process",
			"Collect room keys",
			"Complete check-in formalities",
		}, "Contact hostel office for more details")
	default:
		return nil
	}
}

func (e *Engine) admissionResult(text string) *Result {
	track := admissions.Detect(text)
	req, _ := admissions.For(track)

	payload := map[string]any{
		"steps":       admissions.Steps(),
		"track":       string(track),
		"documents":   req.Documents,
		"eligibility": req.Eligibility,
		"deadlines":   req.Deadlines,
		"contact":     req.ContactEmail,
		"procedure":   req.Procedure,
	}

	return &Result{
		Type:       "procedural",
		Confidence: 0.9,
		Payload:    payload,
	}
}

// navigationResult gives directions to the first entity in the query that
// resolves to a campus or location.
func (e *Engine) navigationResult(analysis nlu.Analysis) *Result {
	for _, surface := range analysis.Entities {
		canonical, ok := e.idIndex[strings.ToLower(strings.TrimSpace(surface))]
		if !ok {
			continue
		}
		entity := e.graph.Get(canonical)
		if entity == nil || (entity.Type != "campus" && entity.Type != "location") {
			continue
		}

		address := entity.StringAttr("address")
		if address == "" {
			address = "Address not available"
		}

		steps := []string{
			fmt.Sprintf("%s is located at: %s", entity.ID, address),
			"You can reach here by:",
			"- Public Transport: Available bus and train services",
			"- College Bus: Regular shuttle service from major points",
			"- Private Transport: Well-connected by road",
		}

		payload := map[string]any{"steps": steps}
		putIfSet(payload, "map_link", entity.StringAttr("map_link"))

		return &Result{
			Type:       "procedural",
			Entity:     entity.ID,
			Confidence: 0.9,
			Payload:    payload,
		}
	}
	return nil
}

func proceduralResult(steps []string, additionalInfo string) *Result {
	payload := map[string]any{"steps": steps}
	putIfSet(payload, "additional_info", additionalInfo)
	return &Result{
		Type:       "procedural",
		Confidence: 0.9,
		Payload:    payload,
	}
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
