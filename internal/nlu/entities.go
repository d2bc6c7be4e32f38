package nlu

import (
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

var campusNames = []string{"Kattankulathur", "Delhi-NCR", "Ramapuram", "Vadapalani", "Amaravati", "Sikkim"}

// entityPatterns are domain surface patterns applied on top of POS
// chunking. Group 1 of each match is taken as the entity span.
var entityPatterns = compileAll(
	`(kattankulathur|delhi\s*ncr|ramapuram|vadapalani|amaravati|sikkim)\s*(?:campus|branch)?`,
	`(tech\s*park|central\s*library|university\s*building|main\s*building|admin\s*block)`,
	`\b(library|hostels?|cafeteria|sports\s*complex|gymnasium|labs?|auditorium|transportation)\b`,
	`\b(engineering|medicine|management|law)\b(?:\s*(?:program|course|degree))?`,
	`\b(b\s*tech|m\s*tech|bba|mba|phd|mbbs|llm)\b`,
)

// extractEntities unions POS-based noun chunks with domain pattern hits,
// deduplicated by exact string. A tagging failure degrades to pattern-only
// extraction and reports the fault.
func (a *Analyzer) extractEntities(normalized string) ([]string, string) {
	seen := make(map[string]struct{})
	var entities []string
	add := func(span string) {
		span = strings.TrimSpace(span)
		if span == "" {
			return
		}
		if _, ok := seen[span]; ok {
			return
		}
		seen[span] = struct{}{}
		entities = append(entities, span)
	}

	chunks, err := nounChunks(normalized)
	for _, chunk := range chunks {
		add(chunk)
	}

	for _, pattern := range entityPatterns {
		for _, match := range pattern.FindAllStringSubmatch(normalized, -1) {
			if len(match) > 1 {
				add(match[1])
			}
		}
	}

	if err != nil {
		return entities, fmt.Sprintf("pos tagging failed: %v", err)
	}
	return entities, ""
}

// nounChunks groups consecutive noun tokens into candidate entity spans.
func nounChunks(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, err
	}

	var chunks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
		}
	}

	for _, tok := range doc.Tokens() {
		if isNounTag(tok.Tag) && !isQueryStopword(tok.Text) {
			current = append(current, tok.Text)
		} else {
			flush()
		}
	}
	flush()

	return chunks, nil
}

func isNounTag(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

// isQueryStopword filters generic question nouns that tag as NN but never
// name an entity.
var queryStopwords = map[string]struct{}{
	"campus": {}, "location": {}, "address": {}, "directions": {},
	"information": {}, "details": {}, "timings": {}, "timing": {},
	"facilities": {}, "facility": {}, "process": {}, "steps": {},
	"something": {}, "anything": {}, "thing": {}, "things": {},
}

func isQueryStopword(word string) bool {
	_, ok := queryStopwords[strings.ToLower(word)]
	return ok
}
