// Package format renders structured resolution results into the plain
// text shown to chat clients.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orb-ai/backend/internal/resolver"
)

// Render produces the human-readable answer for a result. Unknown result
// types fall back to the raw message so new types never render as empty
// strings.
func Render(result *resolver.Result) string {
	if result == nil {
		return ""
	}

	switch result.Type {
	case "greeting":
		return result.Message
	case "location":
		return renderLocation(result)
	case "facilities":
		return renderFacilities(result)
	case "description":
		return renderDescription(result)
	case "contact":
		return renderContact(result)
	case "procedural":
		return renderProcedural(result)
	case "comparative":
		return renderComparative(result)
	case "fallback", "clarification":
		return renderSuggestions(result)
	default:
		return renderGeneral(result)
	}
}

func renderLocation(result *resolver.Result) string {
	var b strings.Builder

	if address := stringField(result.Payload, "address"); address != "" {
		fmt.Fprintf(&b, "%s is located at: %s", subject(result), address)
	} else if location := stringField(result.Payload, "location"); location != "" {
		fmt.Fprintf(&b, "%s is at %s", subject(result), location)
	} else if info := stringField(result.Payload, "description"); info != "" {
		b.WriteString(info)
	} else {
		fmt.Fprintf(&b, "I don't have location details for %s.", subject(result))
	}

	if mapLink := stringField(result.Payload, "map_link"); mapLink != "" {
		fmt.Fprintf(&b, "\nMap: %s", mapLink)
	}

	return b.String()
}

func renderFacilities(result *resolver.Result) string {
	facilities := listField(result.Payload, "facilities")
	if len(facilities) == 0 {
		if info := stringField(result.Payload, "description"); info != "" {
			return info
		}
		return fmt.Sprintf("I don't have facility details for %s.", subject(result))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s offers the following facilities:\n", subject(result))
	for _, f := range facilities {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderDescription(result *resolver.Result) string {
	if info := stringField(result.Payload, "description"); info != "" {
		return info
	}
	return fmt.Sprintf("I know about %s, but I don't have a description on file.", subject(result))
}

func renderContact(result *resolver.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Contact details for %s:", subject(result))

	switch contact := result.Payload["contact"].(type) {
	case map[string]any:
		for _, key := range sortedKeys(contact) {
			fmt.Fprintf(&b, "\n%s: %v", titleWord(key), contact[key])
		}
	case map[string]string:
		keys := make([]string, 0, len(contact))
		for k := range contact {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "\n%s: %s", titleWord(key), contact[key])
		}
	case string:
		fmt.Fprintf(&b, " %s", contact)
	default:
		if info := stringField(result.Payload, "description"); info != "" {
			return info
		}
		return fmt.Sprintf("I don't have contact details for %s.", subject(result))
	}

	if info := stringField(result.Payload, "additional_info"); info != "" {
		fmt.Fprintf(&b, "\n%s", info)
	}
	return b.String()
}

func renderProcedural(result *resolver.Result) string {
	var b strings.Builder

	steps := listField(result.Payload, "steps")
	if len(steps) > 0 {
		b.WriteString("Here's what you need to do:\n")
		for i, step := range steps {
			if strings.HasPrefix(step, "-") || strings.HasSuffix(step, ":") {
				fmt.Fprintf(&b, "%s\n", step)
			} else {
				fmt.Fprintf(&b, "%d. %s\n", i+1, step)
			}
		}
	}

	if docs := listField(result.Payload, "documents"); len(docs) > 0 {
		b.WriteString("\nRequired documents:\n")
		for _, d := range docs {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}
	if eligibility := stringField(result.Payload, "eligibility"); eligibility != "" {
		fmt.Fprintf(&b, "\nEligibility: %s\n", eligibility)
	}
	if deadlines := stringField(result.Payload, "deadlines"); deadlines != "" {
		fmt.Fprintf(&b, "Deadlines: %s\n", deadlines)
	}
	if contact := stringField(result.Payload, "contact"); contact != "" {
		fmt.Fprintf(&b, "For queries, contact: %s\n", contact)
	}
	if info := stringField(result.Payload, "additional_info"); info != "" {
		fmt.Fprintf(&b, "\n%s\n", info)
	}
	if mapLink := stringField(result.Payload, "map_link"); mapLink != "" {
		fmt.Fprintf(&b, "Map: %s\n", mapLink)
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderComparative(result *resolver.Result) string {
	comparisons, ok := result.Payload["comparisons"].(map[string]any)
	if !ok || len(comparisons) == 0 {
		return "I couldn't find enough information to compare those."
	}

	var b strings.Builder
	b.WriteString("Here's a comparison:\n")
	for _, name := range sortedKeys(comparisons) {
		fmt.Fprintf(&b, "\n%s:\n", name)
		info, ok := comparisons[name].(map[string]any)
		if !ok {
			continue
		}
		if desc, ok := info["description"].(string); ok && desc != "" {
			fmt.Fprintf(&b, "  %s\n", desc)
		}
		related, ok := info["related"].(map[string][]string)
		if !ok {
			continue
		}
		relKeys := make([]string, 0, len(related))
		for k := range related {
			relKeys = append(relKeys, k)
		}
		sort.Strings(relKeys)
		for _, aspect := range relKeys {
			fmt.Fprintf(&b, "  %s: %s\n", titleWord(aspect), strings.Join(related[aspect], ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSuggestions(result *resolver.Result) string {
	var b strings.Builder
	b.WriteString(result.Message)
	for _, s := range result.Suggestions {
		fmt.Fprintf(&b, "\n- %s", s)
	}
	return b.String()
}

func renderGeneral(result *resolver.Result) string {
	if result.Message != "" {
		return result.Message
	}
	if info := stringField(result.Payload, "description"); info != "" {
		return info
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's what I know about %s:", subject(result))
	for _, key := range sortedKeys(result.Payload) {
		switch value := result.Payload[key].(type) {
		case string:
			fmt.Fprintf(&b, "\n%s: %s", titleWord(key), value)
		case []string:
			fmt.Fprintf(&b, "\n%s: %s", titleWord(key), strings.Join(value, ", "))
		}
	}
	return b.String()
}

func subject(result *resolver.Result) string {
	if result.Entity != "" {
		return result.Entity
	}
	return "this"
}

func stringField(payload map[string]any, key string) string {
	if s, ok := payload[key].(string); ok {
		return s
	}
	return ""
}

// listField tolerates both []string and []any payload values, since
// payloads round-trip through JSON in the history path.
func listField(payload map[string]any, key string) []string {
	switch v := payload[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleWord(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
