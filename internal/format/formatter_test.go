package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orb-ai/backend/internal/resolver"
)

func TestRender_Location(t *testing.T) {
	out := Render(&resolver.Result{
		Type:   "location",
		Entity: "Tech Park",
		Payload: map[string]any{
			"address":  "SRM Nagar, Kattankulathur",
			"map_link": "https://maps.example.com/techpark",
		},
	})

	assert.Contains(t, out, "Tech Park is located at: SRM Nagar, Kattankulathur")
	assert.Contains(t, out, "Map: https://maps.example.com/techpark")
}

func TestRender_LocationWithoutAddress(t *testing.T) {
	out := Render(&resolver.Result{
		Type:    "location",
		Entity:  "Tech Park",
		Payload: map[string]any{},
	})
	assert.Contains(t, out, "don't have location details")
}

func TestRender_Facilities(t *testing.T) {
	out := Render(&resolver.Result{
		Type:   "facilities",
		Entity: "Tech Park",
		Payload: map[string]any{
			"facilities": []string{"Research Labs", "Innovation Center"},
		},
	})

	assert.Contains(t, out, "Tech Park offers the following facilities:")
	assert.Contains(t, out, "- Research Labs")
	assert.Contains(t, out, "- Innovation Center")
}

func TestRender_FacilitiesFromJSONRoundTrip(t *testing.T) {
	// History payloads come back as []any after JSON decoding.
	out := Render(&resolver.Result{
		Type:    "facilities",
		Entity:  "Tech Park",
		Payload: map[string]any{"facilities": []any{"Labs", "Cafeteria"}},
	})
	assert.Contains(t, out, "- Labs")
	assert.Contains(t, out, "- Cafeteria")
}

func TestRender_Description(t *testing.T) {
	out := Render(&resolver.Result{
		Type:    "description",
		Entity:  "Tech Park",
		Payload: map[string]any{"description": "A research hub"},
	})
	assert.Equal(t, "A research hub", out)
}

func TestRender_Contact(t *testing.T) {
	out := Render(&resolver.Result{
		Type:   "contact",
		Entity: "Admissions Office",
		Payload: map[string]any{
			"contact": map[string]any{
				"email": "admissions@srmist.edu.in",
				"phone": "044-12345678",
			},
		},
	})

	assert.Contains(t, out, "Contact details for Admissions Office:")
	assert.Contains(t, out, "Email: admissions@srmist.edu.in")
	assert.Contains(t, out, "Phone: 044-12345678")
}

func TestRender_Procedural(t *testing.T) {
	out := Render(&resolver.Result{
		Type: "procedural",
		Payload: map[string]any{
			"steps":       []string{"Fill the form", "Pay the fee"},
			"documents":   []string{"Mark sheet"},
			"eligibility": "Minimum 60% in PCM",
			"contact":     "admissions@srmist.edu.in",
		},
	})

	assert.Contains(t, out, "1. Fill the form")
	assert.Contains(t, out, "2. Pay the fee")
	assert.Contains(t, out, "- Mark sheet")
	assert.Contains(t, out, "Eligibility: Minimum 60% in PCM")
	assert.Contains(t, out, "admissions@srmist.edu.in")
}

func TestRender_FallbackListsSuggestions(t *testing.T) {
	out := Render(&resolver.Result{
		Type:        "fallback",
		Message:     "I'm not quite sure about that.",
		Suggestions: []string{"Where is the Central Library?", "How can I apply?"},
	})

	assert.True(t, strings.HasPrefix(out, "I'm not quite sure about that."))
	assert.Contains(t, out, "- Where is the Central Library?")
	assert.Contains(t, out, "- How can I apply?")
}

func TestRender_Greeting(t *testing.T) {
	out := Render(&resolver.Result{Type: "greeting", Message: "Hello!"})
	assert.Equal(t, "Hello!", out)
}

func TestRender_Comparative(t *testing.T) {
	out := Render(&resolver.Result{
		Type: "comparative",
		Payload: map[string]any{
			"comparisons": map[string]any{
				"Kattankulathur": map[string]any{
					"description": "Flagship campus",
					"related": map[string][]string{
						"facilities": {"Library", "Hostel"},
					},
				},
				"Ramapuram": map[string]any{
					"description": "City campus",
				},
			},
		},
	})

	assert.Contains(t, out, "Kattankulathur:")
	assert.Contains(t, out, "Ramapuram:")
	assert.Contains(t, out, "Facilities: Library, Hostel")
}

func TestRender_NilAndUnknown(t *testing.T) {
	assert.Empty(t, Render(nil))

	out := Render(&resolver.Result{Type: "general", Entity: "CSE", Payload: map[string]any{
		"degrees": []string{"B.Tech", "M.Tech"},
	}})
	assert.Contains(t, out, "CSE")
	assert.Contains(t, out, "B.Tech, M.Tech")
}
