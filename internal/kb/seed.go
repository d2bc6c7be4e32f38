package kb

import "fmt"

// campusSeed mirrors the institutional dataset the assistant ships with:
// campuses, notable locations, academic programs with their degrees, and
// shared facilities.
var campusSeed = []struct {
	id         string
	entityType string
	attributes map[string]any
}{
	{"Kattankulathur", "campus", map[string]any{
		"location":    "Chennai",
		"established": "1985",
		"address":     "SRM Nagar, Kattankulathur, Chengalpattu District, Tamil Nadu - 603203",
		"landmarks":   []string{"Tech Park", "University Building", "Central Library"},
	}},
	{"Delhi-NCR", "campus", map[string]any{
		"location":    "Sonepat",
		"established": "2013",
		"address":     "Delhi-NCR Campus Plot No. 39, Rajiv Gandhi Education City, PS Rai, Sonepat, Haryana - 131029",
	}},
	{"Amaravati", "campus", map[string]any{
		"location":    "Andhra Pradesh",
		"established": "2017",
		"address":     "Neerukonda, Mangalagiri Mandal, Guntur District, Andhra Pradesh - 522502",
	}},
	{"Sikkim", "campus", map[string]any{
		"location":    "Gangtok",
		"established": "2019",
		"address":     "5th Mile, Tadong, Gangtok, East Sikkim - 737102",
	}},

	{"Tech Park", "location", map[string]any{
		"description": "A state-of-the-art facility housing research labs and industry collaboration centers",
		"location":    "Kattankulathur",
		"address":     "SRM Nagar, Kattankulathur, Chengalpattu District, Tamil Nadu - 603203",
		"facilities":  []string{"Research Labs", "Innovation Center", "Industry Collaboration Space"},
		"map_link":    "https://maps.app.goo.gl/HvLKqGK8TFE5QWLP6",
	}},
	{"Central Library", "location", map[string]any{
		"description": "Multi-story library with vast collection of books, journals, and digital resources",
		"location":    "Kattankulathur",
		"facilities":  []string{"Reading Halls", "Digital Library", "Conference Rooms"},
		"map_link":    "https://maps.app.goo.gl/HvLKqGK8TFE5QWLP6",
	}},
	{"University Building", "location", map[string]any{
		"description": "Main administrative building housing key offices and departments",
		"location":    "Kattankulathur",
		"facilities":  []string{"Administrative Offices", "Admission Office", "Exam Cell"},
	}},

	{"Engineering", "program", map[string]any{
		"degrees":     []string{"B.Tech", "M.Tech", "Ph.D"},
		"departments": []string{"Computer Science", "Mechanical", "Civil", "Electronics and Communication", "Electrical and Electronics"},
	}},
	{"Medicine", "program", map[string]any{
		"degrees":     []string{"MBBS", "MD", "MS"},
		"departments": []string{"General Medicine", "Surgery", "Pediatrics", "Orthopedics"},
	}},
	{"Management", "program", map[string]any{
		"degrees":     []string{"BBA", "MBA", "Ph.D"},
		"departments": []string{"Finance", "Marketing", "Human Resources", "Operations"},
	}},
	{"Law", "program", map[string]any{
		"degrees":     []string{"BBA LLB", "LLM"},
		"departments": []string{"Corporate Law", "Criminal Law", "Civil Law"},
	}},

	{"hostels", "facility", map[string]any{
		"types":     []string{"Men's Hostel", "Women's Hostel"},
		"amenities": []string{"Wi-Fi", "Gym", "Reading Room", "Cafeteria"},
	}},
	{"sports", "facility", map[string]any{
		"indoor":  []string{"Badminton", "Table Tennis", "Chess"},
		"outdoor": []string{"Cricket", "Football", "Basketball"},
	}},
	{"transportation", "facility", map[string]any{
		"services": []string{"College Bus", "Shuttle Service"},
		"routes":   []string{"Chennai City", "Local Areas"},
	}},
}

// Seed populates g with the builtin campus dataset and its relationship
// structure, then freezes it.
func Seed(g *Graph) error {
	var campuses, programs, facilities []string

	for _, s := range campusSeed {
		if err := g.AddEntity(s.id, s.entityType, s.attributes); err != nil {
			return fmt.Errorf("seed entity %s: %w", s.id, err)
		}
		switch s.entityType {
		case "campus":
			campuses = append(campuses, s.id)
		case "program":
			programs = append(programs, s.id)
		case "facility":
			facilities = append(facilities, s.id)
		}
	}

	// Locations hang off the campus named in their location attribute.
	for _, s := range campusSeed {
		if s.entityType != "location" {
			continue
		}
		campus, _ := s.attributes["location"].(string)
		if campus == "" {
			continue
		}
		if err := g.AddRelationship(campus, s.id, "has_location"); err != nil {
			return fmt.Errorf("seed location edge %s: %w", s.id, err)
		}
	}

	// Every campus offers every program and carries every shared facility.
	for _, campus := range campuses {
		for _, program := range programs {
			if err := g.AddRelationship(campus, program, "offers"); err != nil {
				return err
			}
		}
		for _, facility := range facilities {
			if err := g.AddRelationship(campus, facility, "has_facility"); err != nil {
				return err
			}
		}
	}

	// Degree nodes per program.
	for _, s := range campusSeed {
		if s.entityType != "program" {
			continue
		}
		for _, degree := range listOf(s.attributes["degrees"]) {
			degreeID := fmt.Sprintf("%s_%s", s.id, degree)
			if err := g.AddEntity(degreeID, "degree", map[string]any{
				"program": s.id,
				"degree":  degree,
			}); err != nil {
				return err
			}
			if err := g.AddRelationship(s.id, degreeID, "has_degree"); err != nil {
				return err
			}
		}
	}

	g.Freeze()
	return nil
}

func listOf(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return nil
	}
}
