package admissions

import "strings"

// Type is the admission track a candidate applies through.
type Type string

const (
	Domestic      Type = "domestic"
	International Type = "international"
	NRI           Type = "nri"
	Transfer      Type = "transfer"
)

// Requirements describes everything a candidate needs for one admission
// track.
type Requirements struct {
	Documents    []string          `json:"documents"`
	Eligibility  string            `json:"eligibility"`
	ContactEmail string            `json:"contact_email"`
	Procedure    string            `json:"procedure"`
	Deadlines    map[string]string `json:"deadlines"`
}

var requirements = map[Type]Requirements{
	Domestic: {
		Documents: []string{
			"10th Mark Sheet",
			"12th Mark Sheet",
			"SRMJEEE Score Card",
			"Aadhar Card",
			"Passport size photographs",
		},
		Eligibility:  "Minimum 60% in PCM for Engineering",
		ContactEmail: "admissions@srmist.edu.in",
		Procedure:    "Apply through SRMJEEE and counselling",
		Deadlines: map[string]string{
			"SRMJEEE Registration": "April 30",
			"Counselling":          "June-July",
		},
	},
	International: {
		Documents: []string{
			"High School Transcripts",
			"Standardized Test Scores (SAT/ACT)",
			"English Proficiency (IELTS/TOEFL)",
			"Passport",
			"Statement of Purpose",
		},
		Eligibility:  "Completed 12 years of education with good academic record",
		ContactEmail: "admissions.ir@srmist.edu.in",
		Procedure:    "Apply through International Admissions Portal",
		Deadlines: map[string]string{
			"Fall Semester":   "June 30",
			"Spring Semester": "December 15",
		},
	},
	NRI: {
		Documents: []string{
			"NRI Status Proof",
			"Passport copies",
			"Academic transcripts",
			"Bank statements",
		},
		Eligibility:  "NRI/NRI Sponsored candidates",
		ContactEmail: "nri.admissions@srmist.edu.in",
		Procedure:    "Direct admission through NRI quota",
		Deadlines: map[string]string{
			"Application": "May 31",
			"Admission":   "June 30",
		},
	},
	Transfer: {
		Documents: []string{
			"Current University Transcripts",
			"No Objection Certificate",
			"Migration Certificate",
			"Syllabus of completed courses",
		},
		Eligibility:  "Completed at least one year at recognized university",
		ContactEmail: "transfer.admissions@srmist.edu.in",
		Procedure:    "Apply with complete transcripts for credit transfer",
		Deadlines: map[string]string{
			"Fall Transfer":   "July 15",
			"Spring Transfer": "December 1",
		},
	},
}

// For returns the requirements for the given track.
func For(t Type) (Requirements, bool) {
	req, ok := requirements[t]
	return req, ok
}

// Detect infers the admission track mentioned in a query, defaulting to
// domestic.
func Detect(query string) Type {
	query = strings.ToLower(query)
	switch {
	case strings.Contains(query, "international"):
		return International
	case strings.Contains(query, "nri"):
		return NRI
	case strings.Contains(query, "transfer"):
		return Transfer
	default:
		return Domestic
	}
}

// Steps is the general admission procedure walked through for procedural
// queries.
func Steps() []string {
	return []string{
		"Visit the official SRM website (www.srmist.edu.in)",
		"Click on 'Admissions' section",
		"Choose your preferred program",
		"Fill out the online application form",
		"Pay the application fee",
		"Submit required documents",
		"Wait for the entrance exam date",
		"Appear for counseling if selected",
	}
}
