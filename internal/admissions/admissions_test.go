package admissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	req, ok := For(Domestic)
	require.True(t, ok)
	assert.NotEmpty(t, req.Documents)
	assert.NotEmpty(t, req.Eligibility)
	assert.NotEmpty(t, req.ContactEmail)

	_, ok = For(Type("made-up"))
	assert.False(t, ok)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		query string
		want  Type
	}{
		{"how do international students apply", International},
		{"i am an nri candidate", NRI},
		{"can i transfer from another college", Transfer},
		{"how do i apply for admission", Domestic},
		{"admission process please", Domestic},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.query))
		})
	}
}

func TestSteps(t *testing.T) {
	steps := Steps()
	require.NotEmpty(t, steps)

	// The procedure starts at the website and ends with counseling.
	assert.Contains(t, steps[0], "srmist.edu.in")
	assert.Contains(t, steps[len(steps)-1], "counseling")
}
