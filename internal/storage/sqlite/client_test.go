package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, c.InitSchema())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestInsertTurnAndHistory(t *testing.T) {
	c := newTestClient(t)

	base := time.Now().Add(-time.Minute)
	for i, q := range []string{"first", "second", "third"} {
		c.InsertTurn(&TurnRecord{
			SessionID:  "s1",
			QueryText:  q,
			ResultType: "location",
			Entity:     "Tech Park",
			Path:       "direct",
			Confidence: 1.0,
			LatencyMS:  12,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		})
	}
	c.InsertTurn(&TurnRecord{
		SessionID: "s2",
		QueryText: "other session",
		CreatedAt: base,
	})

	records, err := c.History("s1", 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first, other sessions excluded.
	assert.Equal(t, "third", records[0].QueryText)
	assert.Equal(t, "first", records[2].QueryText)
	assert.Equal(t, "Tech Park", records[0].Entity)
	assert.Equal(t, 12, records[0].LatencyMS)
	assert.NotEmpty(t, records[0].ID)
}

func TestHistory_LimitAndDefaults(t *testing.T) {
	c := newTestClient(t)

	for i := 0; i < 5; i++ {
		c.InsertTurn(&TurnRecord{
			SessionID: "s1",
			QueryText: "q",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	records, err := c.History("s1", 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Non-positive limits fall back to the default instead of erroring.
	records, err = c.History("s1", 0)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestHistory_UnknownSession(t *testing.T) {
	c := newTestClient(t)

	records, err := c.History("nope", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
