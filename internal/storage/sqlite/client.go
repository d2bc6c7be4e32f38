package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/orb-ai/backend/pkg/logger"
)

// TurnRecord is one processed query as persisted for the history endpoint.
type TurnRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	QueryText  string    `json:"query"`
	ResultType string    `json:"result_type"`
	Entity     string    `json:"entity,omitempty"`
	Path       string    `json:"path"`
	Confidence float64   `json:"confidence"`
	LatencyMS  int       `json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turn_history (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		query_text TEXT NOT NULL,
		result_type TEXT,
		entity TEXT,
		path TEXT,
		confidence REAL,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turn_session ON turn_history(session_id);
	CREATE INDEX IF NOT EXISTS idx_turn_created ON turn_history(created_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// InsertTurn persists a turn record. Failures are logged, not propagated:
// history is best-effort and must never fail a query.
func (c *Client) InsertTurn(record *TurnRecord) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	_, err := c.db.Exec(
		`INSERT INTO turn_history
		 (id, session_id, query_text, result_type, entity, path, confidence, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.SessionID,
		record.QueryText,
		record.ResultType,
		record.Entity,
		record.Path,
		record.Confidence,
		record.LatencyMS,
		record.CreatedAt.Unix(),
	)
	if err != nil {
		logger.Warn("Failed to persist turn record", zap.Error(err))
	}
}

// History returns the most recent turn records for a session, newest
// first.
func (c *Client) History(sessionID string, limit int) ([]TurnRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.Query(
		`SELECT id, session_id, query_text, result_type, entity, path, confidence, latency_ms, created_at
		 FROM turn_history WHERE session_id = ? ORDER BY created_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turn history: %w", err)
	}
	defer rows.Close()

	var records []TurnRecord
	for rows.Next() {
		var r TurnRecord
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.SessionID, &r.QueryText, &r.ResultType, &r.Entity, &r.Path, &r.Confidence, &r.LatencyMS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn record: %w", err)
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}

	return records, rows.Err()
}
