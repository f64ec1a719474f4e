package analysis

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// LogEntry is one row of the append-only analysis audit trail. Entries are
// only ever inserted; nothing in the codebase updates or deletes them.
type LogEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      Modality  `json:"analysis_type"`
	InputData string    `json:"input_data"`
	Score     float64   `json:"result_score"`
	Label     string    `json:"result_label"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, e *LogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO analysis_logs (id, user_id, analysis_type, input_data, result_score, result_label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, q,
		e.ID,
		e.UserID,
		string(e.Type),
		e.InputData,
		e.Score,
		e.Label,
		e.CreatedAt,
	)
	return err
}

// ListByUser returns the user's entries, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	const q = `
		SELECT id, user_id, analysis_type, input_data, result_score, result_label, created_at
		FROM analysis_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LogEntry
	for rows.Next() {
		var e LogEntry
		var typ string
		if err := rows.Scan(&e.ID, &e.UserID, &typ, &e.InputData, &e.Score, &e.Label, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = Modality(typ)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
