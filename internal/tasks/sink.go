package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
)

// LogSink writes dead letters to the process log.
type LogSink struct{}

func (LogSink) Record(ctx context.Context, letter DeadLetter) error {
	data, err := json.Marshal(letter)
	if err != nil {
		return err
	}
	log.Printf("[DEADLETTER] %s", data)
	return nil
}

// PostgresSink persists dead letters to the dead_letters table.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Record(ctx context.Context, letter DeadLetter) error {
	payload, err := json.Marshal(letter.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	query := `INSERT INTO dead_letters (id, task, payload, error, failed_at)
	          VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.ExecContext(ctx, query, letter.ID, letter.Task, payload, letter.Error, letter.FailedAt); err != nil {
		return fmt.Errorf("insert dead letter: %w", err)
	}
	return nil
}

// Pending returns the most recent dead letters, newest first.
func (s *PostgresSink) Pending(ctx context.Context, limit int) ([]DeadLetter, error) {
	query := `SELECT id, task, payload, error, failed_at FROM dead_letters
	          ORDER BY failed_at DESC LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query dead letters: %w", err)
	}
	defer rows.Close()

	var letters []DeadLetter
	for rows.Next() {
		var letter DeadLetter
		var payload []byte
		if err := rows.Scan(&letter.ID, &letter.Task, &payload, &letter.Error, &letter.FailedAt); err != nil {
			return nil, fmt.Errorf("scan dead letter: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &letter.Payload); err != nil {
				return nil, fmt.Errorf("decode payload of %s: %w", letter.ID, err)
			}
		}
		letters = append(letters, letter)
	}
	return letters, rows.Err()
}
