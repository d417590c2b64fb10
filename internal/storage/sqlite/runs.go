package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"listfilter/internal/storage"
)

type runStore struct {
	db *sql.DB
}

func newRunStore(db *sql.DB) storage.RunStore {
	return &runStore{db: db}
}

func (s *runStore) Record(ctx context.Context, run storage.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO node_runs (id, node_type, unique_id, input_count, output_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, run.ID, run.NodeType, run.UniqueID, run.InputCount, run.OutputCount, run.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

func (s *runStore) ListRecent(ctx context.Context, limit int) ([]storage.Run, error) {
	query := `
		SELECT id, node_type, unique_id, input_count, output_count, created_at
		FROM node_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]storage.Run, 0, limit)
	for rows.Next() {
		var run storage.Run

		err := rows.Scan(
			&run.ID,
			&run.NodeType,
			&run.UniqueID,
			&run.InputCount,
			&run.OutputCount,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return runs, nil
}

func (s *runStore) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age).UTC()
	query := `DELETE FROM node_runs WHERE created_at < ?`

	slog.Debug("Deleting runs older than cutoff", "age", age, "cutoff", cutoff.Format(time.RFC3339))
	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted runs: %w", err)
	}

	slog.Debug("Deleted old runs", "count", rows)
	return rows, nil
}
