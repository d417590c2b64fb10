package storage

import (
	"context"
	"time"
)

type StorageInterface interface {
	Runs() RunStore
	Close(ctx context.Context) error
}

// Run is one recorded node execution.
type Run struct {
	ID          string    `json:"id"`
	NodeType    string    `json:"node_type"`
	UniqueID    string    `json:"unique_id"`
	InputCount  int       `json:"input_count"`
	OutputCount int       `json:"output_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type RunStore interface {
	Record(ctx context.Context, run Run) error
	ListRecent(ctx context.Context, limit int) ([]Run, error)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}
