// Package store persists accessibility scoring runs so results can be
// compared across model configurations.
package store

import (
	"context"
	"time"
)

// Run is one persisted scoring run: the model configuration, the input
// shape, and the resulting scores.
type Run struct {
	ID                    string             `json:"id"`
	Model                 string             `json:"model"`
	Kernel                string             `json:"kernel"`
	Params                map[string]float64 `json:"params,omitempty"`
	HuffNormalization     bool               `json:"huff_normalization"`
	SuboptimalityExponent float64            `json:"suboptimality_exponent"`
	NumDemand             int                `json:"num_demand"`
	NumSupply             int                `json:"num_supply"`
	Scores                []float64          `json:"scores"`
	CreatedAt             time.Time          `json:"created_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Model string `json:"model,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Store defines the persistence interface for scoring runs.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
