package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	model          TEXT NOT NULL,
	kernel         TEXT NOT NULL,
	params         TEXT,
	huff           INTEGER NOT NULL DEFAULT 0,
	suboptimality  REAL NOT NULL DEFAULT 1.0,
	num_demand     INTEGER NOT NULL,
	num_supply     INTEGER NOT NULL,
	scores         TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun assigns the run an ID and timestamp and inserts it.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	var paramsJSON []byte
	if len(run.Params) > 0 {
		var err error
		paramsJSON, err = json.Marshal(run.Params)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal params")
		}
	}
	scoresJSON, err := json.Marshal(run.Scores)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal scores")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
			(id, model, kernel, params, huff, suboptimality, num_demand, num_supply, scores, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Model, run.Kernel, nullableString(paramsJSON),
		boolToInt(run.HuffNormalization), run.SuboptimalityExponent,
		run.NumDemand, run.NumSupply, string(scoresJSON), run.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert run")
	}

	zap.L().Info("store: saved run",
		zap.String("run_id", run.ID),
		zap.String("model", run.Model),
		zap.Int("num_demand", run.NumDemand),
	)
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, model, kernel, params, huff, suboptimality, num_demand, num_supply, scores, created_at
		FROM runs WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("store: run %s not found", runID)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `
		SELECT id, model, kernel, params, huff, suboptimality, num_demand, num_supply, scores, created_at
		FROM runs WHERE 1=1
	`
	var args []any

	if filter.Model != "" {
		query += ` AND model = ?`
		args = append(args, filter.Model)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate runs")
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		paramsJSON sql.NullString
		scoresJSON string
		huff       int
	)
	err := row.Scan(
		&run.ID, &run.Model, &run.Kernel, &paramsJSON, &huff,
		&run.SuboptimalityExponent, &run.NumDemand, &run.NumSupply,
		&scoresJSON, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.HuffNormalization = huff != 0
	if paramsJSON.Valid && paramsJSON.String != "" {
		if err := json.Unmarshal([]byte(paramsJSON.String), &run.Params); err != nil {
			return nil, eris.Wrap(err, "unmarshal params")
		}
	}
	if err := json.Unmarshal([]byte(scoresJSON), &run.Scores); err != nil {
		return nil, eris.Wrap(err, "unmarshal scores")
	}
	return &run, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
