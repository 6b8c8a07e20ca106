// Package report keeps a history of evaluation runs in SQLite.
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"disambig/internal/model"
)

var ErrNotFound = errors.New("evaluation run not found")

// ListParams filters stored runs. Zero values mean no filter.
type ListParams struct {
	Engine     string
	Candidate1 string
	Candidate2 string
	Limit      int
}

// EngineStats aggregates the runs of one engine.
type EngineStats struct {
	Engine       string  `json:"engine"`
	Runs         int     `json:"runs"`
	MeanAccuracy float64 `json:"mean_accuracy"`
	BestAccuracy float64 `json:"best_accuracy"`
}

// SQLiteStore implements run storage using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.Mutex
	entropy io.Reader
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// newID returns IDs that sort in creation order, even within a millisecond.
func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id          TEXT PRIMARY KEY,
		engine      TEXT NOT NULL,
		candidate1  TEXT NOT NULL,
		candidate2  TEXT NOT NULL,
		train_size  INTEGER NOT NULL,
		tested      INTEGER NOT NULL,
		correct     INTEGER NOT NULL,
		wrong       INTEGER NOT NULL,
		accuracy    REAL NOT NULL,
		failed      TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_evaluations_engine ON evaluations(engine);
	CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores e under a fresh ID and returns the stored copy.
func (s *SQLiteStore) Save(ctx context.Context, e model.Evaluation) (*model.Evaluation, error) {
	e.ID = s.newID()
	e.CreatedAt = time.Now().UTC().Truncate(time.Second)

	var failedJSON *string
	if len(e.Failed) > 0 {
		b, err := json.Marshal(e.Failed)
		if err != nil {
			return nil, fmt.Errorf("marshal failed examples: %w", err)
		}
		str := string(b)
		failedJSON = &str
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, engine, candidate1, candidate2, train_size, tested, correct, wrong, accuracy, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Engine, e.Candidate1, e.Candidate2, e.TrainSize, e.Tested, e.Correct, e.Wrong, e.Accuracy,
		failedJSON, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert evaluation: %w", err)
	}
	return &e, nil
}

// Get returns the run with the given ID or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Evaluation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, engine, candidate1, candidate2, train_size, tested, correct, wrong, accuracy, failed, created_at
		FROM evaluations WHERE id = ?`, id)
	e, err := scanEvaluation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns matching runs, newest first.
func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Evaluation, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1=1"}
	var args []any
	if p.Engine != "" {
		where = append(where, "engine = ?")
		args = append(args, p.Engine)
	}
	if p.Candidate1 != "" {
		where = append(where, "candidate1 = ?")
		args = append(args, p.Candidate1)
	}
	if p.Candidate2 != "" {
		where = append(where, "candidate2 = ?")
		args = append(args, p.Candidate2)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, engine, candidate1, candidate2, train_size, tested, correct, wrong, accuracy, failed, created_at
		FROM evaluations
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, strings.Join(where, " AND ")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats aggregates stored runs per engine.
func (s *SQLiteStore) Stats(ctx context.Context) ([]EngineStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT engine, COUNT(*), AVG(accuracy), MAX(accuracy)
		FROM evaluations
		GROUP BY engine ORDER BY engine`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EngineStats
	for rows.Next() {
		var st EngineStats
		if err := rows.Scan(&st.Engine, &st.Runs, &st.MeanAccuracy, &st.BestAccuracy); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(sc scanner) (model.Evaluation, error) {
	var (
		e         model.Evaluation
		failed    sql.NullString
		createdAt string
	)
	err := sc.Scan(&e.ID, &e.Engine, &e.Candidate1, &e.Candidate2, &e.TrainSize, &e.Tested,
		&e.Correct, &e.Wrong, &e.Accuracy, &failed, &createdAt)
	if err != nil {
		return e, err
	}
	if failed.Valid && failed.String != "" {
		if err := json.Unmarshal([]byte(failed.String), &e.Failed); err != nil {
			return e, fmt.Errorf("scan evaluation %s: failed examples: %w", e.ID, err)
		}
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return e, fmt.Errorf("scan evaluation %s: created_at: %w", e.ID, err)
	}
	return e, nil
}
