package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the outcome of a run.
type RunStatus string

const (
	RunRunning    RunStatus = "running"
	RunComplete   RunStatus = "complete"
	RunIncomplete RunStatus = "incomplete"
	RunFailed     RunStatus = "failed"
)

// Run is one invocation of the refinement over a box.
type Run struct {
	ID      string `json:"id"`
	Box     string `json:"box"`
	TreeIn  string `json:"tree_in"`
	TreeOut string `json:"tree_out"`
	// Options is the JSON encoding of the search options.
	Options           string     `json:"options"`
	Status            RunStatus  `json:"status"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at"`
	NodesAdded        int        `json:"nodes_added"`
	Eliminations      int        `json:"eliminations"`
	InvalidIdentities int        `json:"invalid_identities"`
	Drifts            int        `json:"drifts"`
	HoleCount         int        `json:"hole_count"`
	Error             string     `json:"error"`
}

// HoleRecord is a box left unresolved by a run.
type HoleRecord struct {
	Box         string `json:"box"`
	Description string `json:"description"`
	Depth       int    `json:"depth"`
	Reason      string `json:"reason"`
}

// InventedRecord is a test word added by ball search during a run.
type InventedRecord struct {
	Word      string `json:"word"`
	Box       string `json:"box"`
	FromBox   string `json:"from_box"`
	TestIndex int    `json:"test_index"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return "run-" + uuid.New().String()[:8]
}

// CreateRun inserts r. An empty ID is filled in and a zero StartedAt is set
// to now.
func (db *DB) CreateRun(r *Run) error {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = RunRunning
	}
	if r.Options == "" {
		r.Options = "{}"
	}
	_, err := db.Exec(`
		INSERT INTO runs (id, box, tree_in, tree_out, options, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Box, r.TreeIn, r.TreeOut, r.Options, string(r.Status), formatTime(r.StartedAt))
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// FinishRun stores the outcome counters and status of r and stamps its
// finish time.
func (db *DB) FinishRun(r *Run) error {
	now := time.Now()
	r.FinishedAt = &now
	result, err := db.Exec(`
		UPDATE runs SET tree_out = ?, status = ?, finished_at = ?, nodes_added = ?,
			eliminations = ?, invalid_identities = ?, drifts = ?, hole_count = ?, error = ?
		WHERE id = ?
	`, r.TreeOut, string(r.Status), formatTime(now), r.NodesAdded,
		r.Eliminations, r.InvalidIdentities, r.Drifts, r.HoleCount, r.Error, r.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: run %s not found", r.ID)
	}
	return nil
}

const runColumns = `id, box, tree_in, tree_out, options, status, started_at, finished_at,
	nodes_added, eliminations, invalid_identities, drifts, hole_count, error`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var startedAt string
	var finishedAt sql.NullString
	err := row.Scan(&r.ID, &r.Box, &r.TreeIn, &r.TreeOut, &r.Options, &r.Status, &startedAt, &finishedAt,
		&r.NodesAdded, &r.Eliminations, &r.InvalidIdentities, &r.Drifts, &r.HoleCount, &r.Error)
	if err != nil {
		return nil, err
	}
	r.StartedAt, _ = parseTime(startedAt)
	r.FinishedAt = parseNullableTime(finishedAt)
	return &r, nil
}

// GetRun retrieves a run by ID. It returns nil when there is none.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// LatestRun returns the most recently started run, or nil.
func (db *DB) LatestRun() (*Run, error) {
	row := db.QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RecordHoles appends holes to run runID.
func (db *DB) RecordHoles(runID string, holes []HoleRecord) error {
	return db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO holes (run_id, box, description, depth, reason) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare hole insert: %w", err)
		}
		defer stmt.Close()
		for _, h := range holes {
			if _, err := stmt.Exec(runID, h.Box, h.Description, h.Depth, h.Reason); err != nil {
				return fmt.Errorf("record hole %s: %w", h.Box, err)
			}
		}
		return nil
	})
}

// ListHoles returns the holes of run runID in recording order.
func (db *DB) ListHoles(runID string) ([]HoleRecord, error) {
	rows, err := db.Query(`SELECT box, description, depth, reason FROM holes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list holes: %w", err)
	}
	defer rows.Close()

	var holes []HoleRecord
	for rows.Next() {
		var h HoleRecord
		if err := rows.Scan(&h.Box, &h.Description, &h.Depth, &h.Reason); err != nil {
			return nil, fmt.Errorf("scan hole: %w", err)
		}
		holes = append(holes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holes: %w", err)
	}
	return holes, nil
}

// RecordInvented appends invented words to run runID.
func (db *DB) RecordInvented(runID string, words []InventedRecord) error {
	return db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO invented_words (run_id, word, box, from_box, test_index) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare word insert: %w", err)
		}
		defer stmt.Close()
		for _, w := range words {
			if _, err := stmt.Exec(runID, w.Word, w.Box, w.FromBox, w.TestIndex); err != nil {
				return fmt.Errorf("record word %s: %w", w.Word, err)
			}
		}
		return nil
	})
}

// ListInvented returns the words invented by run runID in recording order.
func (db *DB) ListInvented(runID string) ([]InventedRecord, error) {
	rows, err := db.Query(`SELECT word, box, from_box, test_index FROM invented_words WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list invented words: %w", err)
	}
	defer rows.Close()

	var words []InventedRecord
	for rows.Next() {
		var w InventedRecord
		if err := rows.Scan(&w.Word, &w.Box, &w.FromBox, &w.TestIndex); err != nil {
			return nil, fmt.Errorf("scan invented word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invented words: %w", err)
	}
	return words, nil
}
