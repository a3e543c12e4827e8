package state

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// tempDBPath returns a path to a temp database file.
func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "runs.db")
}

// setupTestDB opens and migrates a fresh ledger.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(tempDBPath(t))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func countRows(t *testing.T, db *DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q failed: %v", query, err)
	}
	return n
}

func schemaVersions(t *testing.T, db *DB) []int {
	t.Helper()
	rows, err := db.Query("SELECT version FROM schema_version ORDER BY version")
	if err != nil {
		t.Fatalf("failed to query schema_version: %v", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("failed to scan version: %v", err)
		}
		versions = append(versions, v)
	}
	return versions
}

func TestOpen_NestedLedgerInWALMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "momrefine", "runs.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("expected path %s, got %s", path, db.Path())
	}
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode query failed: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal mode wal, got %s", mode)
	}
}

func TestMigrate_LedgerSchema(t *testing.T) {
	db := setupTestDB(t)

	objects := []struct {
		kind string
		name string
	}{
		{"table", "runs"},
		{"table", "holes"},
		{"table", "invented_words"},
		{"index", "idx_runs_started_at"},
		{"index", "idx_runs_status"},
		{"index", "idx_holes_run_id"},
		{"index", "idx_invented_words_run_id"},
		{"index", "idx_invented_words_word"},
	}
	for _, o := range objects {
		n := countRows(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?", o.kind, o.name)
		if n != 1 {
			t.Errorf("expected %s %s to exist", o.kind, o.name)
		}
	}

	got := schemaVersions(t, db)
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("expected versions [1 2 3], got %v", got)
	}
}

func TestMigrate_UpgradesRunsOnlyLedger(t *testing.T) {
	db, err := Open(tempDBPath(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	// A ledger written before holes and invented words were tracked.
	for _, stmt := range []string{
		"CREATE TABLE schema_version (version INTEGER PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)",
		migrationV1Runs,
		"INSERT INTO schema_version (version) VALUES (1)",
		"INSERT INTO runs (id, box, started_at) VALUES ('run-old', '01', '2024-01-01T00:00:00Z')",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	got, err := db.GetRun("run-old")
	if err != nil || got == nil {
		t.Fatalf("expected old run to survive, got %v (%v)", got, err)
	}
	if err := db.RecordHoles("run-old", []HoleRecord{{Box: "010", Depth: 3, Reason: "max depth"}}); err != nil {
		t.Fatalf("RecordHoles after upgrade failed: %v", err)
	}
	if v := schemaVersions(t, db); len(v) != 3 {
		t.Errorf("expected versions [1 2 3], got %v", v)
	}
}

func TestMigrate_RerunKeepsRecords(t *testing.T) {
	db := setupTestDB(t)
	if err := db.CreateRun(&Run{ID: "run-a", Box: "0"}); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := db.RecordInvented("run-a", []InventedRecord{{Word: "gM", Box: "01", TestIndex: 4}}); err != nil {
		t.Fatalf("RecordInvented failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := db.Migrate(); err != nil {
			t.Fatalf("Migrate (iteration %d) failed: %v", i, err)
		}
	}

	if n := countRows(t, db, "SELECT COUNT(*) FROM runs"); n != 1 {
		t.Errorf("expected 1 run, got %d", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM invented_words WHERE run_id = ?", "run-a"); n != 1 {
		t.Errorf("expected 1 invented word, got %d", n)
	}
	if v := schemaVersions(t, db); len(v) != 3 {
		t.Errorf("expected versions [1 2 3], got %v", v)
	}
}

func TestRunsTable_ColumnDefaults(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.Exec("INSERT INTO runs (id, started_at) VALUES (?, ?)", "run-bare", "2024-03-01T10:00:00Z"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	r, err := db.GetRun("run-bare")
	if err != nil || r == nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if r.Status != RunRunning {
		t.Errorf("expected status %s, got %s", RunRunning, r.Status)
	}
	if r.Options != "{}" {
		t.Errorf("expected options {}, got %s", r.Options)
	}
	if r.FinishedAt != nil {
		t.Errorf("expected no finish time, got %v", r.FinishedAt)
	}
	if r.NodesAdded != 0 || r.HoleCount != 0 || r.Error != "" {
		t.Errorf("expected zero counters, got %+v", r)
	}
	if !r.StartedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start time %v", r.StartedAt)
	}
}

func TestTransaction_RollsBackRunAndHoles(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("disk full")

	err := db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO runs (id, started_at) VALUES ('run-tx', '2024-01-01T00:00:00Z')"); err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT INTO holes (run_id, box, depth) VALUES ('run-tx', '0110', 4)"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}

	if n := countRows(t, db, "SELECT COUNT(*) FROM runs"); n != 0 {
		t.Errorf("expected run to be rolled back, got %d rows", n)
	}
	if holes, _ := db.ListHoles("run-tx"); len(holes) != 0 {
		t.Errorf("expected holes to be rolled back, got %v", holes)
	}
}

func TestClose_LedgerUnusable(t *testing.T) {
	db, err := Open(tempDBPath(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := db.ListRuns(5); err == nil {
		t.Error("expected ListRuns to fail on a closed ledger")
	}
}

func TestFormatTime_SortsChronologically(t *testing.T) {
	// Purging compares started_at as text.
	east := time.FixedZone("east", 9*3600)
	earlier := time.Date(2024, 5, 1, 20, 0, 0, 0, east)
	later := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	a, b := formatTime(earlier), formatTime(later)
	if strings.Compare(a, b) >= 0 {
		t.Errorf("expected %s to sort before %s", a, b)
	}
	if !strings.HasSuffix(a, "Z") {
		t.Errorf("expected UTC timestamp, got %s", a)
	}

	parsed, err := parseTime(a)
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}
	if !parsed.Equal(earlier) {
		t.Errorf("expected %v, got %v", earlier, parsed)
	}
}

func TestParseNullableTime(t *testing.T) {
	tests := []struct {
		name    string
		in      sql.NullString
		wantNil bool
	}{
		{"finished", sql.NullString{String: "2024-01-01T12:00:00Z", Valid: true}, false},
		{"still running", sql.NullString{}, true},
		{"garbled", sql.NullString{String: "yesterday", Valid: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNullableTime(tt.in); (got == nil) != tt.wantNil {
				t.Errorf("expected nil %v, got %v", tt.wantNil, got)
			}
		})
	}
}
