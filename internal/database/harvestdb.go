package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/aopsharvest/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "aopsharvest.db"

// HarvestDB stores harvest runs and their problems.
type HarvestDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HarvestDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HarvestDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HarvestDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HarvestDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HarvestDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HarvestDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HarvestDB) createTables() error {
	schema := `
	-- One row per successful harvest
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		variant TEXT NOT NULL,
		years TEXT NOT NULL,
		problems TEXT NOT NULL,
		problem_count INTEGER NOT NULL,
		stylesheets TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant);

	-- Problems of a run, in result order
	CREATE TABLE IF NOT EXISTS problems (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		group_index INTEGER NOT NULL,
		year INTEGER NOT NULL,
		number INTEGER NOT NULL,
		problem_html TEXT NOT NULL,
		solution_html TEXT NOT NULL,
		problem_hash TEXT NOT NULL,
		solution_hash TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_problems_run ON problems(run_id);
	CREATE INDEX IF NOT EXISTS idx_problems_page ON problems(year, number);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// ContentHash returns the hex encoded SHA3-256 digest of a fragment.
func ContentHash(fragment string) string {
	sum := sha3.Sum256([]byte(fragment))
	return hex.EncodeToString(sum[:])
}

// RunRecord describes a stored harvest run.
type RunRecord struct {
	ID           int64
	Timestamp    time.Time
	Variant      model.Variant
	Years        []int
	Problems     string
	ProblemCount int
	Stylesheets  []string
}

// ChangeStatus compares a stored problem with the previous harvest of the
// same page.
type ChangeStatus string

const (
	// StatusNew means the page was never harvested before this run.
	StatusNew ChangeStatus = "new"

	// StatusChanged means at least one fragment differs from the previous harvest.
	StatusChanged ChangeStatus = "changed"

	// StatusUnchanged means both fragments match the previous harvest.
	StatusUnchanged ChangeStatus = "unchanged"
)

// ProblemRecord describes one stored problem of a run.
type ProblemRecord struct {
	ID           int64
	RunID        int64
	Year         int
	Number       int
	ProblemHash  string
	SolutionHash string
	Status       ChangeStatus
}

// SaveResult stores a harvest result as a new run and returns its ID.
// problems is the requested problem range, kept for display.
func (hdb *HarvestDB) SaveResult(ctx context.Context, problems model.Range, result *model.AggregateResult) (int64, error) {
	yearsJSON, err := json.Marshal(result.Years())
	if err != nil {
		return 0, fmt.Errorf("failed to serialize years: %w", err)
	}
	stylesJSON, err := json.Marshal(result.Stylesheets)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize stylesheets: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (variant, years, problems, problem_count, stylesheets)
	VALUES (?, ?, ?, ?, ?)
	`,
		string(result.Variant),
		string(yearsJSON),
		problems.String(),
		result.ProblemCount(),
		string(stylesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO problems (run_id, position, group_index, year, number, problem_html, solution_html, problem_hash, solution_hash)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare problem insert: %w", err)
	}
	defer stmt.Close()

	position := 0
	for groupIndex, group := range result.Groups {
		for _, p := range group.Problems {
			_, err := stmt.ExecContext(ctx,
				runID,
				position,
				groupIndex,
				p.Year,
				p.Number,
				p.Problem,
				p.Solution,
				ContentHash(p.Problem),
				ContentHash(p.Solution),
			)
			if err != nil {
				return 0, fmt.Errorf("failed to insert problem %d/%d: %w", p.Year, p.Number, err)
			}
			position++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (hdb *HarvestDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, timestamp, variant, years, problems, problem_count, stylesheets
	FROM runs
	ORDER BY id DESC
	`
	args := make([]any, 0)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	results := make([]RunRecord, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *run)
	}

	return results, rows.Err()
}

// GetRun retrieves a run by ID. It returns nil when no such run exists.
func (hdb *HarvestDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	row := hdb.db.QueryRowContext(ctx, `
	SELECT id, timestamp, variant, years, problems, problem_count, stylesheets
	FROM runs
	WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row.
func scanRun(row rowScanner) (*RunRecord, error) {
	var run RunRecord
	var timestamp, variant, yearsJSON, stylesJSON string

	err := row.Scan(&run.ID, &timestamp, &variant, &yearsJSON, &run.Problems, &run.ProblemCount, &stylesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Timestamp = parseTimestamp(timestamp)
	run.Variant = model.Variant(variant)
	if err := json.Unmarshal([]byte(yearsJSON), &run.Years); err != nil {
		return nil, fmt.Errorf("failed to parse years of run %d: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(stylesJSON), &run.Stylesheets); err != nil {
		return nil, fmt.Errorf("failed to parse stylesheets of run %d: %w", run.ID, err)
	}

	return &run, nil
}

// GetRunProblems returns the problems of a run in result order, each
// compared with the latest earlier harvest of the same page and variant.
func (hdb *HarvestDB) GetRunProblems(ctx context.Context, runID int64) ([]ProblemRecord, error) {
	query := `
	SELECT p.id, p.run_id, p.year, p.number, p.problem_hash, p.solution_hash,
		(
			SELECT prev.problem_hash || ':' || prev.solution_hash
			FROM problems prev
			JOIN runs prev_run ON prev_run.id = prev.run_id
			WHERE prev_run.variant = r.variant
				AND prev.year = p.year
				AND prev.number = p.number
				AND prev.run_id < p.run_id
			ORDER BY prev.run_id DESC
			LIMIT 1
		) AS previous
	FROM problems p
	JOIN runs r ON r.id = p.run_id
	WHERE p.run_id = ?
	ORDER BY p.position
	`

	rows, err := hdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run problems: %w", err)
	}
	defer rows.Close()

	results := make([]ProblemRecord, 0)
	for rows.Next() {
		var rec ProblemRecord
		var previous sql.NullString

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Year, &rec.Number, &rec.ProblemHash, &rec.SolutionHash, &previous); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}

		switch {
		case !previous.Valid:
			rec.Status = StatusNew
		case previous.String == rec.ProblemHash+":"+rec.SolutionHash:
			rec.Status = StatusUnchanged
		default:
			rec.Status = StatusChanged
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// LoadResult rebuilds the harvest result stored for a run.
// It returns nil when no such run exists.
func (hdb *HarvestDB) LoadResult(ctx context.Context, runID int64) (*model.AggregateResult, error) {
	run, err := hdb.GetRun(ctx, runID)
	if err != nil || run == nil {
		return nil, err
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT group_index, year, number, problem_html, solution_html
	FROM problems
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems: %w", err)
	}
	defer rows.Close()

	groups := make([]*model.YearGroup, len(run.Years))
	for i, year := range run.Years {
		groups[i] = model.NewYearGroup(year)
	}

	for rows.Next() {
		var groupIndex int
		var p model.ExtractedProblem
		if err := rows.Scan(&groupIndex, &p.Year, &p.Number, &p.Problem, &p.Solution); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		if groupIndex < 0 || groupIndex >= len(groups) {
			return nil, fmt.Errorf("problem %d/%d of run %d has invalid group %d", p.Year, p.Number, runID, groupIndex)
		}
		groups[groupIndex].Add(p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := model.NewAggregateResult(run.Variant)
	result.SeedStylesheets(run.Stylesheets)
	for _, g := range groups {
		result.AddGroup(*g)
	}

	return result, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
