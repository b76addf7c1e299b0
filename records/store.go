package records

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Custom errors for store operations
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrRunNotFound    = errors.New("run not found")
	ErrNoActiveRun    = errors.New("no run in progress")
)

// Store mirrors emitted records into SQLite, keyed by source document id.
// A later crawl that reaches the same source document replaces the row.
type Store struct {
	db    *sql.DB
	runID *uuid.UUID
}

// Run describes one crawl recorded in the store.
type Run struct {
	RunID      uuid.UUID  `json:"run_id"`
	StartID    int        `json:"start_id"`
	EndID      int        `json:"end_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Emitted    int        `json:"emitted"`
}

// NewStore opens (or creates) the record store at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the records and runs tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		original_id TEXT PRIMARY KEY,
		translation_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		dynasty TEXT NOT NULL,
		author TEXT NOT NULL,
		original_text TEXT NOT NULL,
		translations TEXT NOT NULL,
		notes TEXT NOT NULL,
		translation_url TEXT NOT NULL,
		run_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		start_id INTEGER NOT NULL,
		end_id INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		emitted INTEGER DEFAULT 0
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun records the beginning of a crawl over [startID, endID]. Records
// written afterwards are tagged with the returned run id.
func (s *Store) StartRun(startID, endID int) (uuid.UUID, error) {
	runID := uuid.New()
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, start_id, end_id, started_at) VALUES (?, ?, ?, ?)`,
		runID.String(), startID, endID, formatTime(&now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert run: %w", err)
	}

	s.runID = &runID
	return runID, nil
}

// FinishRun marks the current run complete with the number of records it
// emitted.
func (s *Store) FinishRun(emitted int) error {
	if s.runID == nil {
		return ErrNoActiveRun
	}

	now := time.Now()
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, emitted = ? WHERE run_id = ?`,
		formatTime(&now), emitted, s.runID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	s.runID = nil
	return nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(runID uuid.UUID) (*Run, error) {
	var startedAtStr string
	var finishedAtStr sql.NullString
	run := &Run{RunID: runID}

	err := s.db.QueryRow(
		`SELECT start_id, end_id, started_at, finished_at, emitted FROM runs WHERE run_id = ?`,
		runID.String(),
	).Scan(&run.StartID, &run.EndID, &startedAtStr, &finishedAtStr, &run.Emitted)

	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	run.StartedAt = parseTime(startedAtStr)
	if finishedAtStr.Valid {
		t := parseTime(finishedAtStr.String)
		run.FinishedAt = &t
	}

	return run, nil
}

// Write inserts rec, replacing any earlier row for the same source
// document.
func (s *Store) Write(rec Record) error {
	translations, err := json.Marshal(nonNil(rec.TranslationLines))
	if err != nil {
		return fmt.Errorf("failed to marshal translations: %w", err)
	}
	notes, err := json.Marshal(nonNil(rec.AnnotationLines))
	if err != nil {
		return fmt.Errorf("failed to marshal notes: %w", err)
	}

	var runID any
	if s.runID != nil {
		runID = s.runID.String()
	}

	now := time.Now()
	query := `
		INSERT OR REPLACE INTO records (
			original_id, translation_id, title, dynasty, author,
			original_text, translations, notes, translation_url,
			run_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		rec.SourceDocumentID,
		rec.TranslationID,
		rec.Title,
		rec.Era,
		rec.Author,
		rec.BodyText,
		string(translations),
		string(notes),
		rec.SourceURL,
		runID,
		formatTime(&now),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", rec.SourceDocumentID, err)
	}

	return nil
}

const recordColumns = `
	original_id, translation_id, title, dynasty, author,
	original_text, translations, notes, translation_url
`

// Get retrieves the record for a source document id.
func (s *Store) Get(sourceID string) (*Record, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM records WHERE original_id = ?`, sourceID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	return rec, nil
}

// List returns every stored record ordered by translation id.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`SELECT ` + recordColumns + ` FROM records ORDER BY translation_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		recs = append(recs, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return recs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var translations, notes string

	err := row.Scan(
		&rec.SourceDocumentID, &rec.TranslationID, &rec.Title, &rec.Era, &rec.Author,
		&rec.BodyText, &translations, &notes, &rec.SourceURL,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(translations), &rec.TranslationLines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal translations: %w", err)
	}
	if err := json.Unmarshal([]byte(notes), &rec.AnnotationLines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notes: %w", err)
	}

	return &rec, nil
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
