// Package history persists generation records locally, preferring SQLite
// with a JSONL file fallback when the database cannot be opened.
package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// SQLiteStore persists generation history in a SQLite database. When the
// database cannot be opened or initialized, every operation transparently
// falls back to a JSONL file next to it.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.asoforge/history/history.db
// database.
func NewSQLiteStore() *SQLiteStore {
	return NewSQLiteStoreAt(filepath.Join(userHome(), ".asoforge", "history", "history.db"))
}

// NewSQLiteStoreAt opens the database at path, used by tests.
func NewSQLiteStoreAt(path string) *SQLiteStore {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	fallback := NewFileStoreAt(strings.TrimSuffix(path, ".db") + ".jsonl")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	store := &SQLiteStore{db: db, path: path, fallback: fallback}
	if err := store.init(); err != nil {
		store.db = nil
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		kind TEXT,
		model TEXT,
		prompt_chars INTEGER,
		output_chars INTEGER,
		duration_ms INTEGER,
		refinement INTEGER
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.GenerationRecord) error {
	if s.db == nil {
		return s.fallback.Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO generations
		(timestamp, kind, model, prompt_chars, output_chars, duration_ms, refinement)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.Kind,
		record.Model,
		record.PromptChars,
		record.OutputChars,
		record.DurationMS,
		boolToInt(record.Refinement),
	)
	return err
}

// Records returns history entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.GenerationRecord, error) {
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, kind, model, prompt_chars, output_chars, duration_ms, refinement FROM generations")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE kind LIKE ? OR model LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.GenerationRecord
	for rows.Next() {
		var rec domain.GenerationRecord
		var ts string
		var refinement int
		if err := rows.Scan(&ts, &rec.Kind, &rec.Model, &rec.PromptChars, &rec.OutputChars, &rec.DurationMS, &refinement); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Refinement = refinement == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	_, err := s.db.Exec("DELETE FROM generations")
	return err
}

// ExportJSON writes the generation table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
