package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite. Documents are stored as JSON
// with the fields the catalog filters on lifted into indexed columns.
type SQLiteStore struct {
	db *sql.DB

	// Serializes read-modify-write progress updates to prevent SQLITE_BUSY
	// under concurrent sessions for the same user.
	progressMu sync.Mutex
}

// NewSQLite opens (and if necessary creates) a SQLite-backed store.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency across sessions.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS cases (
		case_id TEXT PRIMARY KEY,
		company TEXT NOT NULL,
		case_type TEXT NOT NULL,
		doc TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cases_company ON cases(company);

	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS interviews (
		interview_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		doc TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// FindCase returns the first case matching the filter, ordered by case id
// so selection is deterministic.
func (s *SQLiteStore) FindCase(ctx context.Context, f CaseFilter) (*CaseStudy, error) {
	where := []string{}
	args := []any{}

	if f.CaseID != "" {
		where = append(where, "case_id = ?")
		args = append(args, f.CaseID)
	}
	if f.Firm != "" {
		where = append(where, "company = ?")
		args = append(args, strings.ToLower(f.Firm))
	}
	if f.ExcludeType != "" {
		where = append(where, "case_type != ?")
		args = append(args, string(f.ExcludeType))
	}
	if len(f.ExcludeIDs) > 0 {
		placeholders := strings.Repeat("?,", len(f.ExcludeIDs))
		where = append(where, "case_id NOT IN ("+placeholders[:len(placeholders)-1]+")")
		for _, id := range f.ExcludeIDs {
			args = append(args, id)
		}
	}

	query := "SELECT doc FROM cases"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY case_id LIMIT 1"

	var doc string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dataErr("find case", err)
	}

	var c CaseStudy
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return nil, dataErr("decode case", err)
	}
	return &c, nil
}

// ListCases returns all cases for a firm, ordered by case id.
func (s *SQLiteStore) ListCases(ctx context.Context, firm string) ([]*CaseStudy, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM cases WHERE company = ? ORDER BY case_id",
		strings.ToLower(firm))
	if err != nil {
		return nil, dataErr("list cases", err)
	}
	defer rows.Close()

	var cases []*CaseStudy
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, dataErr("scan case", err)
		}
		var c CaseStudy
		if err := json.Unmarshal([]byte(doc), &c); err != nil {
			return nil, dataErr("decode case", err)
		}
		cases = append(cases, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("list cases", err)
	}
	return cases, nil
}

// GetUser retrieves a user document by id.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*User, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM users WHERE user_id = ?", userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dataErr("get user", err)
	}

	var u User
	if err := json.Unmarshal([]byte(doc), &u); err != nil {
		return nil, dataErr("decode user", err)
	}
	u.UserID = userID
	return &u, nil
}

// SetPEICompleted marks the firm's PEI as completed for the user.
func (s *SQLiteStore) SetPEICompleted(ctx context.Context, userID, firm string) error {
	return s.updateProgress(ctx, userID, firm, func(p *FirmProgress) {
		p.PEICompleted = true
	})
}

// AddCompletedCase adds a case id to the firm's completed set.
func (s *SQLiteStore) AddCompletedCase(ctx context.Context, userID, firm, caseID string) error {
	return s.updateProgress(ctx, userID, firm, func(p *FirmProgress) {
		if !p.HasCompleted(caseID) {
			p.CompletedCaseIDs = append(p.CompletedCaseIDs, caseID)
		}
	})
}

// updateProgress applies a mutation to one firm's progress record inside a
// transaction, so concurrent sessions cannot lose each other's updates.
func (s *SQLiteStore) updateProgress(ctx context.Context, userID, firm string, mutate func(*FirmProgress)) error {
	s.progressMu.Lock()
	defer s.progressMu.Unlock()

	firm = strings.ToLower(firm)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dataErr("begin progress update", err)
	}
	defer tx.Rollback()

	var doc string
	err = tx.QueryRowContext(ctx,
		"SELECT doc FROM users WHERE user_id = ?", userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return dataErr("read user for progress update", err)
	}

	var u User
	if err := json.Unmarshal([]byte(doc), &u); err != nil {
		return dataErr("decode user", err)
	}
	if u.Progress == nil {
		u.Progress = make(map[string]FirmProgress)
	}
	progress := u.Progress[firm]
	mutate(&progress)
	u.Progress[firm] = progress

	updated, err := json.Marshal(&u)
	if err != nil {
		return dataErr("encode user", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET doc = ? WHERE user_id = ?", string(updated), userID); err != nil {
		return dataErr("write progress update", err)
	}

	if err := tx.Commit(); err != nil {
		return dataErr("commit progress update", err)
	}
	return nil
}

// InsertTranscript stores a finished interview transcript.
func (s *SQLiteStore) InsertTranscript(ctx context.Context, rec *TranscriptRecord) (string, error) {
	if rec.InterviewID == "" {
		rec.InterviewID = uuid.NewString()
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return "", dataErr("encode transcript", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO interviews (interview_id, created_at, doc) VALUES (?, ?, ?)",
		rec.InterviewID, time.Now().UTC().Format(time.RFC3339), string(doc))
	if err != nil {
		return "", dataErr("insert transcript", err)
	}
	return rec.InterviewID, nil
}

// GetTranscript retrieves a stored transcript by interview id.
func (s *SQLiteStore) GetTranscript(ctx context.Context, interviewID string) (*TranscriptRecord, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM interviews WHERE interview_id = ?", interviewID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dataErr("get transcript", err)
	}

	var rec TranscriptRecord
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, dataErr("decode transcript", err)
	}
	return &rec, nil
}

// PutCase inserts or replaces a case document.
func (s *SQLiteStore) PutCase(ctx context.Context, c *CaseStudy) error {
	if c.CaseID == "" {
		return &DataAccessError{Op: "put case", Err: errors.New("case has no caseId")}
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return dataErr("encode case", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cases (case_id, company, case_type, doc) VALUES (?, ?, ?, ?)
		ON CONFLICT(case_id) DO UPDATE SET company = excluded.company,
			case_type = excluded.case_type, doc = excluded.doc`,
		c.CaseID, strings.ToLower(c.Company), string(c.CaseType), string(doc))
	if err != nil {
		return dataErr("put case", err)
	}
	return nil
}

// PutUser inserts or replaces a user document.
func (s *SQLiteStore) PutUser(ctx context.Context, u *User) error {
	if u.UserID == "" {
		return &DataAccessError{Op: "put user", Err: errors.New("user has no userId")}
	}
	doc, err := json.Marshal(u)
	if err != nil {
		return dataErr("encode user", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, doc) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc`,
		u.UserID, string(doc))
	if err != nil {
		return dataErr("put user", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
