package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FSStore implements Store over plain JSON files. It is the fallback data
// source for running without a database: cases and users live at
// deterministic paths under the data directory, transcripts are written as
// JSON files named from the case id and completion timestamp.
//
// Progress updates are read-modify-write here; unlike the SQLite backend
// there is no cross-process serialization. Acceptable for the single-user
// local setup this backend targets.
type FSStore struct {
	dir string
	mu  sync.Mutex
}

// NewFSStore creates a filesystem store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	for _, sub := range []string{"cases", "users", "interviews"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) casePath(caseID string) string {
	return filepath.Join(s.dir, "cases", caseID+".json")
}

func (s *FSStore) userPath(userID string) string {
	return filepath.Join(s.dir, "users", userID+".json")
}

// FindCase scans the case directory in filename order and returns the first
// case matching the filter.
func (s *FSStore) FindCase(ctx context.Context, f CaseFilter) (*CaseStudy, error) {
	// Exact id lookups go straight to the file.
	if f.CaseID != "" {
		c, err := s.readCase(s.casePath(f.CaseID))
		if err != nil {
			return nil, err
		}
		if !f.Matches(c) {
			return nil, ErrNotFound
		}
		return c, nil
	}

	paths, err := s.sortedCasePaths()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		c, err := s.readCase(path)
		if err != nil {
			return nil, err
		}
		if f.Matches(c) {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// ListCases returns all cases for a firm, in case id order.
func (s *FSStore) ListCases(ctx context.Context, firm string) ([]*CaseStudy, error) {
	paths, err := s.sortedCasePaths()
	if err != nil {
		return nil, err
	}

	filter := CaseFilter{Firm: firm}
	var cases []*CaseStudy
	for _, path := range paths {
		c, err := s.readCase(path)
		if err != nil {
			return nil, err
		}
		if filter.Matches(c) {
			cases = append(cases, c)
		}
	}
	return cases, nil
}

func (s *FSStore) sortedCasePaths() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "cases"))
	if err != nil {
		return nil, dataErr("read case directory", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, "cases", entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *FSStore) readCase(path string) (*CaseStudy, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dataErr("read case", err)
	}
	var c CaseStudy
	if err := json.Unmarshal(content, &c); err != nil {
		return nil, dataErr("decode case "+filepath.Base(path), err)
	}
	return &c, nil
}

// GetUser reads a user document by id.
func (s *FSStore) GetUser(ctx context.Context, userID string) (*User, error) {
	content, err := os.ReadFile(s.userPath(userID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dataErr("read user", err)
	}
	var u User
	if err := json.Unmarshal(content, &u); err != nil {
		return nil, dataErr("decode user", err)
	}
	u.UserID = userID
	return &u, nil
}

// SetPEICompleted marks the firm's PEI as completed for the user.
func (s *FSStore) SetPEICompleted(ctx context.Context, userID, firm string) error {
	return s.updateProgress(ctx, userID, firm, func(p *FirmProgress) {
		p.PEICompleted = true
	})
}

// AddCompletedCase adds a case id to the firm's completed set.
func (s *FSStore) AddCompletedCase(ctx context.Context, userID, firm, caseID string) error {
	return s.updateProgress(ctx, userID, firm, func(p *FirmProgress) {
		if !p.HasCompleted(caseID) {
			p.CompletedCaseIDs = append(p.CompletedCaseIDs, caseID)
		}
	})
}

func (s *FSStore) updateProgress(ctx context.Context, userID, firm string, mutate func(*FirmProgress)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	firm = strings.ToLower(firm)
	if u.Progress == nil {
		u.Progress = make(map[string]FirmProgress)
	}
	progress := u.Progress[firm]
	mutate(&progress)
	u.Progress[firm] = progress

	return s.writeJSON(s.userPath(userID), u, "write progress update")
}

// InsertTranscript writes the transcript as a JSON file named from the case
// id and completion timestamp.
func (s *FSStore) InsertTranscript(ctx context.Context, rec *TranscriptRecord) (string, error) {
	if rec.InterviewID == "" {
		rec.InterviewID = uuid.NewString()
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	name := fmt.Sprintf("%s_%s.json", rec.CaseStudyID, ts.UTC().Format("20060102T150405Z"))
	path := filepath.Join(s.dir, "interviews", name)

	if err := s.writeJSON(path, rec, "write transcript"); err != nil {
		return "", err
	}
	return rec.InterviewID, nil
}

// GetTranscript scans the interview directory for a matching interview id.
func (s *FSStore) GetTranscript(ctx context.Context, interviewID string) (*TranscriptRecord, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "interviews"))
	if err != nil {
		return nil, dataErr("read interview directory", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, "interviews", entry.Name()))
		if err != nil {
			return nil, dataErr("read transcript", err)
		}
		var rec TranscriptRecord
		if err := json.Unmarshal(content, &rec); err != nil {
			return nil, dataErr("decode transcript "+entry.Name(), err)
		}
		if rec.InterviewID == interviewID {
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// PutCase writes a case document to its deterministic path.
func (s *FSStore) PutCase(ctx context.Context, c *CaseStudy) error {
	if c.CaseID == "" {
		return &DataAccessError{Op: "put case", Err: errors.New("case has no caseId")}
	}
	return s.writeJSON(s.casePath(c.CaseID), c, "write case")
}

// PutUser writes a user document to its deterministic path.
func (s *FSStore) PutUser(ctx context.Context, u *User) error {
	if u.UserID == "" {
		return &DataAccessError{Op: "put user", Err: errors.New("user has no userId")}
	}
	return s.writeJSON(s.userPath(u.UserID), u, "write user")
}

// Close is a no-op for the filesystem backend.
func (s *FSStore) Close() error {
	return nil
}

func (s *FSStore) writeJSON(path string, v any, op string) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return dataErr(op, err)
	}
	if err := writeAtomic(path, content); err != nil {
		return dataErr(op, err)
	}
	return nil
}

// writeAtomic writes content to a temp file in the target directory and
// renames it into place, so readers never observe a partial document.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = f.Chmod(0644); err != nil {
		return err
	}
	if _, err = f.Write(content); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return err
	}

	success = true
	return nil
}
