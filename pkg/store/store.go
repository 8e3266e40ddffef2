package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by lookups when no document matches.
var ErrNotFound = errors.New("document not found")

// DataAccessError wraps a backend read or write failure.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// dataErr wraps err in a DataAccessError unless it is a not-found.
func dataErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &DataAccessError{Op: op, Err: err}
}

// CaseFilter describes a case lookup. Zero-valued fields are ignored.
type CaseFilter struct {
	CaseID      string   // exact match
	Firm        string   // equality after lower-casing both sides
	ExcludeType CaseType // exclude cases of this type
	ExcludeIDs  []string // exclude cases whose id is in this set
}

// Matches reports whether a case satisfies the filter.
func (f CaseFilter) Matches(c *CaseStudy) bool {
	if f.CaseID != "" && c.CaseID != f.CaseID {
		return false
	}
	if f.Firm != "" && !strings.EqualFold(c.Company, f.Firm) {
		return false
	}
	if f.ExcludeType != "" && c.CaseType == f.ExcludeType {
		return false
	}
	for _, id := range f.ExcludeIDs {
		if c.CaseID == id {
			return false
		}
	}
	return true
}

// Catalog reads case documents.
type Catalog interface {
	// FindCase returns the first case matching the filter, or ErrNotFound.
	FindCase(ctx context.Context, f CaseFilter) (*CaseStudy, error)

	// ListCases returns all cases for a firm, ordered by case id.
	ListCases(ctx context.Context, firm string) ([]*CaseStudy, error)
}

// Users reads user profiles and applies progress updates.
type Users interface {
	GetUser(ctx context.Context, userID string) (*User, error)

	// SetPEICompleted marks the firm's PEI as completed. Idempotent.
	SetPEICompleted(ctx context.Context, userID, firm string) error

	// AddCompletedCase adds a case id to the firm's completed set.
	// Adding an already-present id is a no-op.
	AddCompletedCase(ctx context.Context, userID, firm, caseID string) error
}

// Interviews persists and reads interview transcripts.
type Interviews interface {
	// InsertTranscript stores a transcript and returns its interview id.
	InsertTranscript(ctx context.Context, rec *TranscriptRecord) (string, error)

	GetTranscript(ctx context.Context, interviewID string) (*TranscriptRecord, error)
}

// Store is a full persistence backend. PutCase and PutUser exist for
// seeding the catalog; the interview engine itself never writes cases
// or whole user documents.
type Store interface {
	Catalog
	Users
	Interviews

	PutCase(ctx context.Context, c *CaseStudy) error
	PutUser(ctx context.Context, u *User) error

	Close() error
}
