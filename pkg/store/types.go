// Package store provides persistence for case studies, users, and interview
// transcripts. Two backends implement the same interfaces: a SQLite document
// store and a plain-JSON filesystem store.
package store

import (
	"strings"
	"time"
)

// CaseType classifies a case study.
type CaseType string

const (
	CaseTypePEI      CaseType = "PEI"
	CaseTypeStandard CaseType = "standard"
)

// InterviewStyle controls which interviewer prompt a PEI case uses.
type InterviewStyle string

const (
	StyleInterviewerLed InterviewStyle = "interviewer-led"
	StyleCandidateLed   InterviewStyle = "candidate-led"
)

// CaseStudy is a single case document from the catalog. Read-only to the
// interview engine.
type CaseStudy struct {
	CaseID              string         `json:"caseId"`
	Title               string         `json:"title"`
	ProblemStatement    string         `json:"problemStatement"`
	CaseType            CaseType       `json:"caseType"`
	Company             string         `json:"company"`
	InterviewStyle      InterviewStyle `json:"interviewStyle,omitempty"`
	FocusAreas          []string       `json:"focusAreas,omitempty"`
	InterviewerGuidance []string       `json:"interviewerGuidance,omitempty"`
}

// IsPEI reports whether this is a Personal Experience Interview case.
func (c *CaseStudy) IsPEI() bool {
	return c.CaseType == CaseTypePEI
}

// FirmProgress tracks a user's completion state for one firm.
type FirmProgress struct {
	PEICompleted     bool     `json:"peiCompleted"`
	CompletedCaseIDs []string `json:"completedCaseIds"`
}

// HasCompleted reports whether the given case id is in the completed set.
func (p FirmProgress) HasCompleted(caseID string) bool {
	for _, id := range p.CompletedCaseIDs {
		if id == caseID {
			return true
		}
	}
	return false
}

// Preferences holds the user's interview preferences.
type Preferences struct {
	SelectedFirm string `json:"selectedFirm"`
}

// User is a job-seeker profile with per-firm progress.
type User struct {
	UserID      string                  `json:"userId"`
	Name        string                  `json:"name"`
	Background  string                  `json:"background,omitempty"`
	Preferences Preferences             `json:"preferences"`
	Progress    map[string]FirmProgress `json:"progress,omitempty"`
}

// SelectedFirm returns the user's selected firm normalized to lower case.
// Firm names are canonicalized at the data boundary so the selection policy
// can compare by plain equality.
func (u *User) SelectedFirm() string {
	return strings.ToLower(strings.TrimSpace(u.Preferences.SelectedFirm))
}

// FirmProgress returns the progress record for a firm, or a zero record if
// the user has no progress for it yet.
func (u *User) FirmProgress(firm string) FirmProgress {
	if u.Progress == nil {
		return FirmProgress{}
	}
	return u.Progress[strings.ToLower(firm)]
}

// TranscriptEntry is one exchange in a persisted transcript.
type TranscriptEntry struct {
	Role      string    `json:"role"` // "INTERVIEWER" or "CANDIDATE"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptRecord is the persisted output of a completed interview session.
// Created once at session end; immutable thereafter.
type TranscriptRecord struct {
	InterviewID    string            `json:"interviewId"`
	UserID         string            `json:"userId,omitempty"`
	CaseStudyID    string            `json:"caseStudyId"`
	CaseStudyTitle string            `json:"caseStudyTitle"`
	CandidateName  string            `json:"candidateName"`
	Status         string            `json:"status"`
	StartedAt      time.Time         `json:"startedAt,omitempty"`
	CompletedAt    time.Time         `json:"completedAt,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	Conversation   []TranscriptEntry `json:"conversation"`
}
