package interview

import (
	"time"

	"github.com/YvodeRooij/casecoach/pkg/store"
)

// Transcript output roles.
const (
	TranscriptRoleInterviewer = "INTERVIEWER"
	TranscriptRoleCandidate   = "CANDIDATE"
)

// TranscriptMeta carries the session-level fields of a transcript record.
type TranscriptMeta struct {
	InterviewID    string
	UserID         string
	CaseStudyID    string
	CaseStudyTitle string
	CandidateName  string
	StartedAt      time.Time
	CompletedAt    time.Time
}

// Project converts a finished session history into transcript form. System
// messages are dropped; output roles are assigned by position among the
// remaining messages, alternating from INTERVIEWER, which matches the
// orchestrator's strict interviewer-first turn order. Pure function apart
// from the generation timestamps.
func Project(history []Message, meta TranscriptMeta) store.TranscriptRecord {
	now := time.Now().UTC()

	var conversation []store.TranscriptEntry
	turn := 0
	for _, msg := range history {
		if msg.IsSystem() {
			continue
		}
		role := TranscriptRoleInterviewer
		if turn%2 == 1 {
			role = TranscriptRoleCandidate
		}
		turn++

		ts := msg.Timestamp
		if ts.IsZero() {
			ts = now
		}
		conversation = append(conversation, store.TranscriptEntry{
			Role:      role,
			Content:   msg.Content,
			Timestamp: ts,
		})
	}

	return store.TranscriptRecord{
		InterviewID:    meta.InterviewID,
		UserID:         meta.UserID,
		CaseStudyID:    meta.CaseStudyID,
		CaseStudyTitle: meta.CaseStudyTitle,
		CandidateName:  meta.CandidateName,
		Status:         "Completed",
		StartedAt:      meta.StartedAt,
		CompletedAt:    meta.CompletedAt,
		Timestamp:      now,
		Conversation:   conversation,
	}
}
