package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFSStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func seedCases(t *testing.T, s *FSStore) {
	t.Helper()
	ctx := context.Background()
	cases := []*CaseStudy{
		{CaseID: "pei_standard_mckinsey_2025", CaseType: CaseTypePEI, Company: "McKinsey", Title: "McKinsey PEI"},
		{CaseID: "case_market_entry", CaseType: CaseTypeStandard, Company: "mckinsey", Title: "Market Entry"},
		{CaseID: "case_pricing", CaseType: CaseTypeStandard, Company: "bain", Title: "Pricing"},
	}
	for _, c := range cases {
		require.NoError(t, s.PutCase(ctx, c))
	}
}

func TestFSStore_FindCaseByID(t *testing.T) {
	s := newTestFSStore(t)
	seedCases(t, s)

	c, err := s.FindCase(context.Background(), CaseFilter{CaseID: "case_market_entry"})
	require.NoError(t, err)
	assert.Equal(t, "Market Entry", c.Title)
}

func TestFSStore_FindCaseFirmIsCaseInsensitive(t *testing.T) {
	s := newTestFSStore(t)
	seedCases(t, s)

	c, err := s.FindCase(context.Background(), CaseFilter{
		CaseID: "pei_standard_mckinsey_2025",
		Firm:   "MCKINSEY",
	})
	require.NoError(t, err)
	assert.Equal(t, "McKinsey PEI", c.Title)
}

func TestFSStore_FindCaseExclusions(t *testing.T) {
	s := newTestFSStore(t)
	seedCases(t, s)

	// Exclude PEI cases and the only standard mckinsey case: nothing left.
	_, err := s.FindCase(context.Background(), CaseFilter{
		Firm:        "mckinsey",
		ExcludeType: CaseTypePEI,
		ExcludeIDs:  []string{"case_market_entry"},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Without the id exclusion the standard case is found.
	c, err := s.FindCase(context.Background(), CaseFilter{
		Firm:        "mckinsey",
		ExcludeType: CaseTypePEI,
	})
	require.NoError(t, err)
	assert.Equal(t, "case_market_entry", c.CaseID)
}

func TestFSStore_ListCases(t *testing.T) {
	s := newTestFSStore(t)
	seedCases(t, s)

	cases, err := s.ListCases(context.Background(), "mckinsey")
	require.NoError(t, err)
	require.Len(t, cases, 2)
	// Filename order: case_market_entry before pei_standard_....
	assert.Equal(t, "case_market_entry", cases[0].CaseID)
	assert.Equal(t, "pei_standard_mckinsey_2025", cases[1].CaseID)
}

func TestFSStore_UserRoundTripAndProgress(t *testing.T) {
	s := newTestFSStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutUser(ctx, &User{
		UserID:      "user-1",
		Name:        "Yvo",
		Preferences: Preferences{SelectedFirm: "mckinsey"},
	}))

	u, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Yvo", u.Name)
	assert.False(t, u.FirmProgress("mckinsey").PEICompleted)

	require.NoError(t, s.SetPEICompleted(ctx, "user-1", "mckinsey"))
	require.NoError(t, s.AddCompletedCase(ctx, "user-1", "mckinsey", "case_market_entry"))
	require.NoError(t, s.AddCompletedCase(ctx, "user-1", "mckinsey", "case_market_entry"))

	u, err = s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	progress := u.FirmProgress("mckinsey")
	assert.True(t, progress.PEICompleted)
	assert.Equal(t, []string{"case_market_entry"}, progress.CompletedCaseIDs,
		"adding the same case twice must keep set semantics")
}

func TestFSStore_GetUserNotFound(t *testing.T) {
	s := newTestFSStore(t)
	_, err := s.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_ProgressUpdateForMissingUser(t *testing.T) {
	s := newTestFSStore(t)
	err := s.SetPEICompleted(context.Background(), "nobody", "mckinsey")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_TranscriptRoundTrip(t *testing.T) {
	s := newTestFSStore(t)
	ctx := context.Background()

	rec := &TranscriptRecord{
		CaseStudyID:    "case_market_entry",
		CaseStudyTitle: "Market Entry",
		CandidateName:  "Yvo",
		Status:         "Completed",
		Timestamp:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Conversation: []TranscriptEntry{
			{Role: "INTERVIEWER", Content: "Welcome."},
			{Role: "CANDIDATE", Content: "Thank you."},
		},
	}

	id, err := s.InsertTranscript(ctx, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id, "an interview id is generated when absent")

	got, err := s.GetTranscript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec.CaseStudyID, got.CaseStudyID)
	require.Len(t, got.Conversation, 2)
	assert.Equal(t, "INTERVIEWER", got.Conversation[0].Role)
}

func TestFSStore_GetTranscriptNotFound(t *testing.T) {
	s := newTestFSStore(t)
	_, err := s.GetTranscript(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCaseFilter_Matches(t *testing.T) {
	c := &CaseStudy{CaseID: "case_a", CaseType: CaseTypeStandard, Company: "Bain"}

	tests := []struct {
		name     string
		filter   CaseFilter
		expected bool
	}{
		{"empty filter matches", CaseFilter{}, true},
		{"id match", CaseFilter{CaseID: "case_a"}, true},
		{"id mismatch", CaseFilter{CaseID: "case_b"}, false},
		{"firm case-insensitive", CaseFilter{Firm: "BAIN"}, true},
		{"firm mismatch", CaseFilter{Firm: "bcg"}, false},
		{"type exclusion misses", CaseFilter{ExcludeType: CaseTypePEI}, true},
		{"type exclusion hits", CaseFilter{ExcludeType: CaseTypeStandard}, false},
		{"id exclusion hits", CaseFilter{ExcludeIDs: []string{"case_a"}}, false},
		{"id exclusion misses", CaseFilter{ExcludeIDs: []string{"case_b"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(c))
		})
	}
}
